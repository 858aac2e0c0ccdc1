package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Price is numeric when the source value could be read as a number.
// Free-form text the server stored (e.g. "50k negotiable") is kept in Text.
type Price struct {
	Amount float64
	Valid  bool
	Text   string
}

// NewPrice returns a numeric price.
func NewPrice(amount float64) Price {
	return Price{Amount: amount, Valid: true}
}

// ParsePrice reads s after dropping currency symbols, spaces and thousands separators.
func ParsePrice(s string) Price {
	s = strings.TrimSpace(s)
	if s == "" {
		return Price{}
	}
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) || unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, s)
	if amount, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return Price{Amount: amount, Valid: true}
	}
	return Price{Text: s}
}

func (p Price) IsZero() bool {
	return !p.Valid && p.Text == ""
}

// String renders the form value sent to the server.
func (p Price) String() string {
	if p.Valid {
		return strconv.FormatFloat(p.Amount, 'f', -1, 64)
	}
	return p.Text
}

func (p Price) MarshalJSON() ([]byte, error) {
	switch {
	case p.Valid:
		return json.Marshal(p.Amount)
	case p.Text != "":
		return json.Marshal(p.Text)
	}
	return []byte("null"), nil
}

func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*p = Price{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode price: %w", err)
		}
		*p = ParsePrice(s)
		return nil
	}
	var amount float64
	if err := json.Unmarshal(b, &amount); err != nil {
		return fmt.Errorf("decode price: %w", err)
	}
	*p = NewPrice(amount)
	return nil
}
