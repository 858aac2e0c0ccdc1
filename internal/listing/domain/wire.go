package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// recordWire is the JSON shape of a record across every server version seen so far:
// single imageUrl vs imageUrls, optional propertyType (or legacy "listing"), and
// createdBy as either a bare id or an expanded user.
type recordWire struct {
	ID           string          `json:"_id,omitempty"`
	LegacyID     string          `json:"id,omitempty"`
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	Price        *Price          `json:"price,omitempty"`
	Type         string          `json:"type,omitempty"`
	PropertyType string          `json:"propertyType,omitempty"`
	Listing      string          `json:"listing,omitempty"`
	Location     string          `json:"location,omitempty"`
	ImageURLs    []string        `json:"imageUrls"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	CreatedBy    json.RawMessage `json:"createdBy,omitempty"`
	UserID       string          `json:"userId,omitempty"`
	CreatedAt    string          `json:"createdAt,omitempty"`
	UpdatedAt    string          `json:"updatedAt,omitempty"`
}

// UnmarshalJSON accepts any known record shape and normalizes it to the richest one.
func (r *PropertyRecord) UnmarshalJSON(b []byte) error {
	var w recordWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	out := PropertyRecord{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		Category:    ParseCategory(w.Type),
		ListingKind: ParseListingKind(w.PropertyType),
		Location:    w.Location,
	}
	if out.ID == "" {
		out.ID = w.LegacyID
	}
	if out.ListingKind == "" {
		out.ListingKind = ParseListingKind(w.Listing)
	}
	if w.Price != nil {
		out.Price = *w.Price
	}

	out.Images = make([]string, 0, len(w.ImageURLs)+1)
	for _, u := range w.ImageURLs {
		if u = strings.TrimSpace(u); u != "" {
			out.Images = append(out.Images, u)
		}
	}
	if len(out.Images) == 0 && strings.TrimSpace(w.ImageURL) != "" {
		out.Images = append(out.Images, strings.TrimSpace(w.ImageURL))
	}

	owner, err := decodeOwner(w.CreatedBy)
	if err != nil {
		return err
	}
	if owner.ID == "" {
		owner.ID = w.UserID
	}
	out.Owner = owner

	if out.CreatedAt, err = parseTimestamp(w.CreatedAt); err != nil {
		return fmt.Errorf("decode createdAt: %w", err)
	}
	if out.UpdatedAt, err = parseTimestamp(w.UpdatedAt); err != nil {
		return fmt.Errorf("decode updatedAt: %w", err)
	}

	*r = out
	return nil
}

// MarshalJSON always writes the current wire shape.
func (r PropertyRecord) MarshalJSON() ([]byte, error) {
	w := recordWire{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Type:         string(r.Category),
		PropertyType: string(r.ListingKind),
		Location:     r.Location,
		ImageURLs:    r.Images,
	}
	if w.ImageURLs == nil {
		w.ImageURLs = []string{}
	}
	if !r.Price.IsZero() {
		w.Price = &r.Price
	}
	switch {
	case r.Owner.User != nil:
		raw, err := json.Marshal(r.Owner.User)
		if err != nil {
			return nil, err
		}
		w.CreatedBy = raw
	case r.Owner.ID != "":
		raw, err := json.Marshal(r.Owner.ID)
		if err != nil {
			return nil, err
		}
		w.CreatedBy = raw
	}
	if !r.CreatedAt.IsZero() {
		w.CreatedAt = r.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	if !r.UpdatedAt.IsZero() {
		w.UpdatedAt = r.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	return json.Marshal(w)
}

func decodeOwner(raw json.RawMessage) (OwnerRef, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return OwnerRef{}, nil
	}
	if raw[0] == '"' {
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return OwnerRef{}, fmt.Errorf("decode createdBy: %w", err)
		}
		return OwnerRef{ID: id}, nil
	}
	var u UserSummary
	if err := json.Unmarshal(raw, &u); err != nil {
		return OwnerRef{}, fmt.Errorf("decode createdBy: %w", err)
	}
	return OwnerRef{ID: u.ID, User: &u}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

type userWire struct {
	ID       string `json:"_id"`
	LegacyID string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
}

// UnmarshalJSON accepts both "_id" and "id" for the identifier.
func (u *UserSummary) UnmarshalJSON(b []byte) error {
	var w userWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	u.ID = w.ID
	if u.ID == "" {
		u.ID = w.LegacyID
	}
	u.Username = w.Username
	u.Email = w.Email
	u.IsAdmin = w.IsAdmin
	return nil
}
