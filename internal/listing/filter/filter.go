package filter

import (
	"strings"
	"time"

	"github.com/OwesNiyazi/propertyFront/internal/listing/domain"
)

// NewWindow is how old a record may be and still count as new.
const NewWindow = 7 * 24 * time.Hour

// Recency buckets records by age.
type Recency string

const (
	RecencyAll Recency = domain.All
	RecencyNew Recency = "New"
	RecencyOld Recency = "Old"
)

// Criteria selects the visible subset of a record list. Zero values pass everything through.
type Criteria struct {
	Category    domain.Category
	ListingKind domain.ListingKind
	SearchText  string
	Recency     Recency
	// Now anchors the recency check; zero means time.Now().
	Now time.Time
}

// Apply returns the records matching every predicate in c, in their original order.
func Apply(records []domain.PropertyRecord, c Criteria) []domain.PropertyRecord {
	now := c.Now
	if now.IsZero() {
		now = time.Now()
	}
	needle := strings.ToLower(strings.TrimSpace(c.SearchText))

	out := make([]domain.PropertyRecord, 0, len(records))
	for _, r := range records {
		if !matchesCategory(r, c.Category) ||
			!matchesListingKind(r, c.ListingKind) ||
			!matchesText(r, needle) ||
			!matchesRecency(r, c.Recency, now) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesCategory(r domain.PropertyRecord, want domain.Category) bool {
	if want == "" || want == domain.All {
		return true
	}
	return r.Category == want
}

func matchesListingKind(r domain.PropertyRecord, want domain.ListingKind) bool {
	if want == "" || want == domain.All {
		return true
	}
	return r.ListingKind == want
}

func matchesText(r domain.PropertyRecord, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Title), needle) ||
		strings.Contains(strings.ToLower(r.Description), needle) ||
		strings.Contains(strings.ToLower(r.Location), needle)
}

func matchesRecency(r domain.PropertyRecord, want Recency, now time.Time) bool {
	age := now.Sub(r.CreatedAt)
	switch want {
	case RecencyNew:
		return age <= NewWindow
	case RecencyOld:
		return age > NewWindow
	}
	return true
}

// ParseRecency reads user input; anything unrecognized means All.
func ParseRecency(s string) Recency {
	switch {
	case strings.EqualFold(strings.TrimSpace(s), string(RecencyNew)):
		return RecencyNew
	case strings.EqualFold(strings.TrimSpace(s), string(RecencyOld)):
		return RecencyOld
	}
	return RecencyAll
}

// ParseCategory is domain.ParseCategory with "all" mapped to the pass-through value.
func ParseCategory(s string) domain.Category {
	if s = strings.TrimSpace(s); s == "" || strings.EqualFold(s, domain.All) {
		return domain.All
	}
	return domain.ParseCategory(s)
}

func ParseListingKind(s string) domain.ListingKind {
	if s = strings.TrimSpace(s); s == "" || strings.EqualFold(s, domain.All) {
		return domain.All
	}
	return domain.ParseListingKind(s)
}
