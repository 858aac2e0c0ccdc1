package domain

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyRecord_DecodeCurrentShape(t *testing.T) {
	body := `{
		"_id": "abc",
		"title": "Lake View",
		"description": "Two floors",
		"price": 125000,
		"type": "house villas",
		"propertyType": "rent",
		"location": "Pune",
		"imageUrls": ["https://cdn/1.jpg", "https://cdn/2.jpg"],
		"createdBy": {"_id": "u1", "username": "owen", "email": "o@example.com"},
		"createdAt": "2025-03-01T10:00:00.000Z",
		"updatedAt": "2025-03-02T10:00:00.000Z"
	}`

	var r PropertyRecord
	require.NoError(t, json.Unmarshal([]byte(body), &r))

	assert.Equal(t, "abc", r.ID)
	assert.Equal(t, CategoryHouseVillas, r.Category)
	assert.Equal(t, ListingRent, r.ListingKind)
	assert.Equal(t, NewPrice(125000), r.Price)
	assert.Equal(t, []string{"https://cdn/1.jpg", "https://cdn/2.jpg"}, r.Images)
	require.NotNil(t, r.Owner.User)
	assert.Equal(t, "u1", r.Owner.ID)
	assert.Equal(t, "owen", r.Owner.Username())
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), r.CreatedAt.UTC())
}

func TestPropertyRecord_DecodeLegacyShape(t *testing.T) {
	body := `{
		"_id": "old-1",
		"title": "City Flat",
		"price": "₹50,000",
		"listing": "Sale",
		"imageUrl": "https://cdn/only.jpg",
		"createdBy": "u9",
		"createdAt": "2024-01-01T00:00:00Z"
	}`

	var r PropertyRecord
	require.NoError(t, json.Unmarshal([]byte(body), &r))

	assert.Equal(t, ListingSale, r.ListingKind)
	assert.Equal(t, []string{"https://cdn/only.jpg"}, r.Images)
	assert.Equal(t, OwnerRef{ID: "u9"}, r.Owner)
	assert.Equal(t, "u9", r.Owner.Username())
	assert.True(t, r.Price.Valid)
	assert.Equal(t, 50000.0, r.Price.Amount)
	assert.Equal(t, Category(""), r.Category)
}

func TestPropertyRecord_UserIDFallback(t *testing.T) {
	var r PropertyRecord
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","title":"t","userId":"u2","imageUrls":[]}`), &r))
	assert.Equal(t, "x", r.ID)
	assert.Equal(t, "u2", r.Owner.ID)
	assert.Empty(t, r.Images)
}

func TestPropertyRecord_RoundTripKeepsImageOrder(t *testing.T) {
	in := PropertyRecord{
		ID:          "r1",
		Title:       "Plot near highway",
		Price:       ParsePrice("call for price"),
		Category:    CategoryPlots,
		ListingKind: ListingSale,
		Images:      []string{"c.jpg", "a.jpg", "b.jpg"},
		Owner:       OwnerRef{ID: "u1"},
		CreatedAt:   time.Date(2025, 5, 1, 8, 30, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out PropertyRecord
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in.Images, out.Images)
	assert.Equal(t, "call for price", out.Price.Text)
	assert.False(t, out.Price.Valid)
	assert.Equal(t, in.CreatedAt, out.CreatedAt)
	assert.Equal(t, in.Owner, out.Owner)
}

func TestPropertyRecord_BadTimestamp(t *testing.T) {
	var r PropertyRecord
	err := json.Unmarshal([]byte(`{"_id":"x","title":"t","createdAt":"yesterday"}`), &r)
	assert.Error(t, err)
}

func TestParsePrice(t *testing.T) {
	assert.Equal(t, NewPrice(50000), ParsePrice(" ₹50,000 "))
	assert.Equal(t, NewPrice(1250.5), ParsePrice("$1,250.50"))
	assert.Equal(t, Price{Text: "50k"}, ParsePrice("50k"))
	assert.True(t, ParsePrice("").IsZero())
	assert.Equal(t, "1250.5", NewPrice(1250.5).String())
}

func TestFields_Validate(t *testing.T) {
	err := Fields{Title: "   "}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	assert.NoError(t, Fields{Title: "ok"}.Validate())
	assert.Equal(t, "ok", Fields{Title: "  ok "}.Trimmed().Title)
}

func TestRequestError_Is(t *testing.T) {
	notFound := &RequestError{Op: "update", Status: http.StatusNotFound, Message: "Image not found"}
	assert.True(t, errors.Is(notFound, ErrNotFound))
	assert.False(t, errors.Is(notFound, ErrUnauthorized))
	assert.Equal(t, "Image not found", notFound.Error())

	forbidden := &RequestError{Op: "list all", Status: http.StatusForbidden}
	assert.True(t, errors.Is(forbidden, ErrUnauthorized))
	assert.Equal(t, "list all failed with status 403", forbidden.Error())

	assert.True(t, errors.Is(&RequestError{Status: http.StatusBadRequest}, ErrValidation))

	netErr := &NetworkError{Op: "delete", Err: errors.New("connection refused")}
	assert.True(t, errors.Is(netErr, ErrNetwork))
}

func TestImageFile_IsImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	assert.True(t, ImageFile{Name: "a.png", Content: png}.IsImage())
	assert.False(t, ImageFile{Name: "a.txt", Content: []byte("hello")}.IsImage())
	assert.True(t, ImageFile{ContentType: "image/jpeg"}.IsImage())
}
