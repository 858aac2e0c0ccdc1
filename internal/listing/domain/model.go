package domain

import (
	"net/http"
	"strings"
	"time"
)

// PropertyRecord is one property card as held by the client
type PropertyRecord struct {
	ID          string
	Title       string
	Description string
	Price       Price
	Category    Category
	ListingKind ListingKind
	Location    string
	Images      []string // image URLs, in display order
	Owner       OwnerRef
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnerRef points at the creating user; User is set only when the server expanded it.
type OwnerRef struct {
	ID   string
	User *UserSummary
}

// Username returns the expanded username, or the bare id when the owner was not expanded.
func (o OwnerRef) Username() string {
	if o.User != nil && o.User.Username != "" {
		return o.User.Username
	}
	return o.ID
}

// UserSummary is the identity the authentication service hands out
type UserSummary struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Fields carries the editable attributes of a record. Nil pointers are not sent.
type Fields struct {
	Title       string
	Description *string
	Price       *Price
	Category    *Category
	ListingKind *ListingKind
	Location    *string
}

// Validate enforces the only client-side rule: the title must not be blank.
func (f Fields) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return &ValidationError{Field: "title", Message: "Title cannot be empty"}
	}
	return nil
}

// Trimmed returns a copy with surrounding whitespace removed from text fields.
func (f Fields) Trimmed() Fields {
	out := f
	out.Title = strings.TrimSpace(f.Title)
	if f.Description != nil {
		out.Description = Ptr(strings.TrimSpace(*f.Description))
	}
	if f.Location != nil {
		out.Location = Ptr(strings.TrimSpace(*f.Location))
	}
	return out
}

// FieldsOf copies the editable attributes out of an existing record.
func FieldsOf(r PropertyRecord) Fields {
	f := Fields{
		Title:       r.Title,
		Description: Ptr(r.Description),
		Location:    Ptr(r.Location),
	}
	if !r.Price.IsZero() {
		f.Price = Ptr(r.Price)
	}
	if r.Category != "" {
		f.Category = Ptr(r.Category)
	}
	if r.ListingKind != "" {
		f.ListingKind = Ptr(r.ListingKind)
	}
	return f
}

// ImageFile is image content waiting to be uploaded
type ImageFile struct {
	Name        string
	ContentType string
	Content     []byte
}

// DetectedType returns the declared content type, sniffing the bytes when none was given.
func (f ImageFile) DetectedType() string {
	if f.ContentType != "" {
		return f.ContentType
	}
	return http.DetectContentType(f.Content)
}

func (f ImageFile) IsImage() bool {
	return strings.HasPrefix(f.DetectedType(), "image/")
}

// RegisterRequest is the payload for /auth/register
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by login and registration
type AuthResponse struct {
	Token   string      `json:"token"`
	User    UserSummary `json:"user"`
	Message string      `json:"message,omitempty"`
}

// NewUser is an admin request to create an account
type NewUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"isAdmin"`
}

// UserChanges is an admin request to edit an account. Nil fields stay as they are.
type UserChanges struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	IsAdmin  *bool   `json:"isAdmin,omitempty"`
}

func Ptr[T any](v T) *T {
	return &v
}
