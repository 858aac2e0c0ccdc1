package session

import (
	"fmt"
	"time"

	"github.com/OwesNiyazi/propertyFront/internal/listing/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity carried in a token issued by the remote API
type Claims struct {
	UserID   string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	IsAdmin  bool   `json:"isAdmin,omitempty"`
	jwt.RegisteredClaims
}

// ParseClaims reads the claims without checking the signature. The server
// verifies tokens; the client only needs the identity and expiry.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token claims: %w", err)
	}
	return claims, nil
}

// User builds a summary from the claims, falling back to sub for the id
func (c *Claims) User() domain.UserSummary {
	id := c.UserID
	if id == "" {
		id = c.Subject
	}
	return domain.UserSummary{ID: id, Username: c.Username, Email: c.Email, IsAdmin: c.IsAdmin}
}

// Expiry returns the exp claim, zero when absent
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
