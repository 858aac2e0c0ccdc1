package devapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/OwesNiyazi/propertyFront/internal/listing/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxUserID  = "user_id"
	ctxIsAdmin = "is_admin"
)

type tokenClaims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func (t *tokenIssuer) issue(u domain.UserSummary) (string, error) {
	now := t.now()
	claims := tokenClaims{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			Issuer:    "propfront-devapi",
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (t *tokenIssuer) verify(raw string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// requireAuth rejects requests without a valid bearer token. Admin rights
// are read from the store so revoking them takes effect immediately.
func requireAuth(tokens *tokenIssuer, st *store) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			abortMessage(c, http.StatusUnauthorized, "No token, authorization denied")
			return
		}
		claims, err := tokens.verify(raw)
		if err != nil {
			abortMessage(c, http.StatusUnauthorized, "Token is not valid")
			return
		}
		id := claims.UserID
		if id == "" {
			id = claims.Subject
		}
		user, ok := st.user(id)
		if !ok {
			abortMessage(c, http.StatusUnauthorized, "User no longer exists")
			return
		}

		c.Set(ctxUserID, user.ID)
		c.Set(ctxIsAdmin, user.IsAdmin)
		c.Next()
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ctxIsAdmin) {
			abortMessage(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}

func abortMessage(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}
