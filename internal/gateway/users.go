package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/OwesNiyazi/propertyFront/internal/listing/domain"
)

// Register creates an account. It never sends a bearer token.
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error) {
	return c.authenticate(ctx, "register", "/auth/register", req)
}

// Login exchanges credentials for a token. It never sends a bearer token.
func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error) {
	return c.authenticate(ctx, "login", "/auth/login", req)
}

func (c *Client) authenticate(ctx context.Context, op, path string, payload any) (domain.AuthResponse, error) {
	body, err := jsonBody(payload)
	if err != nil {
		return domain.AuthResponse{}, fmt.Errorf("%s: %w", op, err)
	}
	var resp domain.AuthResponse
	err = c.do(ctx, call{op: op, method: http.MethodPost, path: path, body: body, contentType: "application/json", anonymous: true}, &resp)
	if err != nil {
		return domain.AuthResponse{}, err
	}
	return resp, nil
}

// ListUsers returns every account (admin only)
func (c *Client) ListUsers(ctx context.Context) ([]domain.UserSummary, error) {
	var users []domain.UserSummary
	if err := c.do(ctx, call{op: "list users", method: http.MethodGet, path: "/auth/users"}, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser adds an account (admin only)
func (c *Client) CreateUser(ctx context.Context, u domain.NewUser) (domain.UserSummary, error) {
	return c.sendUser(ctx, "create user", http.MethodPost, "/auth/users", u)
}

// UpdateUser edits an account (admin only)
func (c *Client) UpdateUser(ctx context.Context, id string, changes domain.UserChanges) (domain.UserSummary, error) {
	return c.sendUser(ctx, "update user", http.MethodPut, "/auth/users/"+url.PathEscape(id), changes)
}

// DeleteUser removes an account (admin only)
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, call{op: "delete user", method: http.MethodDelete, path: "/auth/users/" + url.PathEscape(id)}, nil)
}

func (c *Client) sendUser(ctx context.Context, op, method, path string, payload any) (domain.UserSummary, error) {
	body, err := jsonBody(payload)
	if err != nil {
		return domain.UserSummary{}, fmt.Errorf("%s: %w", op, err)
	}
	var user domain.UserSummary
	if err := c.do(ctx, call{op: op, method: method, path: path, body: body, contentType: "application/json"}, &user); err != nil {
		return domain.UserSummary{}, err
	}
	return user, nil
}
