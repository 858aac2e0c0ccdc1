package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/OwesNiyazi/propertyFront/internal/listing/domain"
	"github.com/OwesNiyazi/propertyFront/internal/logging"
)

// Gateway is the user-management slice of the remote API
type Gateway interface {
	ListUsers(ctx context.Context) ([]domain.UserSummary, error)
	CreateUser(ctx context.Context, u domain.NewUser) (domain.UserSummary, error)
	UpdateUser(ctx context.Context, id string, changes domain.UserChanges) (domain.UserSummary, error)
	DeleteUser(ctx context.Context, id string) error
}

// Directory is the admin console's user list. Like the record client it
// refreshes after every change and refuses overlapping changes to one user.
type Directory struct {
	gateway Gateway

	mu      sync.RWMutex
	users   []domain.UserSummary
	pending map[string]bool
}

func NewDirectory(gateway Gateway) *Directory {
	return &Directory{gateway: gateway, pending: make(map[string]bool)}
}

// Refresh replaces the held list
func (d *Directory) Refresh(ctx context.Context) error {
	users, err := d.gateway.ListUsers(ctx)
	if err != nil {
		logging.NewLogger(ctx).With("component", "users").LogError("refresh", err)
		return err
	}
	d.mu.Lock()
	d.users = users
	d.mu.Unlock()
	return nil
}

// Users returns a copy of the held list
func (d *Directory) Users() []domain.UserSummary {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]domain.UserSummary(nil), d.users...)
}

// Find returns the held user with the given id or email
func (d *Directory) Find(key string) (domain.UserSummary, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.ID == key || strings.EqualFold(u.Email, key) {
			return u, true
		}
	}
	return domain.UserSummary{}, false
}

func (d *Directory) Create(ctx context.Context, u domain.NewUser) (domain.UserSummary, error) {
	u.Username = strings.TrimSpace(u.Username)
	u.Email = strings.TrimSpace(u.Email)
	switch {
	case u.Username == "":
		return domain.UserSummary{}, &domain.ValidationError{Field: "username", Message: "Username cannot be empty"}
	case u.Email == "":
		return domain.UserSummary{}, &domain.ValidationError{Field: "email", Message: "Email cannot be empty"}
	}

	var created domain.UserSummary
	err := d.mutate(ctx, "create user", "", func() error {
		var err error
		created, err = d.gateway.CreateUser(ctx, u)
		return err
	})
	return created, err
}

func (d *Directory) Update(ctx context.Context, id string, changes domain.UserChanges) (domain.UserSummary, error) {
	if changes.Username != nil && strings.TrimSpace(*changes.Username) == "" {
		return domain.UserSummary{}, &domain.ValidationError{Field: "username", Message: "Username cannot be empty"}
	}
	if changes.Email != nil && strings.TrimSpace(*changes.Email) == "" {
		return domain.UserSummary{}, &domain.ValidationError{Field: "email", Message: "Email cannot be empty"}
	}

	var updated domain.UserSummary
	err := d.mutate(ctx, "update user", id, func() error {
		var err error
		updated, err = d.gateway.UpdateUser(ctx, id, changes)
		return err
	})
	return updated, err
}

func (d *Directory) Delete(ctx context.Context, id string) error {
	return d.mutate(ctx, "delete user", id, func() error {
		return d.gateway.DeleteUser(ctx, id)
	})
}

func (d *Directory) mutate(ctx context.Context, op, key string, send func() error) error {
	logger := logging.NewLogger(ctx).With("component", "users")

	d.mu.Lock()
	if d.pending[key] {
		d.mu.Unlock()
		return domain.ErrMutationInFlight
	}
	d.pending[key] = true
	d.mu.Unlock()

	err := send()

	d.mu.Lock()
	delete(d.pending, key)
	d.mu.Unlock()

	if err != nil {
		logger.LogError(op, err, "user_id", key)
		return err
	}
	logger.LogInfo(op, "user change accepted", "user_id", key)

	if err := d.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh after %s: %w", op, err)
	}
	return nil
}
