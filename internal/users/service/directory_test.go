package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/OwesNiyazi/propertyFront/internal/listing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	users   []domain.UserSummary
	calls   int
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeUsers) ListUsers(ctx context.Context) ([]domain.UserSummary, error) {
	return append([]domain.UserSummary(nil), f.users...), nil
}

func (f *fakeUsers) CreateUser(ctx context.Context, u domain.NewUser) (domain.UserSummary, error) {
	f.calls++
	created := domain.UserSummary{ID: fmt.Sprintf("u%d", len(f.users)+1), Username: u.Username, Email: u.Email, IsAdmin: u.IsAdmin}
	f.users = append(f.users, created)
	return created, nil
}

func (f *fakeUsers) UpdateUser(ctx context.Context, id string, changes domain.UserChanges) (domain.UserSummary, error) {
	if f.block != nil {
		f.entered <- struct{}{}
		<-f.block
	}
	f.calls++
	for i := range f.users {
		if f.users[i].ID != id {
			continue
		}
		if changes.IsAdmin != nil {
			f.users[i].IsAdmin = *changes.IsAdmin
		}
		if changes.Username != nil {
			f.users[i].Username = *changes.Username
		}
		return f.users[i], nil
	}
	return domain.UserSummary{}, &domain.RequestError{Op: "update user", Status: 404, Message: "User not found"}
}

func (f *fakeUsers) DeleteUser(ctx context.Context, id string) error {
	f.calls++
	for i := range f.users {
		if f.users[i].ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return &domain.RequestError{Op: "delete user", Status: 404, Message: "User not found"}
}

func TestDirectory_CRUD(t *testing.T) {
	ctx := context.Background()
	gw := &fakeUsers{users: []domain.UserSummary{{ID: "u1", Username: "admin", Email: "admin@example.com", IsAdmin: true}}}
	d := NewDirectory(gw)
	require.NoError(t, d.Refresh(ctx))
	assert.Len(t, d.Users(), 1)

	created, err := d.Create(ctx, domain.NewUser{Username: " kay ", Email: "k@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "kay", created.Username)
	assert.Len(t, d.Users(), 2)

	_, err = d.Update(ctx, created.ID, domain.UserChanges{IsAdmin: domain.Ptr(true)})
	require.NoError(t, err)
	u, ok := d.Find("K@example.com")
	require.True(t, ok)
	assert.True(t, u.IsAdmin)

	require.NoError(t, d.Delete(ctx, created.ID))
	_, ok = d.Find(created.ID)
	assert.False(t, ok)

	err = d.Delete(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDirectory_LocalValidation(t *testing.T) {
	gw := &fakeUsers{}
	d := NewDirectory(gw)

	_, err := d.Create(context.Background(), domain.NewUser{Email: "x@y.z"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = d.Create(context.Background(), domain.NewUser{Username: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = d.Update(context.Background(), "u1", domain.UserChanges{Username: domain.Ptr("  ")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Zero(t, gw.calls)
}

func TestDirectory_OverlappingChangeRejected(t *testing.T) {
	ctx := context.Background()
	gw := &fakeUsers{
		users:   []domain.UserSummary{{ID: "u1", Username: "kay"}},
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	d := NewDirectory(gw)

	done := make(chan error, 1)
	go func() {
		_, err := d.Update(ctx, "u1", domain.UserChanges{IsAdmin: domain.Ptr(true)})
		done <- err
	}()
	<-gw.entered

	assert.ErrorIs(t, d.Delete(ctx, "u1"), domain.ErrMutationInFlight)

	close(gw.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, gw.calls)
}
