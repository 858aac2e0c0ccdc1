package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/OwesNiyazi/propertyFront/internal/listing/domain"
	"github.com/OwesNiyazi/propertyFront/internal/logging"
)

// AuthGateway is the slice of the remote API the authenticator needs
type AuthGateway interface {
	Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error)
	Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error)
}

// Authenticator runs the login and registration flows against the store
type Authenticator struct {
	gateway AuthGateway
	store   *Store
}

func NewAuthenticator(gateway AuthGateway, store *Store) *Authenticator {
	return &Authenticator{gateway: gateway, store: store}
}

// Register creates an account. When the server answers with a token the
// new user is signed in straight away.
func (a *Authenticator) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := requireFields(map[string]string{"username": req.Username, "email": req.Email, "password": req.Password}); err != nil {
		return domain.AuthResponse{}, err
	}

	resp, err := a.gateway.Register(ctx, req)
	if err != nil {
		return domain.AuthResponse{}, err
	}
	if resp.Token != "" {
		if err := a.store.Set(ctx, resp.Token, userOrNil(resp.User)); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

// Login signs in and installs the returned token
func (a *Authenticator) Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := requireFields(map[string]string{"email": req.Email, "password": req.Password}); err != nil {
		return domain.AuthResponse{}, err
	}

	resp, err := a.gateway.Login(ctx, req)
	if err != nil {
		return domain.AuthResponse{}, err
	}
	if resp.Token == "" {
		return domain.AuthResponse{}, fmt.Errorf("login: response carried no token")
	}
	if err := a.store.Set(ctx, resp.Token, userOrNil(resp.User)); err != nil {
		return domain.AuthResponse{}, err
	}
	if u, ok := a.store.User(); ok {
		resp.User = u
	}
	return resp, nil
}

// Logout forgets the token locally. The remote API keeps no session state.
func (a *Authenticator) Logout(ctx context.Context) error {
	user, _ := a.store.User()
	if err := a.store.Clear(ctx); err != nil {
		return err
	}
	logging.NewLogger(ctx).With("component", "session").LogInfo("logout", "session ended", "user", user.Username)
	return nil
}

func requireFields(fields map[string]string) error {
	for _, name := range []string{"username", "email", "password"} {
		v, ok := fields[name]
		if ok && v == "" {
			return &domain.ValidationError{Field: name, Message: fmt.Sprintf("%s is required", name)}
		}
	}
	return nil
}

func userOrNil(u domain.UserSummary) *domain.UserSummary {
	if u == (domain.UserSummary{}) {
		return nil
	}
	return &u
}
