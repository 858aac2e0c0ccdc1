package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/OwesNiyazi/propertyFront/internal/listing/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestStore_SetDerivesIdentityFromClaims(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signToken(t, Claims{
		Username: "owen",
		Email:    "o@example.com",
		IsAdmin:  true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-42",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	require.NoError(t, store.Set(ctx, token, nil))

	user, ok := store.User()
	require.True(t, ok)
	assert.Equal(t, "u-42", user.ID)
	assert.Equal(t, "owen", user.Username)
	assert.True(t, store.IsAdmin())
	assert.Equal(t, token, store.Token())
	assert.True(t, exp.Equal(store.Snapshot().ExpiresAt))
}

func TestStore_SetPrefersResponseUser(t *testing.T) {
	store := NewStore(nil)
	token := signToken(t, Claims{UserID: "u-1", IsAdmin: true})

	require.NoError(t, store.Set(context.Background(), token, &domain.UserSummary{ID: "u-1", Username: "kay"}))

	user, _ := store.User()
	assert.Equal(t, "kay", user.Username)
	assert.False(t, store.IsAdmin(), "the server's user object is authoritative")
}

func TestStore_OpaqueToken(t *testing.T) {
	store := NewStore(nil)

	require.NoError(t, store.Set(context.Background(), "not-a-jwt", &domain.UserSummary{ID: "u-1"}))
	assert.True(t, store.Authenticated())
	assert.True(t, store.Snapshot().ExpiresAt.IsZero())

	assert.Error(t, store.Set(context.Background(), "", nil))
}

func TestStore_ClearSignsOut(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister()
	store := NewStore(p)
	require.NoError(t, store.Set(ctx, "tok", &domain.UserSummary{ID: "u", IsAdmin: true}))

	require.NoError(t, store.Clear(ctx))

	assert.False(t, store.Authenticated())
	assert.False(t, store.IsAdmin())
	assert.Empty(t, store.Token())
	persisted, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, persisted.Token)
}

func TestStore_InitDiscardsExpired(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister()
	require.NoError(t, p.Save(ctx, Session{Token: "old", ExpiresAt: time.Now().Add(-time.Minute)}))

	store := NewStore(p)
	require.NoError(t, store.Init(ctx))

	assert.False(t, store.Authenticated())
	persisted, _ := p.Load(ctx)
	assert.Empty(t, persisted.Token)
}

func TestStore_InitRestores(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister()
	require.NoError(t, p.Save(ctx, Session{Token: "live", User: domain.UserSummary{ID: "u", Username: "owen"}}))

	store := NewStore(p)
	require.NoError(t, store.Init(ctx))

	assert.Equal(t, "live", store.Token())
	user, ok := store.User()
	assert.True(t, ok)
	assert.Equal(t, "owen", user.Username)
}

func TestFilePersister(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	p := NewFilePersister(path)

	t.Run("missing file is empty", func(t *testing.T) {
		s, err := p.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, s.Token)
	})

	t.Run("save and load", func(t *testing.T) {
		require.NoError(t, p.Save(ctx, Session{Token: "tok", User: domain.UserSummary{ID: "u1", Email: "a@b.c"}}))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		s, err := p.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok", s.Token)
		assert.Equal(t, "a@b.c", s.User.Email)
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		require.NoError(t, p.Clear(ctx))
		require.NoError(t, p.Clear(ctx))
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("corrupt file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
		_, err := p.Load(ctx)
		assert.Error(t, err)
	})
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisPersister(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	p := NewRedisPersister(client, "work", time.Hour)

	s, err := p.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, s.Token)

	require.NoError(t, p.Save(ctx, Session{Token: "tok", User: domain.UserSummary{ID: "u1"}}))
	assert.True(t, mr.Exists("propfront:session:work"))
	assert.Equal(t, time.Hour, mr.TTL("propfront:session:work"))

	s, err = p.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", s.Token)

	mr.FastForward(2 * time.Hour)
	s, err = p.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, s.Token)
}

func TestRedisPersister_TTLCappedByTokenExpiry(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	p := NewRedisPersister(client, "", 48*time.Hour)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	require.NoError(t, p.Save(ctx, Session{Token: "tok", ExpiresAt: now.Add(10 * time.Minute)}))
	assert.Equal(t, 10*time.Minute, mr.TTL("propfront:session:default"))

	require.NoError(t, p.Save(ctx, Session{Token: "tok", ExpiresAt: now.Add(-time.Minute)}))
	assert.False(t, mr.Exists("propfront:session:default"))
}

func TestRedisPersister_ProfilesAreIsolated(t *testing.T) {
	ctx := context.Background()
	_, client := setupRedis(t)
	a := NewRedisPersister(client, "a", 0)
	b := NewRedisPersister(client, "b", 0)

	require.NoError(t, a.Save(ctx, Session{Token: "token-a"}))
	s, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, s.Token)
}

type fakeAuthGateway struct {
	resp      domain.AuthResponse
	err       error
	lastLogin domain.LoginRequest
	calls     int
}

func (f *fakeAuthGateway) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error) {
	f.calls++
	return f.resp, f.err
}

func (f *fakeAuthGateway) Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error) {
	f.calls++
	f.lastLogin = req
	return f.resp, f.err
}

func TestAuthenticator_Login(t *testing.T) {
	ctx := context.Background()
	gw := &fakeAuthGateway{resp: domain.AuthResponse{Token: "tok", User: domain.UserSummary{ID: "u1", Username: "owen"}}}
	store := NewStore(nil)
	auth := NewAuthenticator(gw, store)

	resp, err := auth.Login(ctx, domain.LoginRequest{Email: "  o@example.com ", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "owen", resp.User.Username)
	assert.Equal(t, "o@example.com", gw.lastLogin.Email)
	assert.Equal(t, "tok", store.Token())

	require.NoError(t, auth.Logout(ctx))
	assert.False(t, store.Authenticated())
}

func TestAuthenticator_LocalValidation(t *testing.T) {
	gw := &fakeAuthGateway{}
	auth := NewAuthenticator(gw, NewStore(nil))

	_, err := auth.Login(context.Background(), domain.LoginRequest{Email: "o@example.com"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = auth.Register(context.Background(), domain.RegisterRequest{Email: "o@example.com", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Zero(t, gw.calls)
}

func TestAuthenticator_FailureLeavesSessionAlone(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	require.NoError(t, store.Set(ctx, "existing", &domain.UserSummary{ID: "u"}))

	gw := &fakeAuthGateway{err: &domain.RequestError{Op: "login", Status: 401, Message: "Invalid credentials"}}
	_, err := NewAuthenticator(gw, store).Login(ctx, domain.LoginRequest{Email: "x@y.z", Password: "bad"})

	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.Equal(t, "existing", store.Token())
}

func TestAuthenticator_LoginWithoutToken(t *testing.T) {
	gw := &fakeAuthGateway{resp: domain.AuthResponse{Message: "ok"}}
	_, err := NewAuthenticator(gw, NewStore(nil)).Login(context.Background(), domain.LoginRequest{Email: "a", Password: "b"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNetwork))
}

func TestAuthenticator_RegisterWithoutTokenStaysSignedOut(t *testing.T) {
	gw := &fakeAuthGateway{resp: domain.AuthResponse{Message: "User registered", User: domain.UserSummary{ID: "u9"}}}
	store := NewStore(nil)

	resp, err := NewAuthenticator(gw, store).Register(context.Background(), domain.RegisterRequest{Username: "n", Email: "e", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "User registered", resp.Message)
	assert.False(t, store.Authenticated())
}
