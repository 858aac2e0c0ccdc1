package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix  = "propfront:session:" // propfront:session:{profile}
	defaultSessionTTL = 48 * time.Hour
)

// RedisPersister stores one session per profile so several terminals or
// machines can share a login.
type RedisPersister struct {
	client  *redis.Client
	profile string
	ttl     time.Duration
	now     func() time.Time
}

// NewRedisPersister creates a persister for the given profile. A ttl of zero
// uses the default.
func NewRedisPersister(client *redis.Client, profile string, ttl time.Duration) *RedisPersister {
	if profile == "" {
		profile = "default"
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &RedisPersister{client: client, profile: profile, ttl: ttl, now: time.Now}
}

func (p *RedisPersister) Load(ctx context.Context) (Session, error) {
	data, err := p.client.Get(ctx, p.key()).Result()
	if err == redis.Nil {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	var s Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return Session{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return s, nil
}

// Save writes the session. The key never outlives the token's own expiry.
func (p *RedisPersister) Save(ctx context.Context, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := p.ttl
	if !s.ExpiresAt.IsZero() {
		if left := s.ExpiresAt.Sub(p.now()); left < ttl {
			ttl = left
		}
	}
	if ttl <= 0 {
		return p.Clear(ctx)
	}

	if err := p.client.Set(ctx, p.key(), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (p *RedisPersister) Clear(ctx context.Context) error {
	if err := p.client.Del(ctx, p.key()).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (p *RedisPersister) key() string {
	return sessionKeyPrefix + p.profile
}
