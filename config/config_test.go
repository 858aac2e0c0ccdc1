package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:8080/api/")
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "file", cfg.Session.Backend)
	assert.NotEmpty(t, cfg.Session.File)
}

func TestLoad_InvalidIntegerFallsBack(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
}

func TestValidate(t *testing.T) {
	t.Run("rejects unknown session backend", func(t *testing.T) {
		cfg := &Config{
			API:     APIConfig{BaseURL: "http://x"},
			Session: SessionConfig{Backend: "cookie"},
		}
		assert.Error(t, cfg.Validate())
	})

	t.Run("redis backend needs an address", func(t *testing.T) {
		cfg := &Config{
			API:     APIConfig{BaseURL: "http://x"},
			Session: SessionConfig{Backend: "redis"},
		}
		assert.Error(t, cfg.Validate())

		cfg.Redis.Addr = "localhost:6379"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("rejects negative rate limit", func(t *testing.T) {
		cfg := &Config{
			API:     APIConfig{BaseURL: "http://x", RateLimit: -1},
			Session: SessionConfig{Backend: "file", File: "s.json"},
		}
		assert.Error(t, cfg.Validate())
	})
}
