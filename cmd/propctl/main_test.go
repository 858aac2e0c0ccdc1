package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/OwesNiyazi/propertyFront/config"
	"github.com/OwesNiyazi/propertyFront/internal/devapi"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type cli struct {
	t   *testing.T
	cfg *config.Config
	dir string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv, err := devapi.New(devapi.Options{
		JWTSecret:     "cli-secret",
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin123",
		BcryptCost:    bcrypt.MinCost,
	})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Router)
	t.Cleanup(ts.Close)

	dir := t.TempDir()
	return &cli{
		t:   t,
		dir: dir,
		cfg: &config.Config{
			API:     config.APIConfig{BaseURL: ts.URL + "/api", Timeout: 5 * time.Second},
			Session: config.SessionConfig{Backend: "file", File: filepath.Join(dir, "session.json"), Profile: "default", TTL: time.Hour},
		},
	}
}

func (c *cli) run(args ...string) (string, error) {
	var out bytes.Buffer
	err := run(context.Background(), c.cfg, args, &out)
	return out.String(), err
}

func (c *cli) must(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}

func (c *cli) image(name string) string {
	c.t.Helper()
	path := filepath.Join(c.dir, name)
	require.NoError(c.t, os.WriteFile(path, pngBytes, 0o600))
	return path
}

func TestUsage(t *testing.T) {
	c := newCLI(t)
	assert.Contains(t, c.must(), "usage: propctl")

	_, err := c.run("frobnicate")
	assert.Error(t, err)
}

func TestSessionSurvivesInvocations(t *testing.T) {
	c := newCLI(t)

	assert.Contains(t, c.must("whoami"), "not signed in")
	_, err := c.run("list")
	assert.ErrorContains(t, err, "not signed in")

	assert.Contains(t, c.must("register", "-username", "owen", "-email", "owen@example.com", "-password", "pw"), "signed in as owen")
	assert.Contains(t, c.must("whoami"), "username: owen")

	c.must("logout")
	assert.Contains(t, c.must("whoami"), "not signed in")

	assert.Contains(t, c.must("login", "-email", "admin@example.com", "-password", "admin123"), "(admin)")
}

func TestPropertyLifecycle(t *testing.T) {
	c := newCLI(t)
	c.must("register", "-username", "owen", "-email", "owen@example.com", "-password", "pw")

	out := c.must("add", "-title", "Lake View", "-kind", "rent", "-type", "flats", "-price", "12,000", "-location", "Lakeside", "-image", c.image("a.png"), "-image", c.image("b.png"))
	assert.Contains(t, out, "create succeeded")

	out = c.must("list", "-kind", "Rent")
	assert.Contains(t, out, "Lake View")
	assert.Contains(t, out, "12000")
	assert.Contains(t, c.must("list", "-kind", "Sale"), "no properties")
	assert.Contains(t, c.must("list", "-q", "lakeside"), "Lake View")

	id := firstID(t, c.must("list"))

	c.must("edit", id, "-title", "Lake View II", "-image", c.image("c.png"))
	assert.Contains(t, c.must("list"), "Lake View II")

	_, err := c.run("rm", id)
	assert.ErrorContains(t, err, "without -yes")
	assert.Contains(t, c.must("list"), "Lake View II")

	c.must("rm", id, "-yes")
	assert.Contains(t, c.must("list"), "no properties")
}

func TestAddRejectsBlankTitleLocally(t *testing.T) {
	c := newCLI(t)
	c.must("register", "-username", "owen", "-email", "owen@example.com", "-password", "pw")

	_, err := c.run("add", "-title", "  ", "-kind", "Rent", "-image", c.image("a.png"))
	assert.ErrorContains(t, err, "Title cannot be empty")
}

func TestAdminDashboard(t *testing.T) {
	c := newCLI(t)
	c.must("register", "-username", "owen", "-email", "owen@example.com", "-password", "pw")
	c.must("add", "-title", "Lake View", "-kind", "Rent", "-type", "Flats", "-image", c.image("a.png"))

	_, err := c.run("admin")
	assert.ErrorContains(t, err, "admin rights required")

	c.must("login", "-email", "admin@example.com", "-password", "admin123")
	out := c.must("admin")
	assert.Contains(t, out, "users")
	assert.Contains(t, out, "Flats")
	assert.Contains(t, out, "owen")

	users := c.must("users", "list")
	assert.Contains(t, users, "owen@example.com")

	c.must("users", "add", "-username", "kay", "-email", "kay@example.com", "-password", "pw")
	assert.Contains(t, c.must("users"), "kay@example.com")
}

// firstID pulls the ID column of the first data row of a list table
func firstID(t *testing.T, table string) string {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(table), "\n")
	require.GreaterOrEqual(t, len(lines), 2, table)
	fields := strings.Fields(lines[1])
	require.NotEmpty(t, fields)
	return fields[0]
}
