// Package devapi is an in-memory implementation of the property REST API.
// It backs local development (cmd/devapi) and the end-to-end client tests.
package devapi

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	serviceName     = "propfront-devapi"
	defaultTokenTTL = 24 * time.Hour
	maxUploadMemory = 32 << 20
)

// Options configures the development API
type Options struct {
	JWTSecret     string
	AdminEmail    string
	AdminPassword string
	Version       string
	TokenTTL      time.Duration
	AllowOrigins  []string
	// BcryptCost overrides the hashing cost; tests use bcrypt.MinCost.
	BcryptCost int
	Now        func() time.Time
}

// Server holds the router and its state
type Server struct {
	Router *gin.Engine
	store  *store
	tokens *tokenIssuer
}

// New builds the router and seeds the admin account
func New(opts Options) (*Server, error) {
	if opts.JWTSecret == "" {
		return nil, fmt.Errorf("devapi: JWT secret is required")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = defaultTokenTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	st := newStore(opts.Now, opts.BcryptCost)
	if opts.AdminEmail != "" {
		if _, err := st.addUser("admin", opts.AdminEmail, opts.AdminPassword, true); err != nil {
			return nil, fmt.Errorf("devapi: seed admin: %w", err)
		}
	}

	s := &Server{
		store:  st,
		tokens: &tokenIssuer{secret: []byte(opts.JWTSecret), ttl: opts.TokenTTL, now: opts.Now},
	}
	s.Router = s.routes(opts)
	return s, nil
}

func (s *Server) routes(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestIDMiddleware())

	corsCfg := cors.DefaultConfig()
	if len(opts.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = opts.AllowOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AddAllowHeaders("Authorization", requestIDHeader)
	corsCfg.AddExposeHeaders(requestIDHeader)
	r.Use(cors.New(corsCfg))

	health := &healthHandler{serviceName: serviceName, version: opts.Version, store: s.store}
	health.register(r)

	r.GET("/uploads/:name", s.serveUpload)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.register)
	authGroup.POST("/login", s.login)

	users := authGroup.Group("/users", requireAuth(s.tokens, s.store), requireAdmin())
	users.GET("", s.listUsers)
	users.POST("", s.createUser)
	users.PUT("/:id", s.updateUser)
	users.DELETE("/:id", s.deleteUser)

	images := api.Group("/images", requireAuth(s.tokens, s.store))
	images.GET("", s.listOwn)
	images.GET("/all", requireAdmin(), s.listAll)
	images.POST("/upload", s.upload)
	images.POST("/admin/upload", requireAdmin(), s.adminUpload)
	images.PUT("/:id", s.updateRecord)
	images.DELETE("/:id", s.deleteRecord)

	return r
}
