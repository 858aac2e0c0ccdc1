package devapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/OwesNiyazi/propertyFront/internal/listing/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		abortMessage(c, http.StatusBadRequest, "All fields are required")
		return
	}

	user, err := s.store.addUser(req.Username, req.Email, req.Password, false)
	if err != nil {
		s.storeError(c, err)
		return
	}
	token, err := s.tokens.issue(user)
	if err != nil {
		abortMessage(c, http.StatusInternalServerError, "Could not issue token")
		return
	}
	c.JSON(http.StatusCreated, domain.AuthResponse{Message: "User registered successfully", Token: token, User: user})
}

func (s *Server) login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.store.authenticate(req.Email, req.Password)
	if err != nil {
		s.storeError(c, err)
		return
	}
	token, err := s.tokens.issue(user)
	if err != nil {
		abortMessage(c, http.StatusInternalServerError, "Could not issue token")
		return
	}
	c.JSON(http.StatusOK, domain.AuthResponse{Token: token, User: user})
}

// storeError maps store sentinels onto the status codes the remote API uses
func (s *Server) storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errInvalidCredentials):
		abortMessage(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, errUserExists):
		abortMessage(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, errUserNotFound), errors.Is(err, errRecordNotFound):
		abortMessage(c, http.StatusNotFound, err.Error())
	default:
		abortMessage(c, http.StatusInternalServerError, "Server error")
	}
}
