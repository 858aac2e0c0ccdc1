package devapi

import (
	"net/http"
	"strings"

	"github.com/OwesNiyazi/propertyFront/internal/listing/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) listUsers(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.listUsers())
}

func (s *Server) createUser(c *gin.Context) {
	var req domain.NewUser
	if err := c.ShouldBindJSON(&req); err != nil {
		abortMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		abortMessage(c, http.StatusBadRequest, "Username, email and password are required")
		return
	}

	user, err := s.store.addUser(req.Username, req.Email, req.Password, req.IsAdmin)
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (s *Server) updateUser(c *gin.Context) {
	var req domain.UserChanges
	if err := c.ShouldBindJSON(&req); err != nil {
		abortMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if (req.Username != nil && strings.TrimSpace(*req.Username) == "") || (req.Email != nil && strings.TrimSpace(*req.Email) == "") {
		abortMessage(c, http.StatusBadRequest, "Username and email cannot be empty")
		return
	}

	user, err := s.store.updateUser(c.Param("id"), req)
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) deleteUser(c *gin.Context) {
	id := c.Param("id")
	if id == c.GetString(ctxUserID) {
		abortMessage(c, http.StatusBadRequest, "You cannot delete your own account")
		return
	}
	if err := s.store.deleteUser(id); err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
