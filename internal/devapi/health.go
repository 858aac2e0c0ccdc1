package devapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Users     int       `json:"users"`
	Records   int       `json:"records"`
}

type healthHandler struct {
	serviceName string
	version     string
	store       *store
}

func (h *healthHandler) check(c *gin.Context) {
	users, records := h.store.counts()
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Users:     users,
		Records:   records,
	})
}

func (h *healthHandler) register(r gin.IRouter) {
	r.GET("/health", h.check)
	r.GET("/healthz", h.check)
}
