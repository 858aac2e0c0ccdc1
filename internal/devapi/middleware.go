package devapi

import (
	"strings"
	"time"

	"github.com/OwesNiyazi/propertyFront/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// requestIDMiddleware ensures every request has a stable request ID.
// It reuses the caller's X-Request-Id, echoes it back, and logs one line
// per request with the status and latency.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Set("request_id", rid)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), rid))
		c.Writer.Header().Set(requestIDHeader, rid)

		start := time.Now()
		c.Next()

		logging.NewLogger(c.Request.Context()).With("component", "devapi").LogInfo(
			"request",
			"request served",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
