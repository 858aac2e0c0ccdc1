package gateway

import "time"

const (
	// DefaultTimeout is the standard timeout for JSON calls
	DefaultTimeout = 30 * time.Second

	// UploadTimeout is for multipart calls carrying image bytes
	UploadTimeout = 90 * time.Second

	// maxErrorBody caps how much of a failed response is read
	maxErrorBody = 64 << 10

	requestIDHeader = "X-Request-Id"
)
