package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/OwesNiyazi/propertyFront/internal/listing/domain"
	"github.com/OwesNiyazi/propertyFront/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// TokenSource supplies the bearer credential for authenticated calls.
// An empty token means the call goes out without an Authorization header.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource, handy for tests and scripts.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// Client is the typed wrapper over the property REST API
type Client struct {
	baseURL      string
	tokens       TokenSource
	httpClient   *http.Client
	uploadClient *http.Client
	limiter      *rate.Limiter
	metrics      *metrics
}

// Option customizes a Client
type Option func(*Client)

// WithTimeout sets the timeout used for JSON calls
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithHTTPClient replaces the transport for every call, uploads included
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
		c.uploadClient = hc
	}
}

// WithRateLimit caps outgoing calls to rps per second. Zero disables the cap.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	if tokens == nil {
		tokens = StaticToken("")
	}
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		tokens:       tokens,
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		uploadClient: &http.Client{Timeout: UploadTimeout},
		metrics:      &metrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Metrics returns a snapshot of this client's call counters
func (c *Client) Metrics() Metrics {
	return c.metrics.snapshot()
}

// call describes one request
type call struct {
	op          string
	method      string
	path        string
	body        io.Reader
	contentType string
	anonymous   bool // no bearer header (register, login)
	upload      bool
}

// do performs the request and decodes a 2xx body into out. A value is only
// handed back once the whole body has been read and decoded.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	logger := logging.NewLogger(ctx).With("component", "gateway")
	start := time.Now()

	err := c.roundTrip(ctx, cl, out)
	duration := time.Since(start)
	c.metrics.record(duration, err)

	if err != nil {
		var reqErr *domain.RequestError
		if errors.As(err, &reqErr) {
			logger.LogWarn(cl.op, "remote API rejected request", "status", reqErr.Status, "message", reqErr.Message, "latency", duration)
		} else {
			logger.LogError(cl.op, err, "latency", duration)
		}
		return err
	}

	logger.LogDebug(cl.op, "remote API call succeeded", "method", cl.method, "path", cl.path, "latency", duration)
	return nil
}

func (c *Client) roundTrip(ctx context.Context, cl call, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &domain.NetworkError{Op: cl.op, Err: fmt.Errorf("rate limit wait: %w", err)}
		}
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, cl.body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", cl.op, err)
	}
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	req.Header.Set("Accept", "application/json")

	rid := logging.RequestID(ctx)
	if rid == "" {
		rid = uuid.NewString()
	}
	req.Header.Set(requestIDHeader, rid)

	if !cl.anonymous {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	hc := c.httpClient
	if cl.upload {
		hc = c.uploadClient
	}

	resp, err := hc.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: cl.op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(cl.op, resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.NetworkError{Op: cl.op, Err: fmt.Errorf("read response: %w", err)}
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", cl.op, err)
	}
	return nil
}

// decodeError turns a non-2xx response into a RequestError carrying the
// server's {message} verbatim.
func decodeError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		msg = payload.Message
		if msg == "" {
			msg = payload.Error
		}
	}

	return &domain.RequestError{Op: op, Status: resp.StatusCode, Message: msg}
}

func jsonBody(v any) (io.Reader, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return bytes.NewReader(raw), nil
}
