package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/OwesNiyazi/propertyFront/internal/listing/domain"
	"github.com/OwesNiyazi/propertyFront/internal/listing/filter"
	"github.com/OwesNiyazi/propertyFront/internal/logging"
)

// Scope selects which records a refresh loads
type Scope string

const (
	ScopeOwn Scope = "own"
	ScopeAll Scope = "all" // admin only
)

// Gateway is the remote API surface the record client drives
type Gateway interface {
	ListOwn(ctx context.Context) ([]domain.PropertyRecord, error)
	ListAll(ctx context.Context) ([]domain.PropertyRecord, error)
	Create(ctx context.Context, fields domain.Fields, images []domain.ImageFile) (domain.PropertyRecord, error)
	Update(ctx context.Context, id string, fields domain.Fields, images []domain.ImageFile, retained []string) (domain.PropertyRecord, error)
	Delete(ctx context.Context, id string) error
}

// Client owns the in-memory record list for one view and keeps it in step
// with the remote API. Every successful mutation is followed by a full
// refresh so server-computed fields are never guessed.
type Client struct {
	gateway  Gateway
	notifier Notifier
	now      func() time.Time
	guard    *guard

	mu      sync.RWMutex
	records []domain.PropertyRecord
	scope   Scope
}

// Option customizes a Client
type Option func(*Client)

func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithClock overrides the time source used for recency filtering
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func NewClient(gateway Gateway, opts ...Option) *Client {
	c := &Client{
		gateway:  gateway,
		notifier: noopNotifier{},
		now:      time.Now,
		guard:    newGuard(),
		scope:    ScopeOwn,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh replaces the whole list with the server's current answer. On
// failure the held list is left untouched.
func (c *Client) Refresh(ctx context.Context, scope Scope) error {
	logger := logging.NewLogger(ctx).With("component", "listing", "scope", scope)

	var (
		records []domain.PropertyRecord
		err     error
	)
	switch scope {
	case ScopeOwn:
		records, err = c.gateway.ListOwn(ctx)
	case ScopeAll:
		records, err = c.gateway.ListAll(ctx)
	default:
		return fmt.Errorf("refresh: unknown scope %q", scope)
	}
	if err != nil {
		logger.LogError("refresh", err)
		return err
	}

	records = dedupe(records)

	c.mu.Lock()
	c.records = records
	c.scope = scope
	c.mu.Unlock()

	logger.LogDebug("refresh", "record list replaced", "count", len(records))
	return nil
}

// Records returns a copy of the held list
func (c *Client) Records() []domain.PropertyRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.PropertyRecord, len(c.records))
	for i, r := range c.records {
		out[i] = cloneRecord(r)
	}
	return out
}

// Get returns the held record with the given id
func (c *Client) Get(id string) (domain.PropertyRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.records {
		if r.ID == id {
			return cloneRecord(r), true
		}
	}
	return domain.PropertyRecord{}, false
}

// Scope returns the scope of the last successful refresh
func (c *Client) Scope() Scope {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scope
}

// View applies the filter engine to the held list. A zero Now is filled
// from the client's clock.
func (c *Client) View(criteria filter.Criteria) []domain.PropertyRecord {
	if criteria.Now.IsZero() {
		criteria.Now = c.now()
	}
	return filter.Apply(c.Records(), criteria)
}

// State reports whether a mutation on id is in flight. Pass "" for create.
func (c *Client) State(id string) MutationState {
	return c.guard.state(id)
}

// Create uploads a new record and refreshes the list
func (c *Client) Create(ctx context.Context, fields domain.Fields, images []domain.ImageFile) (domain.PropertyRecord, error) {
	fields = fields.Trimmed()
	if err := fields.Validate(); err != nil {
		return domain.PropertyRecord{}, err
	}

	var created domain.PropertyRecord
	err := c.mutate(ctx, KindCreate, createSlot, func() (string, error) {
		var err error
		created, err = c.gateway.Create(ctx, fields, images)
		return created.ID, err
	})
	if err != nil && created.ID == "" {
		return domain.PropertyRecord{}, err
	}
	return c.latest(created), err
}

// OwnerCreator is implemented by gateways that can create on behalf of
// another user (admin console).
type OwnerCreator interface {
	CreateForOwner(ctx context.Context, ownerID string, fields domain.Fields, images []domain.ImageFile) (domain.PropertyRecord, error)
}

// CreateForOwner is Create on behalf of ownerID. It needs a gateway that
// implements OwnerCreator and an admin session on the server side.
func (c *Client) CreateForOwner(ctx context.Context, ownerID string, fields domain.Fields, images []domain.ImageFile) (domain.PropertyRecord, error) {
	oc, ok := c.gateway.(OwnerCreator)
	if !ok {
		return domain.PropertyRecord{}, fmt.Errorf("create for owner: gateway does not support it")
	}
	if ownerID == "" {
		return domain.PropertyRecord{}, &domain.ValidationError{Field: "createdBy", Message: "Owner is required"}
	}
	fields = fields.Trimmed()
	if err := fields.Validate(); err != nil {
		return domain.PropertyRecord{}, err
	}

	var created domain.PropertyRecord
	err := c.mutate(ctx, KindCreate, createSlot, func() (string, error) {
		var err error
		created, err = oc.CreateForOwner(ctx, ownerID, fields, images)
		return created.ID, err
	})
	if err != nil && created.ID == "" {
		return domain.PropertyRecord{}, err
	}
	return c.latest(created), err
}

// Edit updates a record. The image sequence sent is the retained URLs in
// the order given, followed by the new uploads. A nil retained slice keeps
// every image the server already holds.
func (c *Client) Edit(ctx context.Context, id string, fields domain.Fields, newImages []domain.ImageFile, retained []string) (domain.PropertyRecord, error) {
	if id == "" {
		return domain.PropertyRecord{}, &domain.ValidationError{Field: "id", Message: "Record id is required"}
	}
	fields = fields.Trimmed()
	if err := fields.Validate(); err != nil {
		return domain.PropertyRecord{}, err
	}
	if retained != nil {
		retained = uniqueURLs(retained)
	}

	var updated domain.PropertyRecord
	err := c.mutate(ctx, KindEdit, id, func() (string, error) {
		var err error
		updated, err = c.gateway.Update(ctx, id, fields, newImages, retained)
		if err == nil && updated.ID == "" {
			updated.ID = id
		}
		return id, err
	})
	if err != nil && updated.ID == "" {
		return domain.PropertyRecord{}, err
	}
	return c.latest(updated), err
}

// Remove deletes a record and refreshes the list. Callers confirm with the
// user before invoking it.
func (c *Client) Remove(ctx context.Context, id string) error {
	if id == "" {
		return &domain.ValidationError{Field: "id", Message: "Record id is required"}
	}
	return c.mutate(ctx, KindRemove, id, func() (string, error) {
		return id, c.gateway.Delete(ctx, id)
	})
}

// mutate runs one guarded change followed by a refresh. A refresh failure
// after a successful change is returned wrapped; the change itself stands.
func (c *Client) mutate(ctx context.Context, kind MutationKind, key string, send func() (string, error)) error {
	logger := logging.NewLogger(ctx).With("component", "listing", "kind", kind)

	if err := c.guard.acquire(key); err != nil {
		logger.LogWarn(string(kind), "mutation rejected while another is pending", "record_id", key)
		return err
	}
	c.notifier.Notify(ctx, Event{Kind: kind, RecordID: key, State: StateSubmitting})

	id, err := send()
	outcome := c.guard.settle(key, err)
	c.notifier.Notify(ctx, Event{Kind: kind, RecordID: id, State: outcome, Err: err})
	if err != nil {
		logger.LogError(string(kind), err, "record_id", id)
		return err
	}
	logger.LogInfo(string(kind), "mutation accepted", "record_id", id)

	if err := c.Refresh(ctx, c.Scope()); err != nil {
		return fmt.Errorf("refresh after %s: %w", kind, err)
	}
	return nil
}

// latest prefers the refreshed copy of r over the mutation response
func (c *Client) latest(r domain.PropertyRecord) domain.PropertyRecord {
	if fresh, ok := c.Get(r.ID); ok {
		return fresh
	}
	return r
}

func dedupe(records []domain.PropertyRecord) []domain.PropertyRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]domain.PropertyRecord, 0, len(records))
	for _, r := range records {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

func uniqueURLs(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, dup := seen[u]; dup || u == "" {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

func cloneRecord(r domain.PropertyRecord) domain.PropertyRecord {
	r.Images = append([]string(nil), r.Images...)
	if r.Owner.User != nil {
		u := *r.Owner.User
		r.Owner.User = &u
	}
	return r
}
