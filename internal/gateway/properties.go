package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/OwesNiyazi/propertyFront/internal/listing/domain"
)

// ListOwn returns the records created by the caller
func (c *Client) ListOwn(ctx context.Context) ([]domain.PropertyRecord, error) {
	var records []domain.PropertyRecord
	if err := c.do(ctx, call{op: "list own", method: http.MethodGet, path: "/images"}, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListAll returns every record. The server rejects callers without admin rights.
func (c *Client) ListAll(ctx context.Context) ([]domain.PropertyRecord, error) {
	var records []domain.PropertyRecord
	if err := c.do(ctx, call{op: "list all", method: http.MethodGet, path: "/images/all"}, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Create uploads a new record with its images
func (c *Client) Create(ctx context.Context, fields domain.Fields, images []domain.ImageFile) (domain.PropertyRecord, error) {
	return c.upload(ctx, "create", "/images/upload", "", fields, images)
}

// CreateForOwner uploads a record on behalf of another user (admin console)
func (c *Client) CreateForOwner(ctx context.Context, ownerID string, fields domain.Fields, images []domain.ImageFile) (domain.PropertyRecord, error) {
	return c.upload(ctx, "create for owner", "/images/admin/upload", ownerID, fields, images)
}

func (c *Client) upload(ctx context.Context, op, path, ownerID string, fields domain.Fields, images []domain.ImageFile) (domain.PropertyRecord, error) {
	form := newPropertyForm()
	form.fields(fields)
	if ownerID != "" {
		form.field("createdBy", ownerID)
	}
	form.images(images)
	body, contentType, err := form.finish()
	if err != nil {
		return domain.PropertyRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	var raw json.RawMessage
	err = c.do(ctx, call{op: op, method: http.MethodPost, path: path, body: body, contentType: contentType, upload: true}, &raw)
	if err != nil {
		return domain.PropertyRecord{}, err
	}
	return decodeRecord(op, raw)
}

// Update changes a record. When images carries new files the body is
// multipart, otherwise JSON. A nil retained slice leaves the stored images
// alone; a non-nil one (even empty) is the exact set of URLs to keep.
func (c *Client) Update(ctx context.Context, id string, fields domain.Fields, images []domain.ImageFile, retained []string) (domain.PropertyRecord, error) {
	const op = "update"
	cl := call{op: op, method: http.MethodPut, path: "/images/" + url.PathEscape(id)}

	if len(images) > 0 {
		form := newPropertyForm()
		form.fields(fields)
		form.retained(retained)
		form.images(images)
		body, contentType, err := form.finish()
		if err != nil {
			return domain.PropertyRecord{}, fmt.Errorf("%s: %w", op, err)
		}
		cl.body, cl.contentType, cl.upload = body, contentType, true
	} else {
		payload := updatePayload{
			Title:        fields.Title,
			Description:  fields.Description,
			Price:        fields.Price,
			Type:         fields.Category,
			PropertyType: fields.ListingKind,
			Location:     fields.Location,
		}
		if retained != nil {
			payload.RetainedImageURLs = &retained
		}
		body, err := jsonBody(payload)
		if err != nil {
			return domain.PropertyRecord{}, fmt.Errorf("%s: %w", op, err)
		}
		cl.body, cl.contentType = body, "application/json"
	}

	var raw json.RawMessage
	if err := c.do(ctx, cl, &raw); err != nil {
		return domain.PropertyRecord{}, err
	}
	return decodeRecord(op, raw)
}

// Delete removes a record
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, call{op: "delete", method: http.MethodDelete, path: "/images/" + url.PathEscape(id)}, nil)
}

type updatePayload struct {
	Title             string              `json:"title"`
	Description       *string             `json:"description,omitempty"`
	Price             *domain.Price       `json:"price,omitempty"`
	Type              *domain.Category    `json:"type,omitempty"`
	PropertyType      *domain.ListingKind `json:"propertyType,omitempty"`
	Location          *string             `json:"location,omitempty"`
	RetainedImageURLs *[]string           `json:"retainedImageUrls,omitempty"`
}

// decodeRecord accepts a bare record or one wrapped as {"image": {...}}.
func decodeRecord(op string, raw json.RawMessage) (domain.PropertyRecord, error) {
	if len(raw) == 0 {
		return domain.PropertyRecord{}, nil
	}
	var record domain.PropertyRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return domain.PropertyRecord{}, fmt.Errorf("%s: decode response: %w", op, err)
	}
	if record.ID != "" {
		return record, nil
	}

	var envelope struct {
		Image *domain.PropertyRecord `json:"image"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Image != nil {
		return *envelope.Image, nil
	}
	return record, nil
}
