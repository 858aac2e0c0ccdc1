package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/OwesNiyazi/propertyFront/internal/listing/domain"
)

// ErrDraftClosed is returned by a draft that was saved or cancelled
var ErrDraftClosed = errors.New("edit draft is closed")

// EditDraft stages changes to one record's fields and images. Nothing is
// sent until Save; Cancel throws every staged change away.
type EditDraft struct {
	client   *Client
	original domain.PropertyRecord

	Fields domain.Fields

	retained []string
	added    []domain.ImageFile
	closed   bool
}

// BeginEdit opens a draft over a record in the held list
func (c *Client) BeginEdit(id string) (*EditDraft, error) {
	r, ok := c.Get(id)
	if !ok {
		return nil, fmt.Errorf("begin edit %s: %w", id, domain.ErrNotFound)
	}
	return &EditDraft{
		client:   c,
		original: r,
		Fields:   domain.FieldsOf(r),
		retained: append([]string{}, r.Images...),
	}, nil
}

func (d *EditDraft) ID() string { return d.original.ID }

// Original returns the record as it was when the draft was opened
func (d *EditDraft) Original() domain.PropertyRecord { return d.original }

// Retained returns the existing image URLs that will be kept, in order
func (d *EditDraft) Retained() []string { return append([]string{}, d.retained...) }

// Added returns the new files staged for upload, in order
func (d *EditDraft) Added() []domain.ImageFile { return append([]domain.ImageFile{}, d.added...) }

// Images previews the final sequence: kept URLs first, then new file names
func (d *EditDraft) Images() []string {
	out := d.Retained()
	for _, f := range d.added {
		out = append(out, f.Name)
	}
	return out
}

// Remove drops an existing image from the kept set
func (d *EditDraft) Remove(url string) error {
	if d.closed {
		return ErrDraftClosed
	}
	i := indexOf(d.retained, url)
	if i < 0 {
		return fmt.Errorf("image %q is not on this record", url)
	}
	d.retained = append(d.retained[:i], d.retained[i+1:]...)
	return nil
}

// Keep restores a previously removed image, appending it to the kept set
func (d *EditDraft) Keep(url string) error {
	if d.closed {
		return ErrDraftClosed
	}
	if indexOf(d.original.Images, url) < 0 {
		return fmt.Errorf("image %q is not on this record", url)
	}
	if indexOf(d.retained, url) >= 0 {
		return nil
	}
	d.retained = append(d.retained, url)
	return nil
}

// Move repositions a kept image. The index is clamped to the valid range.
func (d *EditDraft) Move(url string, to int) error {
	if d.closed {
		return ErrDraftClosed
	}
	from := indexOf(d.retained, url)
	if from < 0 {
		return fmt.Errorf("image %q is not kept", url)
	}
	if to < 0 {
		to = 0
	}
	if to >= len(d.retained) {
		to = len(d.retained) - 1
	}
	d.retained = append(d.retained[:from], d.retained[from+1:]...)
	d.retained = append(d.retained[:to], append([]string{url}, d.retained[to:]...)...)
	return nil
}

// Attach stages a new file. Content that does not look like an image is refused.
func (d *EditDraft) Attach(f domain.ImageFile) error {
	if d.closed {
		return ErrDraftClosed
	}
	if len(f.Content) == 0 || !f.IsImage() {
		return &domain.ValidationError{Field: "image", Message: fmt.Sprintf("%s is not an image", f.Name)}
	}
	d.added = append(d.added, f)
	return nil
}

// Detach unstages the new file at index i
func (d *EditDraft) Detach(i int) error {
	if d.closed {
		return ErrDraftClosed
	}
	if i < 0 || i >= len(d.added) {
		return fmt.Errorf("no staged image at %d", i)
	}
	d.added = append(d.added[:i], d.added[i+1:]...)
	return nil
}

// Cancel discards all staged changes without contacting the server
func (d *EditDraft) Cancel() {
	d.closed = true
	d.retained = nil
	d.added = nil
}

// Save submits the draft. On failure the draft stays open so the caller
// can retry or cancel.
func (d *EditDraft) Save(ctx context.Context) (domain.PropertyRecord, error) {
	if d.closed {
		return domain.PropertyRecord{}, ErrDraftClosed
	}
	record, err := d.client.Edit(ctx, d.original.ID, d.Fields, d.Added(), d.Retained())
	if err != nil && record.ID == "" {
		return domain.PropertyRecord{}, err
	}
	d.closed = true
	return record, err
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
