package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/OwesNiyazi/propertyFront/internal/listing/domain"
)

const imageField = "image"

// propertyForm builds the multipart body used by upload and image-bearing updates
type propertyForm struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

func newPropertyForm() *propertyForm {
	f := &propertyForm{}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

func (f *propertyForm) field(name, value string) {
	if f.err != nil {
		return
	}
	f.err = f.w.WriteField(name, value)
}

func (f *propertyForm) fields(fields domain.Fields) {
	f.field("title", fields.Title)
	if fields.Description != nil {
		f.field("description", *fields.Description)
	}
	if fields.Price != nil {
		f.field("price", fields.Price.String())
	}
	if fields.Category != nil {
		f.field("type", string(*fields.Category))
	}
	if fields.ListingKind != nil {
		f.field("propertyType", string(*fields.ListingKind))
	}
	if fields.Location != nil {
		f.field("location", *fields.Location)
	}
}

// retained sends the kept image URLs as one JSON array so an empty list is expressible.
func (f *propertyForm) retained(urls []string) {
	if urls == nil || f.err != nil {
		return
	}
	raw, err := json.Marshal(urls)
	if err != nil {
		f.err = err
		return
	}
	f.field("retainedImageUrls", string(raw))
}

func (f *propertyForm) images(images []domain.ImageFile) {
	for i, img := range images {
		if f.err != nil {
			return
		}
		name := filepath.Base(img.Name)
		if name == "." || name == string(filepath.Separator) || name == "" {
			name = fmt.Sprintf("image-%d", i+1)
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, imageField, escapeQuotes(name)))
		h.Set("Content-Type", img.DetectedType())

		part, err := f.w.CreatePart(h)
		if err != nil {
			f.err = err
			return
		}
		if _, err := part.Write(img.Content); err != nil {
			f.err = err
			return
		}
	}
}

// finish closes the writer and returns the body and its content type
func (f *propertyForm) finish() (*bytes.Buffer, string, error) {
	if f.err != nil {
		return nil, "", fmt.Errorf("build multipart body: %w", f.err)
	}
	if err := f.w.Close(); err != nil {
		return nil, "", fmt.Errorf("build multipart body: %w", err)
	}
	return &f.buf, f.w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
