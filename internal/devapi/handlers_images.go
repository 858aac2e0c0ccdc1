package devapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/OwesNiyazi/propertyFront/internal/listing/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const imageField = "image"

// recordInput is the field set accepted by upload and update. Nil means
// the field was not sent.
type recordInput struct {
	Title        *string       `json:"title"`
	Description  *string       `json:"description"`
	Price        *domain.Price `json:"price"`
	Type         *string       `json:"type"`
	PropertyType *string       `json:"propertyType"`
	Location     *string       `json:"location"`
	Retained     *[]string     `json:"retainedImageUrls"`
	CreatedBy    *string       `json:"createdBy"`
}

func (in recordInput) apply(r *domain.PropertyRecord) {
	if in.Title != nil {
		r.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		r.Description = *in.Description
	}
	if in.Price != nil {
		r.Price = *in.Price
	}
	if in.Type != nil {
		r.Category = domain.ParseCategory(*in.Type)
	}
	if in.PropertyType != nil {
		r.ListingKind = domain.ParseListingKind(*in.PropertyType)
	}
	if in.Location != nil {
		r.Location = *in.Location
	}
}

func (s *Server) listOwn(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.listRecords(c.GetString(ctxUserID)))
}

func (s *Server) listAll(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.listRecords(""))
}

func (s *Server) upload(c *gin.Context) {
	s.create(c, c.GetString(ctxUserID))
}

func (s *Server) adminUpload(c *gin.Context) {
	owner := strings.TrimSpace(c.PostForm("createdBy"))
	if owner == "" {
		abortMessage(c, http.StatusBadRequest, "createdBy is required")
		return
	}
	if _, ok := s.store.user(owner); !ok {
		abortMessage(c, http.StatusBadRequest, "createdBy does not match any user")
		return
	}
	s.create(c, owner)
}

func (s *Server) create(c *gin.Context, owner string) {
	in, files, err := parseMultipart(c)
	if err != nil {
		abortMessage(c, http.StatusBadRequest, err.Error())
		return
	}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		abortMessage(c, http.StatusBadRequest, "Title is required")
		return
	}
	if in.PropertyType == nil || !domain.ParseListingKind(*in.PropertyType).Valid() {
		abortMessage(c, http.StatusBadRequest, "Property type must be Rent or Sale")
		return
	}
	if len(files) == 0 {
		abortMessage(c, http.StatusBadRequest, "At least one image is required")
		return
	}

	urls, err := s.saveFiles(c, files)
	if err != nil {
		abortMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	record := domain.PropertyRecord{Owner: domain.OwnerRef{ID: owner}, Images: urls}
	in.apply(&record)
	c.JSON(http.StatusCreated, s.store.insertRecord(record))
}

func (s *Server) updateRecord(c *gin.Context) {
	id := c.Param("id")
	existing, ok := s.store.record(id)
	if !ok {
		abortMessage(c, http.StatusNotFound, errRecordNotFound.Error())
		return
	}
	if !s.canModify(c, existing) {
		abortMessage(c, http.StatusForbidden, "Not authorized to modify this property")
		return
	}

	var (
		in    recordInput
		files []*multipart.FileHeader
		err   error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		in, files, err = parseMultipart(c)
	} else {
		err = c.ShouldBindJSON(&in)
	}
	if err != nil {
		abortMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		abortMessage(c, http.StatusBadRequest, "Title cannot be empty")
		return
	}
	if in.PropertyType != nil && !domain.ParseListingKind(*in.PropertyType).Valid() {
		abortMessage(c, http.StatusBadRequest, "Property type must be Rent or Sale")
		return
	}

	added, err := s.saveFiles(c, files)
	if err != nil {
		abortMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.store.replaceRecord(id, func(r *domain.PropertyRecord) {
		in.apply(r)
		if in.Retained != nil {
			r.Images = keepKnown(r.Images, *in.Retained)
		}
		r.Images = append(r.Images, added...)
	})
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteRecord(c *gin.Context) {
	existing, ok := s.store.record(c.Param("id"))
	if !ok {
		abortMessage(c, http.StatusNotFound, errRecordNotFound.Error())
		return
	}
	if !s.canModify(c, existing) {
		abortMessage(c, http.StatusForbidden, "Not authorized to delete this property")
		return
	}
	if err := s.store.deleteRecord(existing.ID); err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}

func (s *Server) serveUpload(c *gin.Context) {
	b, ok := s.store.blob(c.Param("name"))
	if !ok {
		abortMessage(c, http.StatusNotFound, "File not found")
		return
	}
	c.Data(http.StatusOK, b.contentType, b.data)
}

func (s *Server) canModify(c *gin.Context, r domain.PropertyRecord) bool {
	return c.GetBool(ctxIsAdmin) || r.Owner.ID == c.GetString(ctxUserID)
}

// saveFiles stores uploads and returns their public URLs in upload order
func (s *Server) saveFiles(c *gin.Context, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		data, err := readFile(fh)
		if err != nil {
			return nil, err
		}
		ct := http.DetectContentType(data)
		if !strings.HasPrefix(ct, "image/") {
			return nil, fmt.Errorf("%s is not an image", fh.Filename)
		}
		name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
		s.store.putBlob(name, blob{contentType: ct, data: data})
		urls = append(urls, publicBase(c)+"/uploads/"+name)
	}
	return urls, nil
}

// keepKnown returns the retained URLs, in the caller's order, that the
// record actually holds.
func keepKnown(current, retained []string) []string {
	held := make(map[string]bool, len(current))
	for _, u := range current {
		held[u] = true
	}
	out := make([]string, 0, len(retained))
	for _, u := range retained {
		if held[u] {
			out = append(out, u)
			held[u] = false
		}
	}
	return out
}

func parseMultipart(c *gin.Context) (recordInput, []*multipart.FileHeader, error) {
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		return recordInput{}, nil, errors.New("Invalid multipart body")
	}
	form := c.Request.MultipartForm

	value := func(name string) *string {
		if vs, ok := form.Value[name]; ok && len(vs) > 0 {
			v := vs[0]
			return &v
		}
		return nil
	}

	in := recordInput{
		Title:        value("title"),
		Description:  value("description"),
		Type:         value("type"),
		PropertyType: value("propertyType"),
		Location:     value("location"),
		CreatedBy:    value("createdBy"),
	}
	if p := value("price"); p != nil {
		price := domain.ParsePrice(*p)
		in.Price = &price
	}
	if raw := value("retainedImageUrls"); raw != nil {
		var urls []string
		if err := json.Unmarshal([]byte(*raw), &urls); err != nil {
			return recordInput{}, nil, errors.New("retainedImageUrls must be a JSON array")
		}
		if urls == nil {
			urls = []string{}
		}
		in.Retained = &urls
	}
	return in, form.File[imageField], nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("could not read %s", fh.Filename)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func publicBase(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
