package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxGalleryTitleLen = 200

// GalleryImage represents a photo shown on the public gallery page.
// Metadata lives in Postgres; the binary object lives in S3-compatible
// storage under ObjectKey.
type GalleryImage struct {
	ID          string    `json:"id"           db:"id"`
	Title       string    `json:"title"        db:"title"`
	Caption     *string   `json:"caption,omitempty" db:"caption"`
	ObjectKey   string    `json:"object_key"   db:"object_key"`
	ContentType string    `json:"content_type" db:"content_type"`
	SizeBytes   int64     `json:"size_bytes"   db:"size_bytes"`
	UploadedBy  string    `json:"uploaded_by"  db:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"`
}

// CreateGalleryImageRequest represents parameters to record an uploaded image.
type CreateGalleryImageRequest struct {
	Title       string  `json:"title"`
	Caption     *string `json:"caption,omitempty"`
	ObjectKey   string  `json:"object_key"`
	ContentType string  `json:"content_type"`
	SizeBytes   int64   `json:"size_bytes"`
	UploadedBy  string  `json:"uploaded_by"`
}

// GalleryListOptions controls paging for listing gallery images.
type GalleryListOptions struct {
	Limit  int
	Offset int
	Sort   string // allowed: "created_at", "title"
	Dir    string
}

// allowedImageContentTypes is the closed set of image types the gallery accepts.
var allowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// AllowedImageContentType reports whether the content type may be uploaded.
func AllowedImageContentType(ct string) bool {
	return allowedImageContentTypes[strings.ToLower(strings.TrimSpace(ct))]
}

// Validate validates CreateGalleryImageRequest.
func (r *CreateGalleryImageRequest) Validate() error {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return errors.New("title is required and cannot be empty")
	}
	if utf8.RuneCountInString(title) > maxGalleryTitleLen {
		return errors.New("title cannot exceed 200 characters")
	}
	if strings.TrimSpace(r.ObjectKey) == "" {
		return errors.New("object_key is required")
	}
	if !AllowedImageContentType(r.ContentType) {
		return errors.New("unsupported content type")
	}
	if r.SizeBytes <= 0 {
		return errors.New("size_bytes must be > 0")
	}
	if strings.TrimSpace(r.UploadedBy) == "" {
		return errors.New("uploaded_by is required")
	}
	return nil
}
