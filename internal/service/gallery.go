package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/rodaworks/academy/internal/core"
	"github.com/rodaworks/academy/internal/domain/model"
	apperrors "github.com/rodaworks/academy/internal/errors"
	"github.com/rodaworks/academy/internal/ports"
)

// maxGalleryImageBytes caps uploads at 10 MiB.
const maxGalleryImageBytes = 10 << 20

// GalleryServiceOptions groups dependencies for GalleryService.
type GalleryServiceOptions struct {
	Images  core.GalleryRepository
	Objects ports.ObjectStore
	Logger  *slog.Logger
}

// GalleryService manages gallery photos: metadata in Postgres, binaries in
// object storage.
type GalleryService struct {
	images  core.GalleryRepository
	objects ports.ObjectStore
	logger  *slog.Logger
}

// NewGalleryService constructs a new GalleryService.
func NewGalleryService(opts GalleryServiceOptions) *GalleryService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &GalleryService{
		images:  opts.Images,
		objects: opts.Objects,
		logger:  logger.With("component", "gallery"),
	}
}

// UploadInput groups parameters for uploading a gallery image.
type UploadInput struct {
	Title       string
	Caption     *string
	Filename    string
	ContentType string
	SizeBytes   int64
	Body        io.Reader
	UploadedBy  string
}

// Upload stores the binary object first, then records metadata. When the
// metadata insert fails the stored object is removed so the bucket does not
// accumulate orphans.
func (s *GalleryService) Upload(ctx context.Context, in UploadInput) (*model.GalleryImage, error) {
	if in.SizeBytes > maxGalleryImageBytes {
		return nil, apperrors.ValidationField("size_bytes", "image exceeds the 10MB limit")
	}
	key := objectKeyFor(in.Filename)
	req := &model.CreateGalleryImageRequest{
		Title:       in.Title,
		Caption:     in.Caption,
		ObjectKey:   key,
		ContentType: in.ContentType,
		SizeBytes:   in.SizeBytes,
		UploadedBy:  in.UploadedBy,
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	if err := s.objects.Put(ctx, ports.PutObjectInput{
		Key:         key,
		ContentType: req.ContentType,
		Size:        in.SizeBytes,
		Body:        in.Body,
	}); err != nil {
		return nil, fmt.Errorf("store image object: %w", err)
	}

	image, err := s.images.Create(ctx, req)
	if err != nil {
		if cleanupErr := s.objects.Delete(ctx, key); cleanupErr != nil {
			s.logger.ErrorContext(ctx, "orphaned gallery object", "key", key, "error", cleanupErr)
		}
		return nil, err
	}
	return image, nil
}

// GetByID retrieves image metadata.
func (s *GalleryService) GetByID(ctx context.Context, id string) (*model.GalleryImage, error) {
	return s.images.GetByID(ctx, id)
}

// Open returns the image metadata and a reader over its binary content.
// The caller closes the reader.
func (s *GalleryService) Open(ctx context.Context, id string) (*model.GalleryImage, io.ReadCloser, error) {
	image, err := s.images.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	body, err := s.objects.Get(ctx, image.ObjectKey)
	if err != nil {
		return nil, nil, fmt.Errorf("open image object: %w", err)
	}
	return image, body, nil
}

// List returns a page of gallery images.
func (s *GalleryService) List(ctx context.Context, opts model.GalleryListOptions) ([]*model.GalleryImage, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.Sort == "" {
		opts.Sort = "created_at"
	}
	if opts.Dir == "" {
		opts.Dir = "desc"
	}
	return s.images.List(ctx, opts)
}

// Delete removes the metadata row and then the object. A missing object is
// not an error; the row is authoritative.
func (s *GalleryService) Delete(ctx context.Context, id string) (bool, error) {
	image, err := s.images.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	ok, err := s.images.Delete(ctx, id)
	if err != nil || !ok {
		return ok, err
	}
	if err := s.objects.Delete(ctx, image.ObjectKey); err != nil {
		s.logger.ErrorContext(ctx, "delete gallery object", "key", image.ObjectKey, "error", err)
	}
	return true, nil
}

// objectKeyFor builds a collision-free object key preserving the original
// file extension.
func objectKeyFor(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return "gallery/" + uuid.NewString() + ext
}
