package httpx

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/rodaworks/academy/internal/domain/model"
	"github.com/rodaworks/academy/internal/service"
)

// GalleryHandlers provides HTTP handlers for the photo gallery. Listing and
// serving images is public; uploads and deletes are staff-only.
type GalleryHandlers struct {
	Svc    *service.GalleryService
	Logger *slog.Logger
}

const (
	maxGalleryListLimit = 200
	// maxUploadBytes bounds the whole multipart request; the service applies
	// its own per-image limit on top.
	maxUploadBytes = 12 << 20
)

func (h *GalleryHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Upload handles multipart image uploads.
// POST /api/gallery with fields title, caption (optional) and file part "image".
func (h *GalleryHandlers) Upload(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		writeAuthRequired(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_multipart", Err: err})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_image",
			Err:     errors.New("multipart field \"image\" is required"),
		})
		return
	}
	defer func() { _ = file.Close() }()

	var caption *string
	if c := strings.TrimSpace(r.FormValue("caption")); c != "" {
		caption = &c
	}

	image, err := h.Svc.Upload(r.Context(), service.UploadInput{
		Title:       r.FormValue("title"),
		Caption:     caption,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		SizeBytes:   header.Size,
		Body:        file,
		UploadedBy:  session.UserID,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, image)
}

// List handles the public gallery listing.
func (h *GalleryHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxGalleryListLimit)
	sort, dir := parseSortDir(r)

	images, err := h.Svc.List(r.Context(), model.GalleryListOptions{
		Limit:  limit,
		Offset: offset,
		Sort:   sort,
		Dir:    dir,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"images": images,
		"limit":  limit,
		"offset": offset,
	})
}

// GetByID handles HTTP requests for image metadata.
func (h *GalleryHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("image id is required")})
		return
	}

	image, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, image)
}

// Serve streams the image binary.
// GET /api/gallery/{id}/image.
func (h *GalleryHandlers) Serve(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("image id is required")})
		return
	}

	image, body, err := h.Svc.Open(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	defer func() { _ = body.Close() }()

	w.Header().Set("Content-Type", image.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(image.SizeBytes, 10))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger().DebugContext(r.Context(), "image stream interrupted", "id", id, "error", err)
	}
}

// Delete removes an image and its stored object.
func (h *GalleryHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("image id is required")})
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New("image not found")})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
