package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/rodaworks/academy/internal/errors"

	"github.com/rodaworks/academy/internal/data/database"
	"github.com/rodaworks/academy/internal/data/pgxutil"
	"github.com/rodaworks/academy/internal/domain/model"
)

// GalleryRepo provides database operations for gallery image metadata.
// Image binaries live in object storage; only metadata is stored here.
type GalleryRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewGalleryRepo creates a new GalleryRepo with real time provider.
func NewGalleryRepo(db *sql.DB) *GalleryRepo {
	return &GalleryRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewGalleryRepoWithTimeProvider creates a new GalleryRepo with a custom time provider (useful for tests).
func NewGalleryRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *GalleryRepo {
	return &GalleryRepo{DB: db, timeProvider: tp}
}

const galleryColumnsSQL = `id, title, caption, object_key, content_type, size_bytes, uploaded_by, created_at`

const galleryGetByIDQuery = `
	SELECT ` + galleryColumnsSQL + `
	FROM gallery_images
	WHERE id = $1`

// Create records metadata for an uploaded image.
func (r *GalleryRepo) Create(
	ctx context.Context,
	req *model.CreateGalleryImageRequest,
) (*model.GalleryImage, error) {
	if req == nil {
		return nil, errors.New("create gallery image request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.GalleryImage
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO gallery_images (
				title, caption, object_key, content_type, size_bytes, uploaded_by, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7
			) RETURNING `+galleryColumnsSQL,
			strings.TrimSpace(req.Title),
			req.Caption,
			strings.TrimSpace(req.ObjectKey),
			strings.ToLower(strings.TrimSpace(req.ContentType)),
			req.SizeBytes,
			req.UploadedBy,
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.GalleryImage])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves gallery image metadata by ID.
func (r *GalleryRepo) GetByID(ctx context.Context, id string) (*model.GalleryImage, error) {
	var image model.GalleryImage
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, galleryGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		image, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.GalleryImage])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("gallery image not found")
		}
		return nil, fmt.Errorf("failed to get gallery image by ID: %w", apperrors.MapDBError(err))
	}
	return &image, nil
}

// List retrieves gallery image metadata with paging.
func (r *GalleryRepo) List(
	ctx context.Context,
	opts model.GalleryListOptions,
) ([]*model.GalleryImage, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	sortCol, sortDir := validateSortOptions(opts.Sort, opts.Dir, map[string]string{
		"title":      "title",
		"created_at": "created_at",
	})

	query, args := database.BuildListQuery(database.NewListQueryOptions("gallery_images",
		database.WithColumns(galleryColumns()...),
		database.WithOrderBy(sortCol, sortDir),
		database.WithLimit(limit),
		database.WithOffset(offset),
	))

	var rowsOut []model.GalleryImage
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.GalleryImage])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list gallery images: %w", apperrors.MapDBError(err))
	}

	res := make([]*model.GalleryImage, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Delete deletes gallery image metadata by ID.
func (r *GalleryRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM gallery_images WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete gallery image: %w", apperrors.MapDBError(err))
	}
	return rows > 0, nil
}

// Count returns the total number of gallery images.
func (r *GalleryRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `SELECT COUNT(*) FROM gallery_images`).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count gallery images: %w", apperrors.MapDBError(err))
	}
	return count, nil
}

func galleryColumns() []string {
	return []string{
		"id",
		"title",
		"caption",
		"object_key",
		"content_type",
		"size_bytes",
		"uploaded_by",
		"created_at",
	}
}
