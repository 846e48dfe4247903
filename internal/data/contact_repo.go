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

// ContactRepo provides database operations for contact form submissions.
type ContactRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewContactRepo creates a new ContactRepo with real time provider.
func NewContactRepo(db *sql.DB) *ContactRepo {
	return &ContactRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewContactRepoWithTimeProvider creates a new ContactRepo with a custom time provider (useful for tests).
func NewContactRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ContactRepo {
	return &ContactRepo{DB: db, timeProvider: tp}
}

const contactColumnsSQL = `id, name, email, subject, body, read, created_at`

const contactGetByIDQuery = `
	SELECT ` + contactColumnsSQL + `
	FROM contact_messages
	WHERE id = $1`

// Create inserts a contact form submission.
func (r *ContactRepo) Create(
	ctx context.Context,
	req *model.CreateContactMessageRequest,
) (*model.ContactMessage, error) {
	if req == nil {
		return nil, errors.New("create contact message request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.ContactMessage
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO contact_messages (
				name, email, subject, body, read, created_at
			) VALUES (
				$1, $2, $3, $4, FALSE, $5
			) RETURNING `+contactColumnsSQL,
			strings.TrimSpace(req.Name),
			model.NormalizeEmail(req.Email),
			strings.TrimSpace(req.Subject),
			req.Body,
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ContactMessage])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a contact message by ID.
func (r *ContactRepo) GetByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	var msg model.ContactMessage
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, contactGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		msg, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ContactMessage])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("contact message not found")
		}
		return nil, fmt.Errorf("failed to get contact message by ID: %w", apperrors.MapDBError(err))
	}
	return &msg, nil
}

// List retrieves contact messages with optional filters.
func (r *ContactRepo) List(
	ctx context.Context,
	opts model.ContactListOptions,
) ([]*model.ContactMessage, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(contactColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}
	if opts.Unread != nil && *opts.Unread {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("read", database.Equal, false),
		))
	}

	sortCol, sortDir := validateSortOptions(opts.Sort, opts.Dir, map[string]string{
		"created_at": "created_at",
	})
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	query, args := database.BuildListQuery(
		database.NewListQueryOptions("contact_messages", queryOpts...),
	)

	var rowsOut []model.ContactMessage
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.ContactMessage])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", apperrors.MapDBError(err))
	}

	res := make([]*model.ContactMessage, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// MarkRead sets the read flag on a contact message.
func (r *ContactRepo) MarkRead(
	ctx context.Context,
	id string,
	read bool,
) (*model.ContactMessage, error) {
	var out model.ContactMessage
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE contact_messages
			SET read = $1
			WHERE id = $2
			RETURNING `+contactColumnsSQL,
			read, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ContactMessage])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("contact message %s not found", id)
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Delete deletes a contact message by ID.
func (r *ContactRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete contact message: %w", apperrors.MapDBError(err))
	}
	return rows > 0, nil
}

// CountUnread returns the number of unread contact messages.
func (r *ContactRepo) CountUnread(ctx context.Context) (int, error) {
	var count int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT COUNT(*) FROM contact_messages WHERE NOT read`).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread contact messages: %w", apperrors.MapDBError(err))
	}
	return count, nil
}

func contactColumns() []string {
	return []string{
		"id",
		"name",
		"email",
		"subject",
		"body",
		"read",
		"created_at",
	}
}
