package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/rodaworks/academy/internal/errors"

	"github.com/rodaworks/academy/internal/core"
	"github.com/rodaworks/academy/internal/data/database"
	"github.com/rodaworks/academy/internal/data/pgxutil"
	"github.com/rodaworks/academy/internal/domain/model"
)

// OrderRepo provides database operations for shop orders.
type OrderRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewOrderRepo creates a new OrderRepo with real time provider.
func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewOrderRepoWithTimeProvider creates a new OrderRepo with a custom time provider (useful for tests).
func NewOrderRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *OrderRepo {
	return &OrderRepo{DB: db, timeProvider: tp}
}

const orderColumnsSQL = `id, user_id, product_id, quantity, amount_cents, status, provider_ref, created_at, updated_at`

const (
	orderGetByIDQuery = `
		SELECT ` + orderColumnsSQL + `
		FROM orders
		WHERE id = $1`

	orderGetByProviderRefQuery = `
		SELECT ` + orderColumnsSQL + `
		FROM orders
		WHERE provider_ref = $1`
)

// Create inserts a new order and reserves stock for it in a single
// transaction. The products.stock CHECK constraint rejects the reservation
// when not enough stock remains, which surfaces as a validation error.
func (r *OrderRepo) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if order == nil {
		return nil, errors.New("order is required")
	}
	if order.Quantity <= 0 {
		return nil, apperrors.Validation("quantity must be > 0")
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.Order
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Opts: nil,
		Fn: func(tx pgx.Tx) error {
			ct, err := tx.Exec(ctx,
				`UPDATE products SET stock = stock - $1, updated_at = now() WHERE id = $2 AND active`,
				order.Quantity, order.ProductID)
			if err != nil {
				return err
			}
			if ct.RowsAffected() == 0 {
				return pgx.ErrNoRows
			}

			rows, err := tx.Query(ctx, `
				INSERT INTO orders (
					user_id, product_id, quantity, amount_cents, status, provider_ref, created_at
				) VALUES (
					$1, $2, $3, $4, $5, $6, $7
				) RETURNING `+orderColumnsSQL,
				order.UserID,
				order.ProductID,
				order.Quantity,
				order.AmountCents,
				model.OrderStatusPending,
				order.ProviderRef,
				createdAt,
			)
			if err != nil {
				return err
			}
			defer rows.Close()
			out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Order])
			return err
		},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product not found or inactive")
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves an order by ID.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*model.Order, error) {
	return r.getByQuery(ctx, orderGetByIDQuery, "failed to get order by ID", id)
}

// GetByProviderRef retrieves an order by the payment provider's reference.
func (r *OrderRepo) GetByProviderRef(ctx context.Context, ref string) (*model.Order, error) {
	return r.getByQuery(ctx, orderGetByProviderRefQuery, "failed to get order by provider ref", ref)
}

// List retrieves orders with optional filters and sorting.
func (r *OrderRepo) List(ctx context.Context, opts model.OrdersListOptions) ([]*model.Order, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(orderColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}
	if opts.UserID != nil && strings.TrimSpace(*opts.UserID) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("user_id", database.Equal, strings.TrimSpace(*opts.UserID)),
		))
	}
	if opts.Status != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("status", database.Equal, string(*opts.Status)),
		))
	}

	sortCol, sortDir := validateSortOptions(opts.Sort, opts.Dir, map[string]string{
		"amount_cents": "amount_cents",
		"created_at":   "created_at",
	})
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	query, args := database.BuildListQuery(database.NewListQueryOptions("orders", queryOpts...))

	var rowsOut []model.Order
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Order])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", apperrors.MapDBError(err))
	}

	res := make([]*model.Order, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// SetStatus transitions an order's status and optionally records the payment
// provider's reference. A failed or refunded transition releases the stock
// reserved at creation.
func (r *OrderRepo) SetStatus(
	ctx context.Context,
	params core.SetOrderStatusParams,
) (*model.Order, error) {
	if !params.Status.Valid() {
		return nil, apperrors.Validation("invalid order status")
	}

	var out model.Order
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Opts: nil,
		Fn: func(tx pgx.Tx) error {
			rows, err := tx.Query(ctx, `
				UPDATE orders
				SET status = $1,
				    provider_ref = COALESCE($2, provider_ref),
				    updated_at = now()
				WHERE id = $3
				RETURNING `+orderColumnsSQL,
				params.Status, params.ProviderRef, params.OrderID)
			if err != nil {
				return err
			}
			out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Order])
			if err != nil {
				return err
			}

			if params.Status == model.OrderStatusFailed || params.Status == model.OrderStatusRefunded {
				if _, err = tx.Exec(ctx,
					`UPDATE products SET stock = stock + $1, updated_at = now() WHERE id = $2`,
					out.Quantity, out.ProductID); err != nil {
					return err
				}
			}
			return nil
		},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("order %s not found", params.OrderID)
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// RevenueCents sums the amount of all paid orders.
func (r *OrderRepo) RevenueCents(ctx context.Context) (int64, error) {
	var total int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT COALESCE(SUM(amount_cents), 0) FROM orders WHERE status = $1`,
			model.OrderStatusPaid).Scan(&total)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", apperrors.MapDBError(err))
	}
	return total, nil
}

// CountByStatus returns the number of orders in the given status.
func (r *OrderRepo) CountByStatus(ctx context.Context, status model.OrderStatus) (int, error) {
	var count int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT COUNT(*) FROM orders WHERE status = $1`, status).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", apperrors.MapDBError(err))
	}
	return count, nil
}

// --- helpers ---

func orderColumns() []string {
	return []string{
		"id",
		"user_id",
		"product_id",
		"quantity",
		"amount_cents",
		"status",
		"provider_ref",
		"created_at",
		"updated_at",
	}
}

// getByQuery executes a query and returns a single order.
func (r *OrderRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.Order, error) {
	var order model.Order
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		order, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Order])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order not found")
		}
		return nil, fmt.Errorf("%s: %w", errMsg, apperrors.MapDBError(err))
	}
	return &order, nil
}
