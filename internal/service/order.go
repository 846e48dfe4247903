package service

import (
	"context"

	"github.com/rodaworks/academy/internal/core"
	"github.com/rodaworks/academy/internal/domain/model"
	apperrors "github.com/rodaworks/academy/internal/errors"
)

// OrderServiceOptions groups dependencies for OrderService.
type OrderServiceOptions struct {
	Orders   core.OrderRepository
	Products core.ProductRepository
}

// OrderService places and tracks shop orders. Stock is reserved when the
// order is created and released if payment fails; the repository handles
// both inside the order transaction.
type OrderService struct {
	orders   core.OrderRepository
	products core.ProductRepository
}

// NewOrderService constructs a new OrderService.
func NewOrderService(opts OrderServiceOptions) *OrderService {
	return &OrderService{orders: opts.Orders, products: opts.Products}
}

// Place creates a pending order for the user. The amount is computed from
// the current product price; the client never supplies it.
func (s *OrderService) Place(ctx context.Context, userID string, req *model.CreateOrderRequest) (*model.Order, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Missing user")
	}
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	product, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, apperrors.Validation("product is not available")
	}

	order := &model.Order{
		UserID:      userID,
		ProductID:   product.ID,
		Quantity:    req.Quantity,
		AmountCents: product.PriceCents * int64(req.Quantity),
		Status:      model.OrderStatusPending,
	}
	return s.orders.Create(ctx, order)
}

// GetByID retrieves an order. When requesterID is non-empty the order must
// belong to that user; staff callers pass an empty requesterID.
func (s *OrderService) GetByID(ctx context.Context, id, requesterID string) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if requesterID != "" && order.UserID != requesterID {
		return nil, apperrors.NotFound("order not found")
	}
	return order, nil
}

// List returns a page of orders.
func (s *OrderService) List(ctx context.Context, opts model.OrdersListOptions) ([]*model.Order, error) {
	return s.orders.List(ctx, normalizeOrderListOptions(opts))
}

// SetStatus transitions an order through the payment lifecycle. Terminal
// failure states release the reserved stock.
func (s *OrderService) SetStatus(ctx context.Context, params core.SetOrderStatusParams) (*model.Order, error) {
	if !params.Status.Valid() {
		return nil, apperrors.ValidationField("status", "invalid order status")
	}
	return s.orders.SetStatus(ctx, params)
}

func normalizeOrderListOptions(opts model.OrdersListOptions) model.OrdersListOptions {
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
	return opts
}
