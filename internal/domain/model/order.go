package model

import (
	"errors"
	"strings"
	"time"
)

// OrderStatus tracks an order through the payment lifecycle.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusPaid     OrderStatus = "paid"
	OrderStatusFailed   OrderStatus = "failed"
	OrderStatusRefunded OrderStatus = "refunded"
)

// Valid reports whether the order status is supported.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusFailed, OrderStatusRefunded:
		return true
	default:
		return false
	}
}

// ParseOrderStatus normalizes an order status string and reports whether it is supported.
func ParseOrderStatus(value string) (OrderStatus, bool) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(value)))
	if status.Valid() {
		return status, true
	}
	return "", false
}

// Order represents a shop purchase. Payment capture happens at an external
// provider; we record the provider's reference and settle status from its
// webhook events.
type Order struct {
	ID          string      `json:"id"                     db:"id"`
	UserID      string      `json:"user_id"                db:"user_id"`
	ProductID   string      `json:"product_id"             db:"product_id"`
	Quantity    int         `json:"quantity"               db:"quantity"`
	AmountCents int64       `json:"amount_cents"           db:"amount_cents"`
	Status      OrderStatus `json:"status"                 db:"status"`
	ProviderRef *string     `json:"provider_ref,omitempty" db:"provider_ref"`
	CreatedAt   time.Time   `json:"created_at"             db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"             db:"updated_at"`
}

// CreateOrderRequest represents parameters to create an Order.
// AmountCents is computed by the service from the product price.
type CreateOrderRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OrdersListOptions controls paging and filtering for listing orders.
type OrdersListOptions struct {
	Limit  int
	Offset int
	UserID *string      // exact match
	Status *OrderStatus // exact match
	Sort   string       // allowed: "created_at", "amount_cents"
	Dir    string
}

// PaymentEvent is the normalized form of a payment provider webhook payload.
// Provider payloads differ in shape; the payments service maps raw JSON into
// this struct via configured JMESPath expressions.
type PaymentEvent struct {
	ProviderRef string // provider's identifier for the charge/session
	OrderID     string // our order ID, carried in provider metadata
	Status      OrderStatus
	AmountCents int64
	ReceivedAt  time.Time
}

// Validate validates CreateOrderRequest.
func (r *CreateOrderRequest) Validate() error {
	if strings.TrimSpace(r.ProductID) == "" {
		return errors.New("product_id is required")
	}
	if r.Quantity <= 0 {
		return errors.New("quantity must be > 0")
	}
	return nil
}
