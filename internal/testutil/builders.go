package testutil

import (
	"fmt"
	"time"

	domainauth "github.com/rodaworks/academy/internal/domain/auth"
	"github.com/rodaworks/academy/internal/domain/model"
)

// UserRequestBuilder provides a fluent interface for building CreateUserRequest objects for testing.
type UserRequestBuilder struct {
	req *model.CreateUserRequest
}

// NewUserRequest creates a new UserRequestBuilder with sensible defaults.
// Email is unique per call so builders can be used without collisions.
func NewUserRequest() *UserRequestBuilder {
	return &UserRequestBuilder{
		req: &model.CreateUserRequest{
			Name:     "Test Member",
			Email:    fmt.Sprintf("member-%d@example.com", time.Now().UnixNano()),
			Role:     domainauth.RoleStudent,
			Password: "correct-horse-battery",
		},
	}
}

// WithName sets the user's display name.
func (b *UserRequestBuilder) WithName(name string) *UserRequestBuilder {
	b.req.Name = name
	return b
}

// WithEmail sets the user's email address.
func (b *UserRequestBuilder) WithEmail(email string) *UserRequestBuilder {
	b.req.Email = email
	return b
}

// WithRole sets the user's role.
func (b *UserRequestBuilder) WithRole(role domainauth.Role) *UserRequestBuilder {
	b.req.Role = role
	return b
}

// WithPassword sets the plaintext password.
func (b *UserRequestBuilder) WithPassword(password string) *UserRequestBuilder {
	b.req.Password = password
	return b
}

// WithPhone sets the user's phone number.
func (b *UserRequestBuilder) WithPhone(phone string) *UserRequestBuilder {
	b.req.Phone = &phone
	return b
}

// Build returns the constructed request.
func (b *UserRequestBuilder) Build() *model.CreateUserRequest {
	return b.req
}

// EventRequestBuilder provides a fluent interface for building CreateEventRequest objects for testing.
type EventRequestBuilder struct {
	req *model.CreateEventRequest
}

// NewEventRequest creates a new EventRequestBuilder with sensible defaults:
// a published two-hour workshop one week out.
func NewEventRequest() *EventRequestBuilder {
	starts := time.Now().Add(7 * 24 * time.Hour).UTC().Truncate(time.Minute)
	published := true
	return &EventRequestBuilder{
		req: &model.CreateEventRequest{
			Title:       fmt.Sprintf("Roda %d", time.Now().UnixNano()),
			Description: "Open roda, all levels welcome",
			Location:    "Main studio",
			StartsAt:    starts,
			EndsAt:      starts.Add(2 * time.Hour),
			Capacity:    30,
			Published:   &published,
		},
	}
}

// WithTitle sets the event title.
func (b *EventRequestBuilder) WithTitle(title string) *EventRequestBuilder {
	b.req.Title = title
	return b
}

// WithStartsAt sets the event start time.
func (b *EventRequestBuilder) WithStartsAt(t time.Time) *EventRequestBuilder {
	b.req.StartsAt = t
	return b
}

// WithEndsAt sets the event end time.
func (b *EventRequestBuilder) WithEndsAt(t time.Time) *EventRequestBuilder {
	b.req.EndsAt = t
	return b
}

// WithCapacity sets the event capacity.
func (b *EventRequestBuilder) WithCapacity(capacity int) *EventRequestBuilder {
	b.req.Capacity = capacity
	return b
}

// WithPublished sets the published flag.
func (b *EventRequestBuilder) WithPublished(published bool) *EventRequestBuilder {
	b.req.Published = &published
	return b
}

// Build returns the constructed request.
func (b *EventRequestBuilder) Build() *model.CreateEventRequest {
	return b.req
}

// ProductRequestBuilder provides a fluent interface for building CreateProductRequest objects for testing.
type ProductRequestBuilder struct {
	req *model.CreateProductRequest
}

// NewProductRequest creates a new ProductRequestBuilder with sensible defaults.
func NewProductRequest() *ProductRequestBuilder {
	return &ProductRequestBuilder{
		req: &model.CreateProductRequest{
			Name:        fmt.Sprintf("Abada %d", time.Now().UnixNano()),
			Description: "White training trousers",
			PriceCents:  4500,
			Stock:       10,
		},
	}
}

// WithName sets the product name.
func (b *ProductRequestBuilder) WithName(name string) *ProductRequestBuilder {
	b.req.Name = name
	return b
}

// WithPriceCents sets the product price in cents.
func (b *ProductRequestBuilder) WithPriceCents(cents int64) *ProductRequestBuilder {
	b.req.PriceCents = cents
	return b
}

// WithStock sets the initial stock level.
func (b *ProductRequestBuilder) WithStock(stock int) *ProductRequestBuilder {
	b.req.Stock = stock
	return b
}

// WithActive sets the active flag.
func (b *ProductRequestBuilder) WithActive(active bool) *ProductRequestBuilder {
	b.req.Active = &active
	return b
}

// Build returns the constructed request.
func (b *ProductRequestBuilder) Build() *model.CreateProductRequest {
	return b.req
}
