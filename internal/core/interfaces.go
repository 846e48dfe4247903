package core

import (
	"context"
	"time"

	"github.com/rodaworks/academy/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, req *model.CreateUserRequest, passwordHash string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, opts model.UsersListOptions) ([]*model.User, error)
	Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error)
	SetPasswordHash(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) (bool, error)
	CountByRole(ctx context.Context) (map[string]int, error)
}

// EventRepository defines the interface for academy event data operations.
type EventRepository interface {
	Create(ctx context.Context, req *model.CreateEventRequest) (*model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context, opts model.EventsListOptions) ([]*model.Event, error)
	Update(ctx context.Context, id string, req model.UpdateEventRequest) (*model.Event, error)
	Delete(ctx context.Context, id string) (bool, error)
	CountUpcoming(ctx context.Context, after time.Time) (int, error)
}

// ProductRepository defines the interface for shop product data operations.
type ProductRepository interface {
	Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)
	GetByID(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context, opts model.ProductsListOptions) ([]*model.Product, error)
	Update(ctx context.Context, id string, req model.UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id string) (bool, error)
	AdjustStock(ctx context.Context, id string, delta int) (*model.Product, error)
}

// OrderRepository defines the interface for order data operations.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByID(ctx context.Context, id string) (*model.Order, error)
	GetByProviderRef(ctx context.Context, ref string) (*model.Order, error)
	List(ctx context.Context, opts model.OrdersListOptions) ([]*model.Order, error)
	SetStatus(ctx context.Context, params SetOrderStatusParams) (*model.Order, error)
	RevenueCents(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.OrderStatus) (int, error)
}

// SetOrderStatusParams groups parameters for OrderRepository.SetStatus to keep param count ≤3.
type SetOrderStatusParams struct {
	OrderID     string
	Status      model.OrderStatus
	ProviderRef *string
}

// GalleryRepository defines the interface for gallery image metadata operations.
type GalleryRepository interface {
	Create(ctx context.Context, req *model.CreateGalleryImageRequest) (*model.GalleryImage, error)
	GetByID(ctx context.Context, id string) (*model.GalleryImage, error)
	List(ctx context.Context, opts model.GalleryListOptions) ([]*model.GalleryImage, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// ContactRepository defines the interface for contact message data operations.
type ContactRepository interface {
	Create(ctx context.Context, req *model.CreateContactMessageRequest) (*model.ContactMessage, error)
	GetByID(ctx context.Context, id string) (*model.ContactMessage, error)
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error)
	MarkRead(ctx context.Context, id string, read bool) (*model.ContactMessage, error)
	Delete(ctx context.Context, id string) (bool, error)
	CountUnread(ctx context.Context) (int, error)
}
