// Package mocks provides mock implementations for testing the academy services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockUserRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(user, nil)
package mocks

// Generate mock for UserRepository interface from internal/core package.
// This creates MockUserRepository with methods for all UserRepository interface methods:
// Create, GetByID, GetByEmail, List, Update, SetPasswordHash, Delete, CountByRole
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=user_repository_mock.go github.com/rodaworks/academy/internal/core UserRepository

// Generate mock for EventRepository interface from internal/core package.
// This creates MockEventRepository with methods for all EventRepository interface methods:
// Create, GetByID, List, Update, Delete, CountUpcoming
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=event_repository_mock.go github.com/rodaworks/academy/internal/core EventRepository

// Generate mock for ProductRepository interface from internal/core package.
// This creates MockProductRepository with methods for all ProductRepository interface methods:
// Create, GetByID, List, Update, Delete, AdjustStock
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=product_repository_mock.go github.com/rodaworks/academy/internal/core ProductRepository

// Generate mock for OrderRepository interface from internal/core package.
// This creates MockOrderRepository with methods for all OrderRepository interface methods:
// Create, GetByID, GetByProviderRef, List, SetStatus, RevenueCents, CountByStatus
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=order_repository_mock.go github.com/rodaworks/academy/internal/core OrderRepository

// Generate mock for GalleryRepository interface from internal/core package.
// This creates MockGalleryRepository with methods for all GalleryRepository interface methods:
// Create, GetByID, List, Delete, Count
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=gallery_repository_mock.go github.com/rodaworks/academy/internal/core GalleryRepository

// Generate mock for ContactRepository interface from internal/core package.
// This creates MockContactRepository with methods for all ContactRepository interface methods:
// Create, GetByID, List, MarkRead, Delete, CountUnread
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=contact_repository_mock.go github.com/rodaworks/academy/internal/core ContactRepository
