// Package devseed populates a development database with a usable set of
// accounts, events, and products. Seeding is idempotent: records that
// already exist are left alone.
package devseed

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/rodaworks/academy/internal/data"
	domainauth "github.com/rodaworks/academy/internal/domain/auth"
	"github.com/rodaworks/academy/internal/domain/model"
	apperrors "github.com/rodaworks/academy/internal/errors"
	"github.com/rodaworks/academy/internal/service"
)

// Services groups the services used for seeding.
type Services struct {
	Users    *service.UserService
	Events   *service.EventService
	Products *service.ProductService
}

// NewServices wires seeding services straight onto the database.
func NewServices(db *sql.DB) Services {
	return Services{
		Users:    service.NewUserService(service.UserServiceOptions{Users: data.NewUserRepo(db)}),
		Events:   service.NewEventService(service.EventServiceOptions{Events: data.NewEventRepo(db)}),
		Products: service.NewProductService(service.ProductServiceOptions{Products: data.NewProductRepo(db)}),
	}
}

// Run seeds development data. Existing records are skipped, so it is safe
// to run repeatedly.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	created := seedUsers(ctx, svcs.Users, logger)
	created += seedEvents(ctx, svcs.Events, logger)
	created += seedProducts(ctx, svcs.Products, logger)

	logger.InfoContext(ctx, "development seed complete", "created", created)
	return nil
}

func seedUsers(ctx context.Context, svc *service.UserService, logger *slog.Logger) int {
	created := 0
	for _, req := range defaultUsers() {
		user, err := svc.Create(ctx, req)
		if err != nil {
			if apperrors.IsConflict(err) {
				logger.DebugContext(ctx, "seed user exists", "email", req.Email)
				continue
			}
			logger.ErrorContext(ctx, "seed user failed", "email", req.Email, "error", err)
			continue
		}
		created++
		logger.InfoContext(ctx, "seed user created", "id", user.ID, "email", user.Email, "role", user.Role)
	}
	return created
}

func defaultUsers() []*model.CreateUserRequest {
	return []*model.CreateUserRequest{
		{
			Name:     "Mestre Admin",
			Email:    "admin@academy.local",
			Role:     domainauth.RoleAdmin,
			Password: "admin-dev-password",
		},
		{
			Name:     "Contra-Mestre Manager",
			Email:    "manager@academy.local",
			Role:     domainauth.RoleManager,
			Password: "manager-dev-password",
		},
		{
			Name:     "Professora Ana",
			Email:    "instructor@academy.local",
			Role:     domainauth.RoleInstructor,
			Password: "instructor-dev-password",
		},
		{
			Name:     "Aluno Pedro",
			Email:    "student@academy.local",
			Role:     domainauth.RoleStudent,
			Password: "student-dev-password",
		},
	}
}

func seedEvents(ctx context.Context, svc *service.EventService, logger *slog.Logger) int {
	created := 0
	for _, req := range defaultEvents() {
		exists, err := eventExists(ctx, svc, req.Title)
		if err != nil {
			logger.ErrorContext(ctx, "seed event lookup failed", "title", req.Title, "error", err)
			continue
		}
		if exists {
			logger.DebugContext(ctx, "seed event exists", "title", req.Title)
			continue
		}

		event, err := svc.Create(ctx, req)
		if err != nil {
			logger.ErrorContext(ctx, "seed event failed", "title", req.Title, "error", err)
			continue
		}
		created++
		logger.InfoContext(ctx, "seed event created", "id", event.ID, "title", event.Title)
	}
	return created
}

func defaultEvents() []*model.CreateEventRequest {
	published := true
	base := time.Now().Truncate(time.Hour)
	return []*model.CreateEventRequest{
		{
			Title:       "Weekly Roda",
			Description: "Open roda in the main hall. All levels welcome.",
			Location:    "Main Hall",
			StartsAt:    base.AddDate(0, 0, 7),
			EndsAt:      base.AddDate(0, 0, 7).Add(2 * time.Hour),
			Capacity:    40,
			Published:   &published,
		},
		{
			Title:       "Batizado Workshop",
			Description: "Preparation workshop for the annual batizado.",
			Location:    "Studio B",
			StartsAt:    base.AddDate(0, 1, 0),
			EndsAt:      base.AddDate(0, 1, 0).Add(3 * time.Hour),
			Capacity:    25,
			Published:   &published,
		},
		{
			Title:       "Instructor Planning",
			Description: "Curriculum planning session. Staff only; unpublished.",
			Location:    "Office",
			StartsAt:    base.AddDate(0, 0, 3),
			EndsAt:      base.AddDate(0, 0, 3).Add(time.Hour),
			Capacity:    10,
		},
	}
}

func seedProducts(ctx context.Context, svc *service.ProductService, logger *slog.Logger) int {
	created := 0
	for _, req := range defaultProducts() {
		exists, err := productExists(ctx, svc, req.Name)
		if err != nil {
			logger.ErrorContext(ctx, "seed product lookup failed", "name", req.Name, "error", err)
			continue
		}
		if exists {
			logger.DebugContext(ctx, "seed product exists", "name", req.Name)
			continue
		}

		product, err := svc.Create(ctx, req)
		if err != nil {
			logger.ErrorContext(ctx, "seed product failed", "name", req.Name, "error", err)
			continue
		}
		created++
		logger.InfoContext(ctx, "seed product created", "id", product.ID, "name", product.Name)
	}
	return created
}

func defaultProducts() []*model.CreateProductRequest {
	inactive := false
	return []*model.CreateProductRequest{
		{
			Name:        "Abadá (white)",
			Description: "Traditional training trousers, academy logo on the left leg.",
			PriceCents:  8900,
			Stock:       25,
		},
		{
			Name:        "Academy T-Shirt",
			Description: "Cotton shirt with the academy crest.",
			PriceCents:  3500,
			Stock:       60,
		},
		{
			Name:        "Corda (retired colours)",
			Description: "Legacy grading cords, kept for record only.",
			PriceCents:  1500,
			Stock:       0,
			Active:      &inactive,
		},
	}
}

func eventExists(ctx context.Context, svc *service.EventService, title string) (bool, error) {
	events, err := svc.List(ctx, model.EventsListOptions{Q: &title, Limit: 10})
	if err != nil {
		return false, err
	}
	for _, e := range events {
		if e.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func productExists(ctx context.Context, svc *service.ProductService, name string) (bool, error) {
	products, err := svc.List(ctx, model.ProductsListOptions{Q: &name, Limit: 10})
	if err != nil {
		return false, err
	}
	for _, p := range products {
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}
