package service

import (
	"context"
	"time"

	"github.com/rodaworks/academy/internal/core"
	"github.com/rodaworks/academy/internal/domain/model"
	apperrors "github.com/rodaworks/academy/internal/errors"
)

// EventServiceOptions groups dependencies for EventService.
type EventServiceOptions struct {
	Events core.EventRepository
}

// EventService manages the academy calendar.
type EventService struct {
	events core.EventRepository
}

// NewEventService constructs a new EventService.
func NewEventService(opts EventServiceOptions) *EventService {
	return &EventService{events: opts.Events}
}

// Create creates an event. Unpublished by default.
func (s *EventService) Create(ctx context.Context, req *model.CreateEventRequest) (*model.Event, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	return s.events.Create(ctx, req)
}

// GetByID retrieves an event by ID.
func (s *EventService) GetByID(ctx context.Context, id string) (*model.Event, error) {
	return s.events.GetByID(ctx, id)
}

// List returns a page of events for the admin view.
func (s *EventService) List(ctx context.Context, opts model.EventsListOptions) ([]*model.Event, error) {
	return s.events.List(ctx, normalizeEventListOptions(opts))
}

// ListPublicUpcoming returns published events starting after now, soonest
// first. This feeds the public events page.
func (s *EventService) ListPublicUpcoming(ctx context.Context, now time.Time, limit int) ([]*model.Event, error) {
	published := true
	return s.events.List(ctx, normalizeEventListOptions(model.EventsListOptions{
		Limit:         limit,
		Published:     &published,
		UpcomingAfter: &now,
		Sort:          "starts_at",
		Dir:           "asc",
	}))
}

// Update applies partial changes to an event.
func (s *EventService) Update(ctx context.Context, id string, req model.UpdateEventRequest) (*model.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	return s.events.Update(ctx, id, req)
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, id string) (bool, error) {
	return s.events.Delete(ctx, id)
}

func normalizeEventListOptions(opts model.EventsListOptions) model.EventsListOptions {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.Sort == "" {
		opts.Sort = "starts_at"
	}
	if opts.Dir == "" {
		opts.Dir = "asc"
	}
	return opts
}
