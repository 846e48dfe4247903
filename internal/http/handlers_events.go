package httpx

import (
	"errors"
	"net/http"
	"time"

	"github.com/rodaworks/academy/internal/domain/model"
	"github.com/rodaworks/academy/internal/service"
)

// EventHandlers provides HTTP handlers for the academy calendar.
type EventHandlers struct {
	Svc *service.EventService

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

const (
	maxEventListLimit   = 200
	maxUpcomingLimit    = 50
	defaultUpcomingSize = 10
)

func (h *EventHandlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Create handles HTTP requests to create an event.
func (h *EventHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	event, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, event)
}

// List handles staff HTTP requests to list events, including unpublished ones.
func (h *EventHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxEventListLimit)
	sort, dir := parseSortDir(r)

	events, err := h.Svc.List(r.Context(), model.EventsListOptions{
		Limit:     limit,
		Offset:    offset,
		Q:         parseStringQuery(r, "q"),
		Published: parseBoolQuery(r, "published"),
		Sort:      sort,
		Dir:       dir,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"limit":  limit,
		"offset": offset,
	})
}

// ListUpcoming handles the public calendar: published events that have not
// started yet, soonest first.
func (h *EventHandlers) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	limit, _ := ParseLimitOffset(r, defaultUpcomingSize, maxUpcomingLimit)

	events, err := h.Svc.ListPublicUpcoming(r.Context(), h.now(), limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

// GetByID handles HTTP requests to fetch an event by ID.
func (h *EventHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("event id is required")})
		return
	}

	event, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, event)
}

// Update handles HTTP requests to update an event.
func (h *EventHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("event id is required")})
		return
	}

	var req model.UpdateEventRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	event, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, event)
}

// Delete handles HTTP requests to delete an event.
func (h *EventHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("event id is required")})
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New("event not found")})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
