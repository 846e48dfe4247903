package httpx

import (
	"errors"
	"net/http"

	"github.com/rodaworks/academy/internal/domain/model"
	"github.com/rodaworks/academy/internal/service"
)

// ContactHandlers provides HTTP handlers for the public contact form and
// the staff inbox.
type ContactHandlers struct {
	Svc *service.ContactService
}

const maxContactListLimit = 200

// Submit accepts a contact form submission from the public site.
// POST /api/contact.
func (h *ContactHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.CreateContactMessageRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	msg, err := h.Svc.Submit(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"id": msg.ID, "received": true})
}

// List handles staff HTTP requests to browse the inbox.
func (h *ContactHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxContactListLimit)
	sort, dir := parseSortDir(r)

	messages, err := h.Svc.List(r.Context(), model.ContactListOptions{
		Limit:  limit,
		Offset: offset,
		Unread: parseBoolQuery(r, "unread"),
		Sort:   sort,
		Dir:    dir,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"messages": messages,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetByID handles staff HTTP requests to read a message.
func (h *ContactHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("message id is required")})
		return
	}

	msg, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, msg)
}

// MarkRead toggles the read flag on a message.
// POST /api/contact/{id}/read.
func (h *ContactHandlers) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("message id is required")})
		return
	}

	req := struct {
		Read bool `json:"read"`
	}{Read: true}
	if r.ContentLength != 0 {
		if !DecodeJSON(w, r, &req) {
			return
		}
	}

	msg, err := h.Svc.MarkRead(r.Context(), id, req.Read)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, msg)
}

// Delete removes a message from the inbox.
func (h *ContactHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("message id is required")})
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New("message not found")})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
