package httpx

import (
	"errors"
	"net/http"

	"github.com/rodaworks/academy/internal/core"
	domainauth "github.com/rodaworks/academy/internal/domain/auth"
	"github.com/rodaworks/academy/internal/domain/model"
	"github.com/rodaworks/academy/internal/service"
)

// OrderHandlers provides HTTP handlers for shop orders. All routes require
// an authenticated session; members only ever see their own orders while
// managers and admins see everything.
type OrderHandlers struct {
	Svc *service.OrderService
}

const maxOrderListLimit = 200

// Place handles HTTP requests to place an order for the signed-in member.
func (h *OrderHandlers) Place(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		writeAuthRequired(w)
		return
	}

	var req model.CreateOrderRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	order, err := h.Svc.Place(r.Context(), session.UserID, &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, order)
}

// GetByID handles HTTP requests to fetch an order. Members can only fetch
// their own orders; a foreign order answers 404 so order IDs don't leak.
func (h *OrderHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		writeAuthRequired(w)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("order id is required")})
		return
	}

	requesterID := session.UserID
	if session.Role.AtLeast(domainauth.RoleManager) {
		requesterID = ""
	}

	order, err := h.Svc.GetByID(r.Context(), id, requesterID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, order)
}

// List handles HTTP requests to list orders. Members get their own orders
// regardless of the filters they send; staff may filter by user and status.
func (h *OrderHandlers) List(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		writeAuthRequired(w)
		return
	}

	limit, offset := ParseLimitOffset(r, 50, maxOrderListLimit)
	sort, dir := parseSortDir(r)

	opts := model.OrdersListOptions{
		Limit:  limit,
		Offset: offset,
		Sort:   sort,
		Dir:    dir,
	}

	if session.Role.AtLeast(domainauth.RoleManager) {
		opts.UserID = parseStringQuery(r, "user_id")
	} else {
		userID := session.UserID
		opts.UserID = &userID
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := model.ParseOrderStatus(raw)
		if !ok {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_status",
				Err:     errors.New("unknown order status filter"),
			})
			return
		}
		opts.Status = &status
	}

	orders, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"orders": orders,
		"limit":  limit,
		"offset": offset,
	})
}

// SetStatus handles staff HTTP requests to move an order through the
// payment lifecycle manually, e.g. to refund or settle an offline payment.
func (h *OrderHandlers) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("order id is required")})
		return
	}

	var req struct {
		Status      string  `json:"status"`
		ProviderRef *string `json:"provider_ref,omitempty"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	status, ok := model.ParseOrderStatus(req.Status)
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_status",
			Err:     errors.New("unknown order status"),
		})
		return
	}

	order, err := h.Svc.SetStatus(r.Context(), core.SetOrderStatusParams{
		OrderID:     id,
		Status:      status,
		ProviderRef: req.ProviderRef,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, order)
}
