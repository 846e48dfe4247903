package httpx

import (
	"errors"
	"net/http"

	"github.com/rodaworks/academy/internal/domain/model"
	"github.com/rodaworks/academy/internal/service"
)

// ProductHandlers provides HTTP handlers for the academy shop catalog.
type ProductHandlers struct {
	Svc *service.ProductService
}

const maxProductListLimit = 200

// Create handles HTTP requests to add a product to the catalog.
func (h *ProductHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateProductRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	product, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, product)
}

// List handles staff HTTP requests to list the full catalog, inactive
// products included.
func (h *ProductHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxProductListLimit)
	sort, dir := parseSortDir(r)

	products, err := h.Svc.List(r.Context(), model.ProductsListOptions{
		Limit:  limit,
		Offset: offset,
		Q:      parseStringQuery(r, "q"),
		Active: parseBoolQuery(r, "active"),
		Sort:   sort,
		Dir:    dir,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"products": products,
		"limit":    limit,
		"offset":   offset,
	})
}

// ListPublic handles the public shop page: active products only.
func (h *ProductHandlers) ListPublic(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxProductListLimit)

	products, err := h.Svc.ListPublic(r.Context(), limit, offset)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"products": products})
}

// GetByID handles HTTP requests to fetch a product by ID.
func (h *ProductHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("product id is required")})
		return
	}

	product, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, product)
}

// Update handles HTTP requests to update a product.
func (h *ProductHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("product id is required")})
		return
	}

	var req model.UpdateProductRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	product, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, product)
}

// Restock handles HTTP requests to add stock to a product.
func (h *ProductHandlers) Restock(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("product id is required")})
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	product, err := h.Svc.Restock(r.Context(), id, req.Quantity)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, product)
}

// Delete handles HTTP requests to remove a product from the catalog.
func (h *ProductHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("product id is required")})
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New("product not found")})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
