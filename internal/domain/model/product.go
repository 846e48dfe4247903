package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxProductNameLen = 200

// Product represents an item in the academy shop (uniforms, cordas, instruments).
// Prices are stored in cents to avoid floating point drift.
type Product struct {
	ID          string    `json:"id"          db:"id"`
	Name        string    `json:"name"        db:"name"`
	Description string    `json:"description" db:"description"`
	PriceCents  int64     `json:"price_cents" db:"price_cents"`
	Stock       int       `json:"stock"       db:"stock"`
	Active      bool      `json:"active"      db:"active"`
	CreatedAt   time.Time `json:"created_at"  db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"  db:"updated_at"`
}

// InStock reports whether the product can currently be ordered.
func (p Product) InStock() bool { return p.Active && p.Stock > 0 }

// CreateProductRequest represents parameters to create a Product.
type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Stock       int    `json:"stock"`
	Active      *bool  `json:"active,omitempty"`
}

// UpdateProductRequest represents parameters to update a Product.
type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	PriceCents  *int64  `json:"price_cents,omitempty"`
	Stock       *int    `json:"stock,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// ProductsListOptions controls paging and filtering for listing products.
type ProductsListOptions struct {
	Limit  int
	Offset int
	Q      *string // substring match on name (ILIKE)
	Active *bool   // exact match
	Sort   string  // allowed: "created_at", "name", "price_cents"
	Dir    string
}

// Validate validates CreateProductRequest.
func (r *CreateProductRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxProductNameLen {
		return errors.New("name cannot exceed 200 characters")
	}
	if r.PriceCents < 0 {
		return errors.New("price_cents cannot be negative")
	}
	if r.Stock < 0 {
		return errors.New("stock cannot be negative")
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateProductRequest.
func (r *UpdateProductRequest) HasUpdates() bool {
	return r.Name != nil || r.Description != nil || r.PriceCents != nil ||
		r.Stock != nil || r.Active != nil
}

// Validate validates UpdateProductRequest.
func (r *UpdateProductRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if r.PriceCents != nil && *r.PriceCents < 0 {
		return errors.New("price_cents cannot be negative")
	}
	if r.Stock != nil && *r.Stock < 0 {
		return errors.New("stock cannot be negative")
	}
	return nil
}
