package service

import (
	"context"

	"github.com/rodaworks/academy/internal/core"
	"github.com/rodaworks/academy/internal/domain/model"
	apperrors "github.com/rodaworks/academy/internal/errors"
)

// ProductServiceOptions groups dependencies for ProductService.
type ProductServiceOptions struct {
	Products core.ProductRepository
}

// ProductService manages the shop catalog.
type ProductService struct {
	products core.ProductRepository
}

// NewProductService constructs a new ProductService.
func NewProductService(opts ProductServiceOptions) *ProductService {
	return &ProductService{products: opts.Products}
}

// Create creates a product.
func (s *ProductService) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	return s.products.Create(ctx, req)
}

// GetByID retrieves a product by ID.
func (s *ProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	return s.products.GetByID(ctx, id)
}

// List returns a page of products.
func (s *ProductService) List(ctx context.Context, opts model.ProductsListOptions) ([]*model.Product, error) {
	return s.products.List(ctx, normalizeProductListOptions(opts))
}

// ListPublic returns active products for the shop page.
func (s *ProductService) ListPublic(ctx context.Context, limit, offset int) ([]*model.Product, error) {
	active := true
	return s.products.List(ctx, normalizeProductListOptions(model.ProductsListOptions{
		Limit:  limit,
		Offset: offset,
		Active: &active,
		Sort:   "name",
		Dir:    "asc",
	}))
}

// Update applies partial changes to a product.
func (s *ProductService) Update(ctx context.Context, id string, req model.UpdateProductRequest) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	return s.products.Update(ctx, id, req)
}

// Restock adds to a product's stock.
func (s *ProductService) Restock(ctx context.Context, id string, quantity int) (*model.Product, error) {
	if quantity <= 0 {
		return nil, apperrors.ValidationField("quantity", "quantity must be > 0")
	}
	return s.products.AdjustStock(ctx, id, quantity)
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id string) (bool, error) {
	return s.products.Delete(ctx, id)
}

func normalizeProductListOptions(opts model.ProductsListOptions) model.ProductsListOptions {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.Sort == "" {
		opts.Sort = "created_at"
	}
	if opts.Dir == "" {
		opts.Dir = "desc"
	}
	return opts
}
