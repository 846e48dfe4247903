package httpx

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/rodaworks/academy/internal/domain/auth"
	"github.com/rodaworks/academy/internal/domain/model"
)

func TestCreateProduct(t *testing.T) {
	f := newRouterFixture(t)
	token := f.signIn(t, domainauth.RoleManager)

	f.products.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *model.CreateProductRequest) (*model.Product, error) {
			assert.Equal(t, "Abadá", req.Name)
			assert.Equal(t, int64(8900), req.PriceCents)
			return &model.Product{ID: "p-1", Name: req.Name, PriceCents: req.PriceCents}, nil
		})

	rec := f.do(t, http.MethodPost, "/api/products", token, map[string]any{
		"name":        "Abadá",
		"description": "Training trousers",
		"price_cents": 8900,
		"stock":       25,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateProduct_NegativePriceRejected(t *testing.T) {
	f := newRouterFixture(t)
	token := f.signIn(t, domainauth.RoleManager)

	rec := f.do(t, http.MethodPost, "/api/products", token, map[string]any{
		"name":        "Cordão",
		"price_cents": -100,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPublicProducts_ActiveOnlySortedByName(t *testing.T) {
	f := newRouterFixture(t)

	f.products.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, opts model.ProductsListOptions) ([]*model.Product, error) {
			require.NotNil(t, opts.Active)
			assert.True(t, *opts.Active)
			assert.Equal(t, "name", opts.Sort)
			assert.Equal(t, "asc", opts.Dir)
			return []*model.Product{{ID: "p-1", Active: true}}, nil
		})

	rec := f.do(t, http.MethodGet, "/api/shop/products", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRestockProduct(t *testing.T) {
	f := newRouterFixture(t)
	token := f.signIn(t, domainauth.RoleManager)

	f.products.EXPECT().
		AdjustStock(gomock.Any(), "p-1", 10).
		Return(&model.Product{ID: "p-1", Stock: 35}, nil)

	rec := f.do(t, http.MethodPost, "/api/products/p-1/restock", token, map[string]any{"quantity": 10})
	require.Equal(t, http.StatusOK, rec.Code)
	product := decodeBody[model.Product](t, rec)
	assert.Equal(t, 35, product.Stock)

	rec = f.do(t, http.MethodPost, "/api/products/p-1/restock", token, map[string]any{"quantity": -5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
