package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rodaworks/academy/internal/domain/model"
	apperrors "github.com/rodaworks/academy/internal/errors"
	"github.com/rodaworks/academy/internal/mocks"
)

func newProductFixture(t *testing.T) (*ProductService, *mocks.MockProductRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	products := mocks.NewMockProductRepository(ctrl)
	return NewProductService(ProductServiceOptions{Products: products}), products
}

func TestProductService_Create(t *testing.T) {
	svc, products := newProductFixture(t)
	products.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *model.CreateProductRequest) (*model.Product, error) {
			return &model.Product{ID: "prod-1", Name: req.Name, PriceCents: req.PriceCents}, nil
		})

	product, err := svc.Create(context.Background(), &model.CreateProductRequest{
		Name:       "Abada (white)",
		PriceCents: 4500,
		Stock:      20,
	})

	require.NoError(t, err)
	assert.Equal(t, "prod-1", product.ID)
}

func TestProductService_Create_NegativePrice(t *testing.T) {
	svc, _ := newProductFixture(t)

	_, err := svc.Create(context.Background(), &model.CreateProductRequest{
		Name:       "Berimbau",
		PriceCents: -1,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestProductService_ListPublic(t *testing.T) {
	svc, products := newProductFixture(t)
	products.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, opts model.ProductsListOptions) ([]*model.Product, error) {
			require.NotNil(t, opts.Active)
			assert.True(t, *opts.Active)
			assert.Equal(t, "name", opts.Sort)
			assert.Equal(t, "asc", opts.Dir)
			return nil, nil
		})

	_, err := svc.ListPublic(context.Background(), 0, 0)
	require.NoError(t, err)
}

func TestProductService_Restock(t *testing.T) {
	svc, products := newProductFixture(t)
	products.EXPECT().AdjustStock(gomock.Any(), "prod-1", 5).
		Return(&model.Product{ID: "prod-1", Stock: 25}, nil)

	product, err := svc.Restock(context.Background(), "prod-1", 5)
	require.NoError(t, err)
	assert.Equal(t, 25, product.Stock)

	_, err = svc.Restock(context.Background(), "prod-1", 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
