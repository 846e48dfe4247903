package httpx

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rodaworks/academy/internal/core"
	domainauth "github.com/rodaworks/academy/internal/domain/auth"
	"github.com/rodaworks/academy/internal/domain/model"
	apperrors "github.com/rodaworks/academy/internal/errors"
)

func TestPlaceOrder_ComputesAmountFromProductPrice(t *testing.T) {
	f := newRouterFixture(t)
	token := f.signIn(t, domainauth.RoleStudent)

	f.products.EXPECT().
		GetByID(gomock.Any(), "prod-1").
		Return(&model.Product{ID: "prod-1", PriceCents: 4500, Stock: 10, Active: true}, nil)
	f.orders.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, order *model.Order) (*model.Order, error) {
			assert.Equal(t, "user-student", order.UserID)
			assert.Equal(t, int64(13500), order.AmountCents)
			assert.Equal(t, model.OrderStatusPending, order.Status)
			order.ID = "ord-1"
			return order, nil
		})

	rec := f.do(t, http.MethodPost, "/api/orders", token, map[string]any{
		"product_id": "prod-1",
		"quantity":   3,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	order := decodeBody[model.Order](t, rec)
	assert.Equal(t, "ord-1", order.ID)
	assert.Equal(t, int64(13500), order.AmountCents)
}

func TestPlaceOrder_InactiveProductRejected(t *testing.T) {
	f := newRouterFixture(t)
	token := f.signIn(t, domainauth.RoleStudent)

	f.products.EXPECT().
		GetByID(gomock.Any(), "prod-1").
		Return(&model.Product{ID: "prod-1", PriceCents: 4500, Active: false}, nil)

	rec := f.do(t, http.MethodPost, "/api/orders", token, map[string]any{
		"product_id": "prod-1",
		"quantity":   1,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlaceOrder_ZeroQuantityRejected(t *testing.T) {
	f := newRouterFixture(t)
	token := f.signIn(t, domainauth.RoleStudent)

	rec := f.do(t, http.MethodPost, "/api/orders", token, map[string]any{
		"product_id": "prod-1",
		"quantity":   0,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrders_MemberAlwaysScopedToOwnOrders(t *testing.T) {
	f := newRouterFixture(t)
	token := f.signIn(t, domainauth.RoleStudent)

	f.orders.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, opts model.OrdersListOptions) ([]*model.Order, error) {
			require.NotNil(t, opts.UserID)
			assert.Equal(t, "user-student", *opts.UserID)
			return []*model.Order{}, nil
		})

	// The user_id filter from the query string must be ignored for members.
	rec := f.do(t, http.MethodGet, "/api/orders?user_id=user-other", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListOrders_ManagerMayFilterByUser(t *testing.T) {
	f := newRouterFixture(t)
	token := f.signIn(t, domainauth.RoleManager)

	f.orders.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, opts model.OrdersListOptions) ([]*model.Order, error) {
			require.NotNil(t, opts.UserID)
			assert.Equal(t, "user-42", *opts.UserID)
			require.NotNil(t, opts.Status)
			assert.Equal(t, model.OrderStatusPaid, *opts.Status)
			return []*model.Order{}, nil
		})

	rec := f.do(t, http.MethodGet, "/api/orders?user_id=user-42&status=paid", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListOrders_BadStatusFilter(t *testing.T) {
	f := newRouterFixture(t)
	token := f.signIn(t, domainauth.RoleManager)

	rec := f.do(t, http.MethodGet, "/api/orders?status=shipped", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_status")
}

func TestGetOrder_ForeignOrderAnswers404(t *testing.T) {
	f := newRouterFixture(t)
	token := f.signIn(t, domainauth.RoleStudent)

	f.orders.EXPECT().
		GetByID(gomock.Any(), "ord-1").
		Return(&model.Order{ID: "ord-1", UserID: "user-other"}, nil)

	rec := f.do(t, http.MethodGet, "/api/orders/ord-1", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetOrder_ManagerSeesAnyOrder(t *testing.T) {
	f := newRouterFixture(t)
	token := f.signIn(t, domainauth.RoleManager)

	f.orders.EXPECT().
		GetByID(gomock.Any(), "ord-1").
		Return(&model.Order{ID: "ord-1", UserID: "user-other"}, nil)

	rec := f.do(t, http.MethodGet, "/api/orders/ord-1", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSetOrderStatus_UnknownStatusRejected(t *testing.T) {
	f := newRouterFixture(t)
	token := f.signIn(t, domainauth.RoleManager)

	rec := f.do(t, http.MethodPut, "/api/orders/ord-1/status", token, map[string]any{
		"status": "shipped",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_status")
}

func TestSetOrderStatus_Refund(t *testing.T) {
	f := newRouterFixture(t)
	token := f.signIn(t, domainauth.RoleManager)

	f.orders.EXPECT().
		SetStatus(gomock.Any(), core.SetOrderStatusParams{OrderID: "ord-1", Status: model.OrderStatusRefunded}).
		Return(&model.Order{ID: "ord-1", Status: model.OrderStatusRefunded}, nil)

	rec := f.do(t, http.MethodPut, "/api/orders/ord-1/status", token, map[string]any{
		"status": "refunded",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	order := decodeBody[model.Order](t, rec)
	assert.Equal(t, model.OrderStatusRefunded, order.Status)
}

func TestSetOrderStatus_RepoNotFound(t *testing.T) {
	f := newRouterFixture(t)
	token := f.signIn(t, domainauth.RoleManager)

	f.orders.EXPECT().
		SetStatus(gomock.Any(), gomock.Any()).
		Return(nil, apperrors.NotFound("order not found"))

	rec := f.do(t, http.MethodPut, "/api/orders/ord-1/status", token, map[string]any{
		"status": "paid",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
