package httpx

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rodaworks/academy/internal/core"
	"github.com/rodaworks/academy/internal/domain/model"
	apperrors "github.com/rodaworks/academy/internal/errors"
	"github.com/rodaworks/academy/internal/mocks"
	"github.com/rodaworks/academy/internal/service"
)

func providerEvent(ref, orderID, status string, amount int64) map[string]any {
	return map[string]any{
		"type": "checkout.session.completed",
		"data": map[string]any{
			"object": map[string]any{
				"id":             ref,
				"metadata":       map[string]any{"order_id": orderID},
				"payment_status": status,
				"amount_total":   amount,
			},
		},
	}
}

func TestPaymentWebhook_SettlesOrder(t *testing.T) {
	f := newRouterFixture(t)

	f.orders.EXPECT().
		GetByID(gomock.Any(), "ord-1").
		Return(&model.Order{ID: "ord-1", AmountCents: 4500, Status: model.OrderStatusPending}, nil)
	f.orders.EXPECT().
		SetStatus(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, params core.SetOrderStatusParams) (*model.Order, error) {
			assert.Equal(t, "ord-1", params.OrderID)
			assert.Equal(t, model.OrderStatusPaid, params.Status)
			require.NotNil(t, params.ProviderRef)
			assert.Equal(t, "cs_123", *params.ProviderRef)
			return &model.Order{ID: "ord-1", Status: model.OrderStatusPaid}, nil
		})

	rec := f.do(t, http.MethodPost, "/api/payments/webhook", "",
		providerEvent("cs_123", "ord-1", "paid", 4500))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, true, body["settled"])
	assert.Equal(t, "ord-1", body["order_id"])
}

func TestPaymentWebhook_FallsBackToProviderRefLookup(t *testing.T) {
	f := newRouterFixture(t)

	// No order_id metadata in the event; the order was tagged with the
	// provider ref when payment started.
	f.orders.EXPECT().
		GetByProviderRef(gomock.Any(), "cs_123").
		Return(&model.Order{ID: "ord-9", AmountCents: 2000, Status: model.OrderStatusPending}, nil)
	f.orders.EXPECT().
		SetStatus(gomock.Any(), gomock.Any()).
		Return(&model.Order{ID: "ord-9", Status: model.OrderStatusFailed}, nil)

	rec := f.do(t, http.MethodPost, "/api/payments/webhook", "",
		providerEvent("cs_123", "", "unpaid", 2000))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, true, body["settled"])
}

func TestPaymentWebhook_MalformedPayloadAnswers200Unsettled(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/payments/webhook", "",
		map[string]any{"unexpected": "shape"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, true, body["received"])
	assert.Equal(t, false, body["settled"])
}

func TestPaymentWebhook_UnknownOrderAnswers200Unsettled(t *testing.T) {
	f := newRouterFixture(t)

	f.orders.EXPECT().
		GetByID(gomock.Any(), "ord-missing").
		Return(nil, apperrors.NotFound("order not found"))
	f.orders.EXPECT().
		GetByProviderRef(gomock.Any(), "cs_123").
		Return(nil, apperrors.NotFound("order not found"))

	rec := f.do(t, http.MethodPost, "/api/payments/webhook", "",
		providerEvent("cs_123", "ord-missing", "paid", 100))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, false, body["settled"])
}

func TestPaymentWebhook_SharedSecret(t *testing.T) {
	ctrl := gomock.NewController(t)
	orders := mocks.NewMockOrderRepository(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, err := service.NewPaymentService(service.PaymentServiceOptions{
		Orders: orders,
		Mapping: service.PaymentMapping{
			ProviderRef: "id",
			Status:      "status",
			StatusMap:   map[string]model.OrderStatus{"paid": model.OrderStatusPaid},
		},
		Logger: logger,
	})
	require.NoError(t, err)

	handler := &PaymentWebhookHandler{Svc: svc, Token: "hunter2", Logger: logger}

	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook",
		bytes.NewReader([]byte(`{"id":"cs_1","status":"paid"}`)))
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "missing token")

	orders.EXPECT().
		GetByProviderRef(gomock.Any(), "cs_1").
		Return(&model.Order{ID: "ord-1", Status: model.OrderStatusPending}, nil)
	orders.EXPECT().
		SetStatus(gomock.Any(), gomock.Any()).
		Return(&model.Order{ID: "ord-1", Status: model.OrderStatusPaid}, nil)

	req = httptest.NewRequest(http.MethodPost, "/api/payments/webhook",
		bytes.NewReader([]byte(`{"id":"cs_1","status":"paid"}`)))
	req.Header.Set("X-Webhook-Token", "hunter2")
	rec = httptest.NewRecorder()
	handler.Handle(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "valid token")
}
