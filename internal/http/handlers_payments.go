package httpx

import (
	"crypto/subtle"
	"errors"
	"io"
	"log/slog"
	"net/http"

	apperrors "github.com/rodaworks/academy/internal/errors"
	"github.com/rodaworks/academy/internal/service"
)

// maxWebhookBodyBytes caps payment webhook payloads. Provider events are
// small JSON documents; anything larger is hostile.
const maxWebhookBodyBytes = 256 << 10

// PaymentWebhookHandler receives payment provider webhooks and settles orders.
type PaymentWebhookHandler struct {
	Svc    *service.PaymentService
	Token  string // shared secret; when set, X-Webhook-Token must match
	Logger *slog.Logger
}

func (h *PaymentWebhookHandler) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Handle processes a provider webhook.
// POST /api/payments/webhook.
//
// Unknown orders and unmapped payloads answer 200 so the provider stops
// retrying; only transient failures return 5xx.
func (h *PaymentWebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.Token != "" {
		provided := r.Header.Get("X-Webhook-Token")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(h.Token)) != 1 {
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "invalid_webhook_token",
				Err:     errors.New("invalid webhook token"),
			})
			return
		}
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "read_failed", Err: err})
		return
	}

	order, err := h.Svc.HandleWebhook(r.Context(), payload)
	if err != nil {
		switch {
		case apperrors.IsValidation(err), apperrors.IsNotFound(err):
			h.logger().WarnContext(r.Context(), "payment webhook discarded", "error", err)
			WriteJSON(w, http.StatusOK, map[string]any{"received": true, "settled": false})
		default:
			WriteServiceError(w, err)
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"received": true,
		"settled":  true,
		"order_id": order.ID,
		"status":   order.Status,
	})
}
