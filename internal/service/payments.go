package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/rodaworks/academy/internal/core"
	"github.com/rodaworks/academy/internal/domain/model"
	apperrors "github.com/rodaworks/academy/internal/errors"
)

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements JMESPathEvaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (j jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (j jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// PaymentMapping locates the fields we need inside a provider webhook
// payload. Providers shape their events differently; each deployment
// configures the expressions for its provider instead of us hardcoding one
// payload format.
type PaymentMapping struct {
	// ProviderRef extracts the provider's charge/session identifier. Required.
	ProviderRef string
	// OrderID extracts our order ID from provider metadata. Optional; when
	// absent the order is found by a previously recorded provider ref.
	OrderID string
	// Status extracts the provider's status string. Required.
	Status string
	// AmountCents extracts the charged amount, used only for a consistency
	// check. Optional.
	AmountCents string
	// StatusMap translates provider status values (lowercased) to ours.
	StatusMap map[string]model.OrderStatus
}

// Validate checks that required expressions are present and all parse.
func (m PaymentMapping) Validate() error {
	if strings.TrimSpace(m.ProviderRef) == "" {
		return fmt.Errorf("provider_ref expression is required")
	}
	if strings.TrimSpace(m.Status) == "" {
		return fmt.Errorf("status expression is required")
	}
	if len(m.StatusMap) == 0 {
		return fmt.Errorf("status map is required")
	}
	eval := jmespathLibEvaluator{}
	for name, expr := range map[string]string{
		"provider_ref": m.ProviderRef,
		"order_id":     m.OrderID,
		"status":       m.Status,
		"amount_cents": m.AmountCents,
	} {
		if err := eval.Validate(expr); err != nil {
			return fmt.Errorf("invalid %s expression: %w", name, err)
		}
	}
	return nil
}

// PaymentServiceOptions groups dependencies for PaymentService.
type PaymentServiceOptions struct {
	Orders    core.OrderRepository
	Mapping   PaymentMapping
	Evaluator JMESPathEvaluator // optional, defaults to the library evaluator
	Logger    *slog.Logger
}

// PaymentService settles orders from payment provider webhook events.
// Payment capture itself happens at the provider; we only record outcomes.
type PaymentService struct {
	orders  core.OrderRepository
	mapping PaymentMapping
	jems    JMESPathEvaluator
	logger  *slog.Logger
}

// NewPaymentService constructs a new PaymentService.
func NewPaymentService(opts PaymentServiceOptions) (*PaymentService, error) {
	if err := opts.Mapping.Validate(); err != nil {
		return nil, fmt.Errorf("payment mapping: %w", err)
	}
	jems := opts.Evaluator
	if jems == nil {
		jems = jmespathLibEvaluator{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentService{
		orders:  opts.Orders,
		mapping: opts.Mapping,
		jems:    jems,
		logger:  logger.With("component", "payments"),
	}, nil
}

// ParseEvent maps a raw provider payload into a normalized PaymentEvent.
func (s *PaymentService) ParseEvent(payload []byte) (*model.PaymentEvent, error) {
	var data any
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, apperrors.Validation("webhook payload is not valid JSON")
	}

	providerRef, err := s.extractString(s.mapping.ProviderRef, data)
	if err != nil || providerRef == "" {
		return nil, apperrors.ValidationField("provider_ref", "missing provider reference in payload")
	}
	rawStatus, err := s.extractString(s.mapping.Status, data)
	if err != nil || rawStatus == "" {
		return nil, apperrors.ValidationField("status", "missing status in payload")
	}
	status, ok := s.mapping.StatusMap[strings.ToLower(strings.TrimSpace(rawStatus))]
	if !ok {
		return nil, apperrors.Validationf("unhandled provider status %q", rawStatus)
	}

	event := &model.PaymentEvent{
		ProviderRef: providerRef,
		Status:      status,
		ReceivedAt:  time.Now(),
	}
	if s.mapping.OrderID != "" {
		// Best effort; absent metadata falls back to provider-ref lookup.
		event.OrderID, _ = s.extractString(s.mapping.OrderID, data)
	}
	if s.mapping.AmountCents != "" {
		event.AmountCents, _ = s.extractInt(s.mapping.AmountCents, data)
	}
	return event, nil
}

// HandleWebhook parses a provider event and settles the matching order.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte) (*model.Order, error) {
	event, err := s.ParseEvent(payload)
	if err != nil {
		return nil, err
	}

	order, err := s.findOrder(ctx, event)
	if err != nil {
		return nil, err
	}

	if event.AmountCents > 0 && event.AmountCents != order.AmountCents {
		s.logger.WarnContext(ctx, "payment amount mismatch",
			"order_id", order.ID,
			"order_amount_cents", order.AmountCents,
			"event_amount_cents", event.AmountCents)
	}

	updated, err := s.orders.SetStatus(ctx, core.SetOrderStatusParams{
		OrderID:     order.ID,
		Status:      event.Status,
		ProviderRef: &event.ProviderRef,
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "order settled from provider event",
		"order_id", updated.ID,
		"status", string(updated.Status),
		"provider_ref", event.ProviderRef)
	return updated, nil
}

func (s *PaymentService) findOrder(ctx context.Context, event *model.PaymentEvent) (*model.Order, error) {
	if event.OrderID != "" {
		order, err := s.orders.GetByID(ctx, event.OrderID)
		if err == nil {
			return order, nil
		}
		if !apperrors.IsNotFound(err) {
			return nil, err
		}
	}
	return s.orders.GetByProviderRef(ctx, event.ProviderRef)
}

func (s *PaymentService) extractString(expr string, data any) (string, error) {
	res, err := s.jems.Evaluate(expr, data)
	if err != nil {
		return "", err
	}
	switch v := res.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case nil:
		return "", nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

func (s *PaymentService) extractInt(expr string, data any) (int64, error) {
	res, err := s.jems.Evaluate(expr, data)
	if err != nil {
		return 0, err
	}
	switch v := res.(type) {
	case float64:
		return int64(v), nil
	case string:
		n, convErr := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if convErr != nil {
			return 0, convErr
		}
		return n, nil
	default:
		return 0, nil
	}
}
