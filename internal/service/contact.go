package service

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/rodaworks/academy/internal/core"
	"github.com/rodaworks/academy/internal/domain/model"
	apperrors "github.com/rodaworks/academy/internal/errors"
)

// ContactNotifier forwards a new contact message to staff (e.g. a Slack
// webhook). Delivery is best effort and never blocks the submission.
type ContactNotifier interface {
	NotifyContactMessage(ctx context.Context, msg *model.ContactMessage) error
}

// ContactServiceOptions groups dependencies for ContactService.
type ContactServiceOptions struct {
	Messages core.ContactRepository
	Notifier ContactNotifier // optional
	Logger   *slog.Logger
}

// ContactService handles the public contact form and the admin inbox.
type ContactService struct {
	messages core.ContactRepository
	notifier ContactNotifier
	logger   *slog.Logger
}

// NewContactService constructs a new ContactService.
func NewContactService(opts ContactServiceOptions) *ContactService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactService{
		messages: opts.Messages,
		notifier: opts.Notifier,
		logger:   logger.With("component", "contact"),
	}
}

// Submit stores a contact form submission and notifies staff.
func (s *ContactService) Submit(ctx context.Context, req *model.CreateContactMessageRequest) (*model.ContactMessage, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if !emailDomainRegistrable(req.Email) {
		return nil, apperrors.ValidationField("email", "email domain is not valid")
	}

	msg, err := s.messages.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if notifyErr := s.notifier.NotifyContactMessage(ctx, msg); notifyErr != nil {
			s.logger.ErrorContext(ctx, "contact notification failed", "message_id", msg.ID, "error", notifyErr)
		}
	}
	return msg, nil
}

// GetByID retrieves a contact message.
func (s *ContactService) GetByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	return s.messages.GetByID(ctx, id)
}

// List returns a page of the admin inbox.
func (s *ContactService) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
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
	return s.messages.List(ctx, opts)
}

// MarkRead flips the read flag on a message.
func (s *ContactService) MarkRead(ctx context.Context, id string, read bool) (*model.ContactMessage, error) {
	return s.messages.MarkRead(ctx, id, read)
}

// Delete removes a contact message.
func (s *ContactService) Delete(ctx context.Context, id string) (bool, error) {
	return s.messages.Delete(ctx, id)
}

// emailDomainRegistrable reports whether the address's domain resolves to a
// registrable name under a known public suffix. Catches typos like
// "user@gmail.comm" slipping past the basic shape check.
func emailDomainRegistrable(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	if !strings.Contains(domain, ".") {
		return false
	}
	suffix, icann := publicsuffix.PublicSuffix(domain)
	if !icann {
		return false
	}
	// Require a registrable label in front of the suffix.
	return suffix != domain
}
