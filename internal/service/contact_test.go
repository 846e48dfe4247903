package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rodaworks/academy/internal/domain/model"
	apperrors "github.com/rodaworks/academy/internal/errors"
	"github.com/rodaworks/academy/internal/mocks"
)

type captureNotifier struct {
	messages []*model.ContactMessage
	err      error
}

func (n *captureNotifier) NotifyContactMessage(_ context.Context, msg *model.ContactMessage) error {
	n.messages = append(n.messages, msg)
	return n.err
}

func TestContactService_Submit(t *testing.T) {
	ctrl := gomock.NewController(t)
	messages := mocks.NewMockContactRepository(ctrl)
	notifier := &captureNotifier{}
	svc := NewContactService(ContactServiceOptions{Messages: messages, Notifier: notifier})

	messages.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *model.CreateContactMessageRequest) (*model.ContactMessage, error) {
			assert.Equal(t, "ana@gmail.com", req.Email)
			return &model.ContactMessage{
				ID:      "msg-1",
				Name:    req.Name,
				Email:   req.Email,
				Subject: req.Subject,
				Body:    req.Body,
			}, nil
		})

	msg, err := svc.Submit(context.Background(), &model.CreateContactMessageRequest{
		Name:    "Ana Souza",
		Email:   "Ana@Gmail.com",
		Subject: "Trial class",
		Body:    "Do you run beginner rodas on Saturdays?",
	})

	require.NoError(t, err)
	assert.Equal(t, "msg-1", msg.ID)
	require.Len(t, notifier.messages, 1)
	assert.Equal(t, "msg-1", notifier.messages[0].ID)
}

func TestContactService_Submit_NotifierFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	messages := mocks.NewMockContactRepository(ctrl)
	notifier := &captureNotifier{err: errors.New("slack down")}
	svc := NewContactService(ContactServiceOptions{Messages: messages, Notifier: notifier})

	messages.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(&model.ContactMessage{ID: "msg-1"}, nil)

	msg, err := svc.Submit(context.Background(), &model.CreateContactMessageRequest{
		Name:  "Ana Souza",
		Email: "ana@gmail.com",
		Body:  "Hello",
	})

	require.NoError(t, err)
	assert.Equal(t, "msg-1", msg.ID)
}

func TestContactService_Submit_NoNotifierConfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	messages := mocks.NewMockContactRepository(ctrl)
	svc := NewContactService(ContactServiceOptions{Messages: messages})

	messages.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(&model.ContactMessage{ID: "msg-1"}, nil)

	_, err := svc.Submit(context.Background(), &model.CreateContactMessageRequest{
		Name:  "Ana Souza",
		Email: "ana@gmail.com",
		Body:  "Hello",
	})

	require.NoError(t, err)
}

func TestContactService_Submit_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewContactService(ContactServiceOptions{Messages: mocks.NewMockContactRepository(ctrl)})

	cases := []struct {
		name string
		req  *model.CreateContactMessageRequest
	}{
		{"nil request", nil},
		{"missing name", &model.CreateContactMessageRequest{Email: "a@gmail.com", Body: "hi"}},
		{"missing body", &model.CreateContactMessageRequest{Name: "Ana", Email: "a@gmail.com"}},
		{"no at sign", &model.CreateContactMessageRequest{Name: "Ana", Email: "gmail.com", Body: "hi"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tc.req)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

func TestEmailDomainRegistrable(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"ana@gmail.com", true},
		{"ana@capoeira.com.br", true},
		{"ana@sub.example.co.uk", true},
		{"ana@gmail.comm", false}, // unknown TLD typo
		{"ana@localhost", false},  // no dot
		{"ana@com", false},        // bare suffix
		{"ana@", false},
		{"gmail.com", false},
	}
	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			assert.Equal(t, tc.want, emailDomainRegistrable(tc.email))
		})
	}
}

func TestContactService_MarkReadAndList(t *testing.T) {
	ctrl := gomock.NewController(t)
	messages := mocks.NewMockContactRepository(ctrl)
	svc := NewContactService(ContactServiceOptions{Messages: messages})

	messages.EXPECT().MarkRead(gomock.Any(), "msg-1", true).
		Return(&model.ContactMessage{ID: "msg-1", Read: true}, nil)
	messages.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
			assert.Equal(t, 50, opts.Limit)
			assert.Equal(t, "created_at", opts.Sort)
			assert.Equal(t, "desc", opts.Dir)
			return nil, nil
		})

	msg, err := svc.MarkRead(context.Background(), "msg-1", true)
	require.NoError(t, err)
	assert.True(t, msg.Read)

	_, err = svc.List(context.Background(), model.ContactListOptions{})
	require.NoError(t, err)
}
