package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/rodaworks/academy/internal/domain/auth"
	"github.com/rodaworks/academy/internal/domain/model"
	"github.com/rodaworks/academy/internal/mocks"
	authmocks "github.com/rodaworks/academy/internal/mocks/auth"
	"github.com/rodaworks/academy/internal/observability/statsd"
	"github.com/rodaworks/academy/internal/ports"
	"github.com/rodaworks/academy/internal/service"
)

// routerFixture wires a full router against repository mocks and in-memory
// auth doubles so handler tests exercise the real middleware chain.
type routerFixture struct {
	router http.Handler

	users    *mocks.MockUserRepository
	events   *mocks.MockEventRepository
	products *mocks.MockProductRepository
	orders   *mocks.MockOrderRepository
	gallery  *mocks.MockGalleryRepository
	contact  *mocks.MockContactRepository

	sessions *authmocks.MemorySessionStore
	tokens   *authmocks.StaticTokenCodec
	objects  *memObjectStore
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &routerFixture{
		users:    mocks.NewMockUserRepository(ctrl),
		events:   mocks.NewMockEventRepository(ctrl),
		products: mocks.NewMockProductRepository(ctrl),
		orders:   mocks.NewMockOrderRepository(ctrl),
		gallery:  mocks.NewMockGalleryRepository(ctrl),
		contact:  mocks.NewMockContactRepository(ctrl),
		sessions: authmocks.NewMemorySessionStore(),
		tokens:   &authmocks.StaticTokenCodec{},
		objects:  newMemObjectStore(),
	}

	auth := service.NewAuthService(service.AuthServiceOptions{
		Users:    f.users,
		Sessions: f.sessions,
		Tokens:   f.tokens,
	})
	payments, err := service.NewPaymentService(service.PaymentServiceOptions{
		Orders: f.orders,
		Mapping: service.PaymentMapping{
			ProviderRef: "data.object.id",
			OrderID:     "data.object.metadata.order_id",
			Status:      "data.object.payment_status",
			AmountCents: "data.object.amount_total",
			StatusMap: map[string]model.OrderStatus{
				"paid":     model.OrderStatusPaid,
				"unpaid":   model.OrderStatusFailed,
				"refunded": model.OrderStatusRefunded,
			},
		},
		Logger: logger,
	})
	require.NoError(t, err)

	f.router = NewRouter(RouterServices{
		Auth:     auth,
		Users:    service.NewUserService(service.UserServiceOptions{Users: f.users}),
		Events:   service.NewEventService(service.EventServiceOptions{Events: f.events}),
		Products: service.NewProductService(service.ProductServiceOptions{Products: f.products}),
		Orders:   service.NewOrderService(service.OrderServiceOptions{Orders: f.orders, Products: f.products}),
		Payments: payments,
		Gallery:  service.NewGalleryService(service.GalleryServiceOptions{Images: f.gallery, Objects: f.objects, Logger: logger}),
		Contact:  service.NewContactService(service.ContactServiceOptions{Messages: f.contact, Logger: logger}),
		Stats: service.NewStatsService(service.StatsServiceOptions{
			Users:    f.users,
			Events:   f.events,
			Orders:   f.orders,
			Gallery:  f.gallery,
			Messages: f.contact,
		}),
		Logger:  logger,
		Metrics: statsd.Nop{},
	})
	return f
}

// signIn saves a session for the given role and returns its bearer token.
func (f *routerFixture) signIn(t *testing.T, role domainauth.Role) string {
	t.Helper()
	sess := domainauth.Session{
		ID:        "sess-" + string(role),
		UserID:    "user-" + string(role),
		Name:      "Test " + string(role),
		Email:     string(role) + "@academy.test",
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, f.sessions.Save(context.Background(), sess))

	token, err := f.tokens.Mint(sess)
	require.NoError(t, err)
	return token
}

// do runs a JSON request through the router. A nil body sends no payload;
// an empty token sends no Authorization header.
func (f *routerFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// memObjectStore is an in-memory ports.ObjectStore for gallery tests.
type memObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

var _ ports.ObjectStore = (*memObjectStore)(nil)

func newMemObjectStore() *memObjectStore {
	return &memObjectStore{objects: make(map[string][]byte)}
}

func (s *memObjectStore) Put(_ context.Context, in ports.PutObjectInput) error {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[in.Key] = data
	return nil
}

func (s *memObjectStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memObjectStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// putObject builds a PutObjectInput for seeding the in-memory store.
func putObject(key string, data []byte) ports.PutObjectInput {
	return ports.PutObjectInput{
		Key:  key,
		Size: int64(len(data)),
		Body: bytes.NewReader(data),
	}
}

func (s *memObjectStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
