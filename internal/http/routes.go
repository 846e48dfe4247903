package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/rodaworks/academy/internal/domain/auth"
	"github.com/rodaworks/academy/internal/observability/statsd"
	"github.com/rodaworks/academy/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth     *service.AuthService
	Users    *service.UserService
	Events   *service.EventService
	Products *service.ProductService
	Orders   *service.OrderService
	Payments *service.PaymentService
	Gallery  *service.GalleryService
	Contact  *service.ContactService
	Stats    *service.StatsService

	CookieDomain string
	WebhookToken string
	// CompressionLevel is the gzip level for compressible responses.
	// Zero means gzip.DefaultCompression.
	CompressionLevel int
	Logger           *slog.Logger
	Metrics          statsd.Sink
}

// NewRouter creates and configures the HTTP router with the full middleware
// chain: panic recovery, request logging/metrics, gzip, and browser detection.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	registerAuthRoutes(mux, &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		Logger:       logger,
		Metrics:      services.Metrics,
	})
	registerUserRoutes(mux, &UserHandlers{Svc: services.Users}, services.Auth)
	registerEventRoutes(mux, &EventHandlers{Svc: services.Events}, services.Auth)
	registerProductRoutes(mux, &ProductHandlers{Svc: services.Products}, services.Auth)
	registerOrderRoutes(mux, &OrderHandlers{Svc: services.Orders}, services.Auth)
	registerGalleryRoutes(mux, &GalleryHandlers{Svc: services.Gallery, Logger: logger}, services.Auth)
	registerContactRoutes(mux, &ContactHandlers{Svc: services.Contact}, services.Auth)

	webhook := &PaymentWebhookHandler{Svc: services.Payments, Token: services.WebhookToken, Logger: logger}
	mux.HandleFunc("POST /api/payments/webhook", webhook.Handle)

	stats := &StatsHandlers{Svc: services.Stats}
	mux.Handle("GET /api/stats/dashboard",
		RequireRole(services.Auth, domainauth.RoleManager)(http.HandlerFunc(stats.Dashboard)))

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	var handler http.Handler = mux
	handler = BrowserDetection()(handler)
	handler = Compression(CompressionConfig{Level: services.CompressionLevel, Logger: logger})(handler)
	handler = Logging(logger, services.Metrics)(handler)
	handler = Recover(logger)(handler)
	return handler
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	// Credential flow for members and the CLI.
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/register", h.Register)
	mux.HandleFunc("GET /auth/me", h.Me)
	mux.HandleFunc("POST /auth/logout", h.Logout)

	// Browser OIDC flow for staff.
	mux.HandleFunc("GET /auth/login", h.OIDCLogin)
	mux.HandleFunc("GET /auth/callback", h.OIDCCallback)
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.HandleFunc("POST /auth/signout", h.SignOut)
}

func registerUserRoutes(mux *http.ServeMux, h *UserHandlers, auth *service.AuthService) {
	adminOnly := RequireRole(auth, domainauth.RoleAdmin)

	registerCRUD(mux, crudRoutes{
		Base:       "/api/users",
		Create:     h.Create,
		List:       h.List,
		GetByID:    h.GetByID,
		Update:     h.Update,
		Delete:     h.Delete,
		Middleware: adminOnly,
	})
	mux.Handle("POST /api/users/{id}/password", adminOnly(http.HandlerFunc(h.SetPassword)))
}

func registerEventRoutes(mux *http.ServeMux, h *EventHandlers, auth *service.AuthService) {
	mux.HandleFunc("GET /api/events/upcoming", h.ListUpcoming)

	registerCRUD(mux, crudRoutes{
		Base:       "/api/events",
		Create:     h.Create,
		List:       h.List,
		GetByID:    h.GetByID,
		Update:     h.Update,
		Delete:     h.Delete,
		Middleware: RequireRole(auth, domainauth.RoleManager),
	})
}

func registerProductRoutes(mux *http.ServeMux, h *ProductHandlers, auth *service.AuthService) {
	mux.HandleFunc("GET /api/shop/products", h.ListPublic)

	managerOnly := RequireRole(auth, domainauth.RoleManager)
	registerCRUD(mux, crudRoutes{
		Base:       "/api/products",
		Create:     h.Create,
		List:       h.List,
		GetByID:    h.GetByID,
		Update:     h.Update,
		Delete:     h.Delete,
		Middleware: managerOnly,
	})
	mux.Handle("POST /api/products/{id}/restock", managerOnly(http.HandlerFunc(h.Restock)))
}

func registerOrderRoutes(mux *http.ServeMux, h *OrderHandlers, auth *service.AuthService) {
	authed := RequireAuth(auth)
	mux.Handle("POST /api/orders", authed(http.HandlerFunc(h.Place)))
	mux.Handle("GET /api/orders", authed(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/orders/{id}", authed(http.HandlerFunc(h.GetByID)))
	mux.Handle("PUT /api/orders/{id}/status",
		RequireRole(auth, domainauth.RoleManager)(http.HandlerFunc(h.SetStatus)))
}

func registerGalleryRoutes(mux *http.ServeMux, h *GalleryHandlers, auth *service.AuthService) {
	mux.HandleFunc("GET /api/gallery", h.List)
	mux.HandleFunc("GET /api/gallery/{id}", h.GetByID)
	mux.HandleFunc("GET /api/gallery/{id}/image", h.Serve)

	managerOnly := RequireRole(auth, domainauth.RoleManager)
	mux.Handle("POST /api/gallery", managerOnly(http.HandlerFunc(h.Upload)))
	mux.Handle("DELETE /api/gallery/{id}", managerOnly(http.HandlerFunc(h.Delete)))
}

func registerContactRoutes(mux *http.ServeMux, h *ContactHandlers, auth *service.AuthService) {
	mux.HandleFunc("POST /api/contact", h.Submit)

	managerOnly := RequireRole(auth, domainauth.RoleManager)
	mux.Handle("GET /api/contact", managerOnly(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/contact/{id}", managerOnly(http.HandlerFunc(h.GetByID)))
	mux.Handle("POST /api/contact/{id}/read", managerOnly(http.HandlerFunc(h.MarkRead)))
	mux.Handle("DELETE /api/contact/{id}", managerOnly(http.HandlerFunc(h.Delete)))
}

// crudRoutes describes the standard CRUD handler set for a resource base path.
type crudRoutes struct {
	Base       string
	Create     http.HandlerFunc
	List       http.HandlerFunc
	GetByID    http.HandlerFunc
	Update     http.HandlerFunc
	Delete     http.HandlerFunc
	Middleware func(http.Handler) http.Handler
}

// registerCRUD registers standard CRUD routes for a resource, applying the
// middleware when non-nil.
func registerCRUD(mux *http.ServeMux, cfg crudRoutes) {
	if cfg.Base == "" {
		panic("registerCRUD: Base must not be empty") //nolint:forbidigo // Fail fast during server setup.
	}
	if cfg.Create == nil ||
		cfg.List == nil ||
		cfg.GetByID == nil ||
		cfg.Update == nil ||
		cfg.Delete == nil {
		panic("registerCRUD: nil handler for base " + cfg.Base) //nolint:forbidigo // Fail fast during server setup.
	}

	wrap := func(h http.HandlerFunc) http.Handler {
		if cfg.Middleware != nil {
			return cfg.Middleware(h)
		}
		return h
	}
	mux.Handle("POST "+cfg.Base, wrap(cfg.Create))
	mux.Handle("GET "+cfg.Base, wrap(cfg.List))
	mux.Handle("GET "+cfg.Base+"/{id}", wrap(cfg.GetByID))
	mux.Handle("PUT "+cfg.Base+"/{id}", wrap(cfg.Update))
	mux.Handle("DELETE "+cfg.Base+"/{id}", wrap(cfg.Delete))
}
