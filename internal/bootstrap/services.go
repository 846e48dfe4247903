package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/rodaworks/academy/config"
	"github.com/rodaworks/academy/internal/adapters/objectstore"
	"github.com/rodaworks/academy/internal/data"
	"github.com/rodaworks/academy/internal/domain/model"
	"github.com/rodaworks/academy/internal/observability/notify/slack"
	"github.com/rodaworks/academy/internal/observability/statsd"
	"github.com/rodaworks/academy/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth     *service.AuthService
	Users    *service.UserService
	Events   *service.EventService
	Products *service.ProductService
	Orders   *service.OrderService
	Payments *service.PaymentService
	Gallery  *service.GalleryService
	Contact  *service.ContactService
	Stats    *service.StatsService

	Objects       *objectstore.MinioStore
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink   statsd.Sink
	MetricsClient *statsd.Client // nil when metrics are disabled
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildServices wires repositories, adapters, and services from config.
func BuildServices(deps *ServiceDeps) (ServiceContainer, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	userRepo := data.NewUserRepo(deps.DB)
	eventRepo := data.NewEventRepo(deps.DB)
	productRepo := data.NewProductRepo(deps.DB)
	orderRepo := data.NewOrderRepo(deps.DB)
	galleryRepo := data.NewGalleryRepo(deps.DB)
	contactRepo := data.NewContactRepo(deps.DB)

	auth, err := BuildAuthService(AuthDeps{
		Auth:        cfg.Auth,
		Redis:       cfg.Redis,
		IsDev:       cfg.IsDev,
		Users:       userRepo,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
	}

	objects, err := objectstore.NewMinioStore(objectstore.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build object store: %w", err)
	}

	mapping, err := paymentMappingFromConfig(cfg.Payments)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build payment mapping: %w", err)
	}
	payments, err := service.NewPaymentService(service.PaymentServiceOptions{
		Orders:  orderRepo,
		Mapping: mapping,
		Logger:  logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build payment service: %w", err)
	}

	notifier, err := buildContactNotifier(cfg, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	obs, err := buildObservability(cfg.Observability.Metrics, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	contactOpts := service.ContactServiceOptions{Messages: contactRepo, Logger: logger}
	if notifier != nil {
		contactOpts.Notifier = notifier
	}

	return ServiceContainer{
		Auth:     auth,
		Users:    service.NewUserService(service.UserServiceOptions{Users: userRepo}),
		Events:   service.NewEventService(service.EventServiceOptions{Events: eventRepo}),
		Products: service.NewProductService(service.ProductServiceOptions{Products: productRepo}),
		Orders: service.NewOrderService(service.OrderServiceOptions{
			Orders:   orderRepo,
			Products: productRepo,
		}),
		Payments: payments,
		Gallery: service.NewGalleryService(service.GalleryServiceOptions{
			Images:  galleryRepo,
			Objects: objects,
			Logger:  logger,
		}),
		Contact: service.NewContactService(contactOpts),
		Stats: service.NewStatsService(service.StatsServiceOptions{
			Users:    userRepo,
			Events:   eventRepo,
			Orders:   orderRepo,
			Gallery:  galleryRepo,
			Messages: contactRepo,
		}),
		Objects:       objects,
		Observability: obs,
	}, nil
}

// paymentMappingFromConfig translates the env-driven webhook mapping into
// service terms, rejecting status values the order model does not know.
func paymentMappingFromConfig(cfg config.PaymentsConfig) (service.PaymentMapping, error) {
	statusMap := make(map[string]model.OrderStatus, len(cfg.StatusMap))
	for provider, ours := range cfg.StatusMap {
		status, ok := model.ParseOrderStatus(ours)
		if !ok {
			return service.PaymentMapping{}, fmt.Errorf("unknown order status %q for provider status %q", ours, provider)
		}
		statusMap[provider] = status
	}

	return service.PaymentMapping{
		ProviderRef: cfg.ProviderRefExpr,
		OrderID:     cfg.OrderIDExpr,
		Status:      cfg.StatusExpr,
		AmountCents: cfg.AmountExpr,
		StatusMap:   statusMap,
	}, nil
}

// buildContactNotifier returns nil when Slack notifications are disabled;
// the contact service treats a nil notifier as a no-op.
func buildContactNotifier(cfg *config.AppConfig, logger *slog.Logger) (*slack.Client, error) {
	notifications := cfg.Observability.Notifications
	if !notifications.Slack.Enabled {
		return nil, nil
	}

	client, err := slack.NewClient(slack.Config{
		WebhookURL:     notifications.Slack.WebhookURL,
		Channel:        notifications.Slack.Channel,
		Username:       notifications.Slack.Username,
		Timeout:        notifications.Timeout,
		RetryLimit:     notifications.RetryLimit,
		InboxURLPrefix: cfg.HTTP.BaseURL + "/admin/inbox",
	})
	if err != nil {
		return nil, fmt.Errorf("build slack notifier: %w", err)
	}

	logger.Info("slack contact notifications enabled", "channel", notifications.Slack.Channel)
	return client, nil
}

func buildObservability(cfg config.ObservabilityMetricsConfig, logger *slog.Logger) (ObservabilityContainer, error) {
	if !cfg.IsEnabled() {
		return ObservabilityContainer{MetricsSink: statsd.Nop{}}, nil
	}

	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		return ObservabilityContainer{}, fmt.Errorf("build statsd client: %w", err)
	}

	logger.Info("statsd metrics enabled", "address", cfg.StatsdAddress, "prefix", cfg.Prefix)
	return ObservabilityContainer{MetricsSink: client, MetricsClient: client}, nil
}
