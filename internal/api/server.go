package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/femmepacker/server/internal/config"
	"github.com/femmepacker/server/internal/events"
	"github.com/femmepacker/server/internal/ledger"
	"github.com/femmepacker/server/internal/models"
	"github.com/femmepacker/server/internal/quota"
)

type ProfileStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Create(ctx context.Context, p *models.Profile) error
	Update(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.Profile, error)
}

type SubscriptionStore interface {
	EnsureSubscription(ctx context.Context, userID string) (*models.UserSubscription, error)
	SetTier(ctx context.Context, userID string, tier models.Tier, billingRef string, nextBilling *time.Time) (*models.UserSubscription, error)
}

type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
}

type MapStore interface {
	Create(ctx context.Context, m *models.UserMap) error
	ListPublic(ctx context.Context) ([]models.UserMap, error)
	ListByUser(ctx context.Context, userID string) ([]models.UserMap, error)
}

// Deps are the collaborators the HTTP layer delegates to.
type Deps struct {
	Profiles      ProfileStore
	Subscriptions SubscriptionStore
	Messages      MessageStore
	Maps          MapStore
	Quota         *quota.Tracker
	Ledger        *ledger.Ledger
	Publisher     events.Publisher
	Logger        *slog.Logger
	// Registry receives the server's metrics. A private registry is created
	// when nil.
	Registry *prometheus.Registry
}

type Server struct {
	app           *fiber.App
	cfg           *config.Config
	logger        *slog.Logger
	profiles      ProfileStore
	subscriptions SubscriptionStore
	messages      MessageStore
	maps          MapStore
	tracker       *quota.Tracker
	ledger        *ledger.Ledger
	publisher     events.Publisher
	metrics       *metrics
	registry      *prometheus.Registry
}

func NewServer(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}

	m, err := newMetrics(deps.Registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName: "femmepacker",
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status}\n",
	}))
	// limiter treats Max 0 as its own default, so zero disables it here.
	if cfg.Server.MaxRequests > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.Server.MaxRequests,
			Expiration: cfg.Server.RequestTimeout,
		}))
	}

	server := &Server{
		app:           app,
		cfg:           cfg,
		logger:        deps.Logger,
		profiles:      deps.Profiles,
		subscriptions: deps.Subscriptions,
		messages:      deps.Messages,
		maps:          deps.Maps,
		tracker:       deps.Quota,
		ledger:        deps.Ledger,
		publisher:     deps.Publisher,
		metrics:       m,
		registry:      deps.Registry,
	}

	// Routes
	server.setupRoutes()

	return server, nil
}

func (s *Server) setupRoutes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := s.app.Group("/api")

	// Public routes
	if !s.cfg.IsProduction() {
		api.Post("/session", s.handleCreateSession)
	}

	// Everything below acts on behalf of the caller.
	api.Use(s.defaultIdentity, s.tokenIdentity())

	api.Get("/profile", s.handleGetProfile)
	api.Post("/profile", s.handleCreateProfile)
	api.Patch("/profile", s.handleUpdateProfile)
	api.Get("/profiles/:id", s.handleGetProfileByID)

	api.Get("/hosts/match", s.handleMatchHosts)

	api.Get("/quota", s.handleGetQuota)
	api.Post("/messages/send-to-host", s.handleSendToHost)
	api.Post("/messages/send-to-ai", s.handleSendToAI)

	api.Get("/subscription", s.handleGetSubscription)
	// Tier changes come from the billing provider. In production they need
	// the shared secret; without one the route does not exist.
	if !s.cfg.IsProduction() || s.cfg.Billing.WebhookSecret != "" {
		api.Put("/subscription", s.requireBillingSecret, s.handleUpdateSubscription)
	}

	api.Post("/hosting-requests", s.handleCreateHostingRequest)
	api.Get("/hosting-requests", s.handleListHostingRequests)
	api.Patch("/hosting-requests/:id/status", s.handleUpdateHostingRequestStatus)

	api.Post("/reviews", s.handleCreateReview)
	api.Get("/reviews/:hostId", s.handleListReviews)

	api.Post("/user-maps", s.handleCreateMap)
	api.Get("/user-maps", cache.New(cache.Config{
		Expiration:   s.cfg.Server.CacheExpiration,
		CacheControl: true,
	}), s.handleListPublicMaps)
	api.Get("/user-maps/mine", s.handleListMyMaps)
}

func (s *Server) Start() error {
	return s.app.Listen(s.cfg.Server.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
