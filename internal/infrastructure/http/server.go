package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stripe/stripe-go/v79"
	handlers "github.com/suburbmates/payment-service/internal/adapter/handler/http"
	"github.com/suburbmates/payment-service/internal/config"
	"github.com/suburbmates/payment-service/internal/infrastructure/database"
	"github.com/suburbmates/payment-service/internal/middleware/auth"
	"github.com/suburbmates/payment-service/internal/usecase"
	"github.com/suburbmates/payment-service/pkg/logger"
	"go.uber.org/zap"
)

type Server struct {
	config    *config.Config
	logger    *zap.Logger
	echo      *echo.Echo
	repos     *database.Repositories
	processor handlers.EventProcessor
	refunds   *usecase.RefundService
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func NewServer(
	cfg *config.Config,
	log *zap.Logger,
	repos *database.Repositories,
	processor handlers.EventProcessor,
	refunds *usecase.RefundService,
) *Server {
	e := echo.New()
	e.HideBanner = true

	// Initialize Stripe
	stripe.Key = cfg.Service.StripeSecretKey

	e.Validator = &requestValidator{validate: validator.New()}

	// Middleware
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	return &Server{
		config:    cfg,
		logger:    log,
		echo:      e,
		repos:     repos,
		processor: processor,
		refunds:   refunds,
	}
}

func (s *Server) Start() error {
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	// Initialize handlers
	webhookHandler := handlers.NewWebhookHandler(s.logger, s.config.Service.StripeWebhookSecret, s.processor)
	orderHandler := handlers.NewOrderHandler(s.repos.Order, s.logger)
	disputeHandler := handlers.NewDisputeHandler(s.repos.Dispute, s.logger)
	refundHandler := handlers.NewRefundRequestHandler(s.refunds, s.repos.RefundRequest, s.logger)

	// JWT middleware configuration
	jwtConfig := auth.JWTConfig{
		Secret: s.config.Auth.JWTSecret,
		Logger: s.logger,
		SkipPaths: []string{
			"/health",
			"/webhook",
		},
	}

	// API v1 routes (all require JWT authentication)
	v1 := s.echo.Group("/api/v1", auth.JWTMiddleware(jwtConfig))

	orders := v1.Group("/orders")
	orders.GET("", orderHandler.GetVendorOrders)
	orders.GET("/:id", orderHandler.GetOrder)
	orders.POST("/:id/refund-request", refundHandler.CreateRefundRequest)

	disputes := v1.Group("/disputes")
	disputes.GET("", disputeHandler.GetVendorDisputes)
	disputes.GET("/:id", disputeHandler.GetDispute)

	refunds := v1.Group("/refund-requests")
	refunds.GET("", refundHandler.GetVendorRefundRequests)
	refunds.POST("/:id/decision", refundHandler.DecideRefundRequest)

	// Webhook route (outside API versioning, signature-verified instead of JWT)
	s.echo.POST("/webhook", webhookHandler.HandleWebhook)
}
