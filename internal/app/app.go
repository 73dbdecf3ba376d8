package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/ellena02/hs-invoice-manager/internal/config"
	"github.com/ellena02/hs-invoice-manager/internal/handler"
	"github.com/ellena02/hs-invoice-manager/internal/repository"
	"github.com/ellena02/hs-invoice-manager/internal/service"
	"github.com/ellena02/hs-invoice-manager/internal/utils"
	"github.com/ellena02/hs-invoice-manager/pkg/hubspot"
	"github.com/ellena02/hs-invoice-manager/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	repos := repository.NewRepositories(infra.Postgres())

	hsClient := hubspot.NewClient(hubspot.Config{
		ClientID:     cfg.HubSpot.ClientID,
		ClientSecret: cfg.HubSpot.ClientSecret,
		RedirectURL:  cfg.HubSpot.RedirectURL,
		AuthURL:      cfg.HubSpot.AuthURL,
		APIBaseURL:   cfg.HubSpot.APIBaseURL,
		Timeout:      cfg.HubSpot.CallTimeout.Duration,
	})

	var states service.StateRegistry
	var rateLimiter *service.RateLimiter
	if infra.Redis() != nil {
		states = service.NewRedisStateRegistry(infra.Redis(), cfg.Security.StateTTL.Duration)
		rateLimiter = service.NewRateLimiter(infra.Redis())
	} else {
		states = service.NewMemoryStateRegistry(cfg.Security.StateTTL.Duration)
	}

	sessions := utils.NewSessionManager(cfg.Session.Secret, cfg.Session.TTL.Duration)
	healthChecker := NewHealthChecker(infra, cfg)

	oauthService := service.NewOAuthService(cfg.HubSpot, hsClient, repos.Token, states, infra.Logger())
	invoiceService := service.NewInvoiceService(oauthService, infra.Logger())

	authHandler := handler.NewAuthHandler(oauthService, sessions)
	companyHandler := handler.NewCompanyHandler(invoiceService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)

	router := gin.Default()
	router.Use(otelgin.Middleware("hs-invoice-manager"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))
	router.Use(handler.PortalMiddleware(sessions))

	setupRoutes(router, cfg, authHandler, companyHandler, invoiceHandler, rateLimiter, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	companyHandler *handler.CompanyHandler,
	invoiceHandler *handler.InvoiceHandler,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	auth := router.Group("/auth")
	{
		limited := handler.RateLimitMiddleware(rateLimiter,
			cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.IPBasedKey)

		auth.GET("/start", limited, authHandler.Start)
		auth.GET("/callback", limited, authHandler.Callback)
		auth.GET("/status", authHandler.Status)
		auth.POST("/disconnect", authHandler.Disconnect)
	}

	companies := router.Group("/companies")
	{
		companies.GET("/:id", companyHandler.Get)
		companies.POST("/:id/bad-debt", companyHandler.SetBadDebt)
		companies.POST("/:id/invoices/:invId/archive", companyHandler.ArchiveInvoice)
		companies.POST("/:id/archive-overdue-invoices", companyHandler.ArchiveOverdueInvoices)
	}

	router.POST("/invoices/bad-debt", invoiceHandler.CascadeBadDebt)
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
