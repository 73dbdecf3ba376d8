package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ellena02/hs-invoice-manager/internal/config"
	"github.com/ellena02/hs-invoice-manager/internal/dto"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker reports process liveness, storage reachability and
// which HubSpot credentials are configured. Never calls the CRM.
type HealthChecker struct {
	infra Infrastructure
	cfg   *config.Config
}

func NewHealthChecker(infra Infrastructure, cfg *config.Config) *HealthChecker {
	return &HealthChecker{
		infra: infra,
		cfg:   cfg,
	}
}

func (h *HealthChecker) check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		if h.infra.Postgres() != nil {
			errs <- h.infra.Postgres().PingContext(ctx)
			return
		}
		errs <- nil
	}()

	go func() {
		if h.infra.Redis() != nil {
			errs <- h.infra.Redis().Ping(ctx)
			return
		}
		errs <- nil
	}()

	return errors.Join(<-errs, <-errs)
}

func (h *HealthChecker) Handler(c *gin.Context) {
	resp := dto.HealthResponse{
		Status:          "pass",
		OAuthConfigured: h.cfg.HubSpot.OAuthConfigured(),
		StaticFallback:  h.cfg.HubSpot.StaticToken != "",
		RedirectURLSet:  h.cfg.HubSpot.RedirectURL != "",
		Storage: map[string]bool{
			"postgres": h.infra.Postgres() != nil,
			"redis":    h.infra.Redis() != nil,
		},
	}

	if err := h.check(c.Request.Context()); err != nil {
		resp.Status = "fail"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}
