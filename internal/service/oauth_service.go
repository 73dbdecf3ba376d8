package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ellena02/hs-invoice-manager/internal/config"
	"github.com/ellena02/hs-invoice-manager/internal/domain"
	"github.com/ellena02/hs-invoice-manager/internal/repository"
	"github.com/ellena02/hs-invoice-manager/pkg/hubspot"
)

// oauthService implements OAuthService
type oauthService struct {
	cfg       config.HubSpotConfig
	hs        *hubspot.Client
	tokenRepo repository.TokenRepository
	states    StateRegistry
	logger    *zap.Logger
	now       func() time.Time

	// refreshGroup collapses concurrent refresh attempts for the same
	// portal into a single provider call.
	refreshGroup singleflight.Group
}

// NewOAuthService creates a new OAuth session manager
func NewOAuthService(
	cfg config.HubSpotConfig,
	hs *hubspot.Client,
	tokenRepo repository.TokenRepository,
	states StateRegistry,
	logger *zap.Logger,
) OAuthService {
	return &oauthService{
		cfg:       cfg,
		hs:        hs,
		tokenRepo: tokenRepo,
		states:    states,
		logger:    logger,
		now:       time.Now,
	}
}

// AuthorizeURL issues a CSRF state and builds the provider authorization
// URL the user is redirected to.
func (s *oauthService) AuthorizeURL(ctx context.Context) (string, error) {
	if !s.cfg.OAuthConfigured() {
		return "", fmt.Errorf("missing HUBSPOT_CLIENT_ID, HUBSPOT_CLIENT_SECRET or HUBSPOT_REDIRECT_URL: %w", ErrNotConfigured)
	}

	state, err := s.states.Issue(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to issue oauth state: %w", err)
	}

	return s.hs.AuthorizeURL(s.cfg.Scopes, state), nil
}

// CompleteCallback validates the CSRF state, exchanges the authorization
// code, recovers the portal id from the token metadata and persists the
// token record. Any step failure is terminal for this attempt; the user
// re-initiates the flow.
func (s *oauthService) CompleteCallback(ctx context.Context, code, state string) (string, error) {
	if !s.cfg.OAuthConfigured() {
		return "", fmt.Errorf("missing HUBSPOT_CLIENT_ID, HUBSPOT_CLIENT_SECRET or HUBSPOT_REDIRECT_URL: %w", ErrNotConfigured)
	}

	if err := s.states.Consume(ctx, state); err != nil {
		return "", err
	}

	token, err := s.hs.ExchangeCode(ctx, code)
	if err != nil {
		return "", fmt.Errorf("authorization code exchange failed: %w", err)
	}

	info, err := s.hs.AccessTokenInfo(ctx, token.AccessToken)
	if err != nil {
		return "", fmt.Errorf("failed to resolve portal from access token: %w", err)
	}
	portalID := strconv.FormatInt(info.HubID, 10)

	record := &domain.TokenRecord{
		PortalID:     portalID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    s.now().Add(time.Duration(token.ExpiresIn) * time.Second),
	}
	if err := s.tokenRepo.Upsert(ctx, record); err != nil {
		return "", fmt.Errorf("failed to persist token: %w", err)
	}

	s.logger.Info("Portal connected",
		zap.String("portal_id", portalID),
		zap.Time("expires_at", record.ExpiresAt),
	)

	return portalID, nil
}

// Status reports the stored connection state without provider calls.
func (s *oauthService) Status(ctx context.Context, portalID string) (*ConnectionStatus, error) {
	status := &ConnectionStatus{StaticFallback: s.cfg.StaticToken != ""}

	if portalID == "" {
		return status, nil
	}

	record, err := s.tokenRepo.GetByPortalID(ctx, portalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return status, nil
		}
		return nil, err
	}

	status.Connected = true
	status.PortalID = record.PortalID
	status.ExpiresAt = &record.ExpiresAt
	return status, nil
}

// Disconnect removes the stored token for a portal. Idempotent.
func (s *oauthService) Disconnect(ctx context.Context, portalID string) error {
	if portalID == "" {
		return ErrMissingIdentifier
	}
	if err := s.tokenRepo.DeleteByPortalID(ctx, portalID); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	s.logger.Info("Portal disconnected", zap.String("portal_id", portalID))
	return nil
}

// ResolveGateway returns an authenticated CRM gateway for the portal.
// A stale token is refreshed first; a failed refresh evicts the record
// so subsequent requests fail fast with ErrNotConnected instead of
// retrying a dead refresh token.
func (s *oauthService) ResolveGateway(ctx context.Context, portalID string) (hubspot.Gateway, error) {
	if portalID == "" {
		return s.staticFallback()
	}

	record, err := s.tokenRepo.GetByPortalID(ctx, portalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.staticFallback()
		}
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	if record.Fresh(s.now()) {
		return s.hs.Authed(record.AccessToken), nil
	}

	accessToken, err := s.refresh(ctx, portalID)
	if err != nil {
		return nil, err
	}
	return s.hs.Authed(accessToken), nil
}

func (s *oauthService) staticFallback() (hubspot.Gateway, error) {
	if s.cfg.StaticToken == "" {
		return nil, ErrNotConnected
	}
	return s.hs.Authed(s.cfg.StaticToken), nil
}

// refresh exchanges the stored refresh token for a new pair. Concurrent
// callers for the same portal share one flight, so a stale token causes
// exactly one provider refresh call.
func (s *oauthService) refresh(ctx context.Context, portalID string) (string, error) {
	token, err, _ := s.refreshGroup.Do(portalID, func() (any, error) {
		// Re-read inside the flight: a request queued behind a completed
		// refresh must not refresh again.
		record, err := s.tokenRepo.GetByPortalID(ctx, portalID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "", ErrNotConnected
			}
			return "", fmt.Errorf("failed to load token: %w", err)
		}
		if record.Fresh(s.now()) {
			return record.AccessToken, nil
		}

		refreshed, err := s.hs.RefreshToken(ctx, record.RefreshToken)
		if err != nil {
			// A dead refresh token does not self-heal. Evict the record
			// so the portal reads as "not connected" until the user
			// re-authorizes, instead of hot-looping failed refreshes.
			s.logger.Warn("Token refresh failed, evicting record",
				zap.String("portal_id", portalID),
				zap.Error(err),
			)
			if delErr := s.tokenRepo.DeleteByPortalID(ctx, portalID); delErr != nil {
				s.logger.Error("Failed to evict stale token record",
					zap.String("portal_id", portalID),
					zap.Error(delErr),
				)
			}
			return "", fmt.Errorf("token refresh failed: %w", ErrNotConnected)
		}

		record.AccessToken = refreshed.AccessToken
		if refreshed.RefreshToken != "" {
			record.RefreshToken = refreshed.RefreshToken
		}
		record.ExpiresAt = s.now().Add(time.Duration(refreshed.ExpiresIn) * time.Second)

		if err := s.tokenRepo.Upsert(ctx, record); err != nil {
			return "", fmt.Errorf("failed to persist refreshed token: %w", err)
		}

		s.logger.Info("Token refreshed",
			zap.String("portal_id", portalID),
			zap.Time("expires_at", record.ExpiresAt),
		)

		return record.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}
