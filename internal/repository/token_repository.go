package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ellena02/hs-invoice-manager/internal/domain"
	"github.com/ellena02/hs-invoice-manager/pkg/database"
)

// tokenRepository implements TokenRepository over PostgreSQL
type tokenRepository struct {
	db *database.Postgres
}

// NewTokenRepository creates a new Postgres-backed token repository
func NewTokenRepository(db *database.Postgres) TokenRepository {
	return &tokenRepository{db: db}
}

// GetByPortalID retrieves the token record for a portal
func (r *tokenRepository) GetByPortalID(ctx context.Context, portalID string) (*domain.TokenRecord, error) {
	query := `
		SELECT id, portal_id, access_token, refresh_token, expires_at, created_at, updated_at
		FROM hs_tokens
		WHERE portal_id = $1
	`

	record := &domain.TokenRecord{}
	err := r.db.DB.QueryRowContext(ctx, query, portalID).Scan(
		&record.ID,
		&record.PortalID,
		&record.AccessToken,
		&record.RefreshToken,
		&record.ExpiresAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("token for portal %s: %w", portalID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get token by portal id: %w", err)
	}

	return record, nil
}

// Upsert creates or fully replaces the token record for a portal
func (r *tokenRepository) Upsert(ctx context.Context, record *domain.TokenRecord) error {
	query := `
		INSERT INTO hs_tokens (id, portal_id, access_token, refresh_token, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (portal_id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at
	`

	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	_, err := r.db.DB.ExecContext(ctx, query,
		record.ID,
		record.PortalID,
		record.AccessToken,
		record.RefreshToken,
		record.ExpiresAt,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert token: %w", err)
	}

	return nil
}

// DeleteByPortalID deletes the token record for a portal. Deleting an
// absent record is not an error.
func (r *tokenRepository) DeleteByPortalID(ctx context.Context, portalID string) error {
	query := `DELETE FROM hs_tokens WHERE portal_id = $1`

	if _, err := r.db.DB.ExecContext(ctx, query, portalID); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	return nil
}
