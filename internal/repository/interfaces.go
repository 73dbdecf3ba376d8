package repository

import (
	"context"

	"github.com/ellena02/hs-invoice-manager/internal/domain"
)

// TokenRepository defines methods for the per-portal OAuth token store.
// Writes are full-record upserts keyed by portal id; refresh is driven
// from a single serialized point per portal, so last-write-wins is
// acceptable here.
type TokenRepository interface {
	GetByPortalID(ctx context.Context, portalID string) (*domain.TokenRecord, error)
	Upsert(ctx context.Context, record *domain.TokenRecord) error
	// DeleteByPortalID is idempotent: deleting an absent record succeeds.
	DeleteByPortalID(ctx context.Context, portalID string) error
}
