package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ellena02/hs-invoice-manager/internal/domain"
)

// memoryTokenRepository keeps token records in process memory. Used when
// no Postgres is configured and in tests. Records do not survive a
// restart, which is an accepted trade-off for single-instance setups.
type memoryTokenRepository struct {
	mu      sync.RWMutex
	records map[string]domain.TokenRecord
}

// NewMemoryTokenRepository creates an in-memory token repository
func NewMemoryTokenRepository() TokenRepository {
	return &memoryTokenRepository{records: make(map[string]domain.TokenRecord)}
}

func (r *memoryTokenRepository) GetByPortalID(_ context.Context, portalID string) (*domain.TokenRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[portalID]
	if !ok {
		return nil, fmt.Errorf("token for portal %s: %w", portalID, ErrNotFound)
	}
	// Copy so callers cannot mutate the stored record.
	out := record
	return &out, nil
}

func (r *memoryTokenRepository) Upsert(_ context.Context, record *domain.TokenRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	r.records[record.PortalID] = *record
	return nil
}

func (r *memoryTokenRepository) DeleteByPortalID(_ context.Context, portalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, portalID)
	return nil
}
