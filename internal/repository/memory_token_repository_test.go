package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ellena02/hs-invoice-manager/internal/domain"
)

func TestMemoryTokenRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTokenRepository()

	_, err := repo.GetByPortalID(ctx, "123")
	assert.ErrorIs(t, err, ErrNotFound)

	record := &domain.TokenRecord{
		PortalID:     "123",
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.Upsert(ctx, record))
	assert.NotEmpty(t, record.ID)

	got, err := repo.GetByPortalID(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, "access", got.AccessToken)
	assert.False(t, got.CreatedAt.IsZero())

	// Upsert replaces the stored record for the portal.
	record.AccessToken = "access-2"
	require.NoError(t, repo.Upsert(ctx, record))

	got, err = repo.GetByPortalID(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, "access-2", got.AccessToken)

	// Mutating the returned copy does not touch the stored record.
	got.AccessToken = "mutated"
	again, err := repo.GetByPortalID(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, "access-2", again.AccessToken)

	require.NoError(t, repo.DeleteByPortalID(ctx, "123"))
	require.NoError(t, repo.DeleteByPortalID(ctx, "123"))

	_, err = repo.GetByPortalID(ctx, "123")
	assert.ErrorIs(t, err, ErrNotFound)
}
