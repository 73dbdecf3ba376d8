package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateState(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		state, err := generateState()
		require.NoError(t, err)

		assert.Len(t, state, stateLength)
		for _, r := range state {
			assert.True(t,
				(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
				"state must be alphanumeric, got %q", r)
		}

		assert.False(t, seen[state], "states must not repeat")
		seen[state] = true
	}
}

func TestMemoryStateRegistryConsume(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryStateRegistry(10 * time.Minute)

	state, err := registry.Issue(ctx)
	require.NoError(t, err)

	assert.NoError(t, registry.Consume(ctx, state))
}

func TestMemoryStateRegistrySingleUse(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryStateRegistry(10 * time.Minute)

	state, err := registry.Issue(ctx)
	require.NoError(t, err)

	require.NoError(t, registry.Consume(ctx, state))
	// Second consumption always reports invalid.
	assert.ErrorIs(t, registry.Consume(ctx, state), ErrInvalidState)
}

func TestMemoryStateRegistryUnknownState(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryStateRegistry(10 * time.Minute)

	assert.ErrorIs(t, registry.Consume(ctx, "never-issued"), ErrInvalidState)
}

func TestMemoryStateRegistryExpiry(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryStateRegistry(20 * time.Millisecond)

	state, err := registry.Issue(ctx)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	assert.ErrorIs(t, registry.Consume(ctx, state), ErrInvalidState)
}
