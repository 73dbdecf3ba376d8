package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const stateLength = 32

const stateAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateState produces a uniformly distributed alphanumeric state from
// a cryptographically strong source. Rejection sampling keeps the
// distribution uniform over the 62-character alphabet.
func generateState() (string, error) {
	out := make([]byte, 0, stateLength)
	buf := make([]byte, stateLength*2)

	for len(out) < stateLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			// 248 is the largest multiple of 62 below 256.
			if b >= 248 {
				continue
			}
			out = append(out, stateAlphabet[int(b)%len(stateAlphabet)])
			if len(out) == stateLength {
				break
			}
		}
	}

	return string(out), nil
}

// memoryStateRegistry keeps states in a process-local TTL cache. The
// mutex serializes Consume so a state observed present is deleted by the
// same caller that observed it.
type memoryStateRegistry struct {
	mu    sync.Mutex
	cache *gocache.Cache
}

// NewMemoryStateRegistry creates an in-process state registry with the
// given validity window.
func NewMemoryStateRegistry(ttl time.Duration) StateRegistry {
	return &memoryStateRegistry{
		cache: gocache.New(ttl, gocache.NoExpiration),
	}
}

func (r *memoryStateRegistry) Issue(_ context.Context) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Opportunistic sweep bounds memory between issues.
	r.cache.DeleteExpired()
	r.cache.SetDefault(state, time.Now())

	return state, nil
}

func (r *memoryStateRegistry) Consume(_ context.Context, state string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, found := r.cache.Get(state)
	// Removed unconditionally: a state is single-use whether or not the
	// lookup succeeded.
	r.cache.Delete(state)

	if !found {
		return ErrInvalidState
	}
	return nil
}
