package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ellena02/hs-invoice-manager/pkg/database"
)

// redisStateRegistry stores states in Redis so the CSRF check holds
// across multiple server instances. Redis TTLs replace the sweep, and
// GETDEL gives atomic single-use consumption.
type redisStateRegistry struct {
	redis *database.Redis
	ttl   time.Duration
}

// NewRedisStateRegistry creates a Redis-backed state registry with the
// given validity window.
func NewRedisStateRegistry(rdb *database.Redis, ttl time.Duration) StateRegistry {
	return &redisStateRegistry{redis: rdb, ttl: ttl}
}

func (r *redisStateRegistry) key(state string) string {
	return "oauth:state:" + state
}

func (r *redisStateRegistry) Issue(ctx context.Context) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", err
	}

	if err := r.redis.Client.Set(ctx, r.key(state), time.Now().Unix(), r.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}

	return state, nil
}

func (r *redisStateRegistry) Consume(ctx context.Context, state string) error {
	err := r.redis.Client.GetDel(ctx, r.key(state)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrInvalidState
		}
		return fmt.Errorf("failed to consume oauth state: %w", err)
	}
	return nil
}
