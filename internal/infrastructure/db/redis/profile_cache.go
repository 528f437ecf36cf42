package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/userauth/auth-service/internal/core/domain"
)

const profileTTL = 5 * time.Minute

// ProfileCache stores hash-free user snapshots keyed by ID, so repeated
// profile reads of an authenticated subject skip the database. Entries are
// invalidated on any profile or credential change.
// Key format: profile:<user_id>
type ProfileCache struct {
	client *redis.Client
}

func NewProfileCache(client *redis.Client) *ProfileCache {
	return &ProfileCache{client: client}
}

// Get returns the cached user, or (nil, nil) on a miss.
func (c *ProfileCache) Get(ctx context.Context, id string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("profile cache get: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		// Unreadable entry: drop it and treat as a miss.
		_ = c.client.Del(ctx, c.key(id)).Err()
		return nil, nil
	}
	return &user, nil
}

func (c *ProfileCache) Set(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("profile cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(user.ID), raw, profileTTL).Err()
}

func (c *ProfileCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

func (c *ProfileCache) key(id string) string {
	return "profile:" + id
}
