// Package redis keeps preferences in a Redis hash.
package redis

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"

	"github.com/dtroode/pokedex-client/internal/model"
)

var _ model.PreferenceStore = (*PreferenceStore)(nil)

// PreferenceStore stores every preference as a field of the hash "prefs:<namespace>".
type PreferenceStore struct {
	client redis.Cmdable
	hash   string
}

// NewPreferenceStore creates a store scoped to namespace.
func NewPreferenceStore(client redis.Cmdable, namespace string) *PreferenceStore {
	return &PreferenceStore{
		client: client,
		hash:   "prefs:" + namespace,
	}
}

func (s *PreferenceStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.HGet(ctx, s.hash, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to get preference: %w", err)
	}
	return v, nil
}

// Set writes all values with a single HSET, so they appear together.
func (s *PreferenceStore) Set(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	args := make([]any, 0, len(values)*2)
	for _, k := range keys {
		args = append(args, k, values[k])
	}

	if err := s.client.HSet(ctx, s.hash, args...).Err(); err != nil {
		return fmt.Errorf("failed to set preferences: %w", err)
	}
	return nil
}

func (s *PreferenceStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := s.client.HDel(ctx, s.hash, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete preferences: %w", err)
	}
	return nil
}
