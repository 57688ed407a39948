package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"internhub/internal/filter"
	"internhub/internal/infrastructure/cache"
)

// ErrStoreUnavailable means the filter store could not persist a write.
var ErrStoreUnavailable = errors.New("filter store unavailable")

// JSONStore is the slice of the Redis cache the filter store needs.
type JSONStore interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type FilterStateRepository interface {
	Load(ctx context.Context, userID uuid.UUID) (filter.State, bool, error)
	Save(ctx context.Context, userID uuid.UUID, s filter.State) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

// RedisFilterStateRepository keeps one filter record per user under a fixed
// name. Writes replace the whole record and never expire.
type RedisFilterStateRepository struct {
	store JSONStore
}

func NewRedisFilterStateRepository(store JSONStore) *RedisFilterStateRepository {
	return &RedisFilterStateRepository{store: store}
}

func FilterStateKey(userID uuid.UUID) string {
	return "filters:" + userID.String() + ":internship_filters"
}

func (r *RedisFilterStateRepository) Load(ctx context.Context, userID uuid.UUID) (filter.State, bool, error) {
	var s filter.State
	ok, err := r.store.GetJSON(ctx, FilterStateKey(userID), &s)
	if err != nil || !ok {
		return filter.State{}, false, err
	}
	return s, true, nil
}

func (r *RedisFilterStateRepository) Save(ctx context.Context, userID uuid.UUID, s filter.State) error {
	return storeErr(r.store.SetJSON(ctx, FilterStateKey(userID), s, 0))
}

func (r *RedisFilterStateRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	return storeErr(r.store.Delete(ctx, FilterStateKey(userID)))
}

func storeErr(err error) error {
	if errors.Is(err, cache.ErrUnavailable) {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return err
}
