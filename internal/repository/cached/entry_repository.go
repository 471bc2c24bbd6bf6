// Package cached adds a read-through redis cache in front of an entry store.
package cached

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/honeynil/FinanceService/internal/infrastructure/observability"
	"github.com/honeynil/FinanceService/internal/infrastructure/redis"
	"github.com/honeynil/FinanceService/internal/models"
	"github.com/honeynil/FinanceService/internal/repository"
)

type EntryRepository struct {
	next  repository.EntryRepository
	cache redis.RedisClient
	ttl   time.Duration
}

func NewEntryRepository(next repository.EntryRepository, cache redis.RedisClient, ttl time.Duration) *EntryRepository {
	return &EntryRepository{next: next, cache: cache, ttl: ttl}
}

func entryKey(id int64) string {
	return fmt.Sprintf("entry:%d", id)
}

func (r *EntryRepository) Insert(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	return r.next.Insert(ctx, entry)
}

func (r *EntryRepository) Overwrite(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	stored, err := r.next.Overwrite(ctx, entry)
	if err != nil {
		return nil, err
	}
	r.evict(ctx, stored.ID)
	return stored, nil
}

func (r *EntryRepository) Remove(ctx context.Context, id int64) error {
	if err := r.next.Remove(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

// FindByID serves from the cache when possible. Cache failures degrade to
// the underlying store.
func (r *EntryRepository) FindByID(ctx context.Context, id int64) (*models.Entry, error) {
	key := entryKey(id)
	raw, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		var entry models.Entry
		if jsonErr := json.Unmarshal([]byte(raw), &entry); jsonErr == nil {
			observability.EntryCacheLookups.WithLabelValues("hit").Inc()
			return &entry, nil
		}
		slog.Error("failed to unmarshal cached entry", "entry_id", id)
	case !stderrors.Is(err, redis.ErrKeyNotFound):
		slog.Error("failed to read entry cache", "entry_id", id, "error", err)
	}
	observability.EntryCacheLookups.WithLabelValues("miss").Inc()

	entry, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(entry); err == nil {
		if err := r.cache.Set(ctx, key, string(data), r.ttl); err != nil {
			slog.Error("failed to cache entry", "entry_id", id, "error", err)
		}
	}
	return entry, nil
}

func (r *EntryRepository) FindByFilter(ctx context.Context, filter models.EntryFilter) ([]models.Entry, error) {
	return r.next.FindByFilter(ctx, filter)
}

func (r *EntryRepository) evict(ctx context.Context, id int64) {
	if err := r.cache.Del(ctx, entryKey(id)); err != nil {
		slog.Error("failed to evict cached entry", "entry_id", id, "error", err)
	}
}
