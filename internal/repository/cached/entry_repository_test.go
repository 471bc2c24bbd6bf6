package cached_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/honeynil/FinanceService/internal/infrastructure/redis"
	redismocks "github.com/honeynil/FinanceService/internal/infrastructure/redis/mocks"
	"github.com/honeynil/FinanceService/internal/models"
	"github.com/honeynil/FinanceService/internal/repository/cached"
	repositorymocks "github.com/honeynil/FinanceService/internal/repository/mocks"
	pkgerrors "github.com/honeynil/FinanceService/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const ttl = time.Minute

func storedEntry() *models.Entry {
	return &models.Entry{
		ID:          1,
		Description: "Coffee",
		Month:       2,
		Year:        2024,
		Value:       decimal.RequireFromString("3.50"),
		Type:        models.TypeExpense,
		Status:      models.StatusPending,
		UserID:      9,
	}
}

func TestEntryRepository_FindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("hit skips the store", func(t *testing.T) {
		next := new(repositorymocks.MockEntryRepository)
		cache := new(redismocks.MockRedisClient)
		repo := cached.NewEntryRepository(next, cache, ttl)

		data, err := json.Marshal(storedEntry())
		require.NoError(t, err)
		cache.On("Get", mock.Anything, "entry:1").Return(string(data), nil).Once()

		entry, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Coffee", entry.Description)
		assert.True(t, decimal.RequireFromString("3.50").Equal(entry.Value))
		next.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("miss reads through and fills", func(t *testing.T) {
		next := new(repositorymocks.MockEntryRepository)
		cache := new(redismocks.MockRedisClient)
		repo := cached.NewEntryRepository(next, cache, ttl)

		cache.On("Get", mock.Anything, "entry:1").Return("", redis.ErrKeyNotFound).Once()
		next.On("FindByID", mock.Anything, int64(1)).Return(storedEntry(), nil).Once()
		cache.On("Set", mock.Anything, "entry:1", mock.AnythingOfType("string"), ttl).Return(nil).Once()

		entry, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), entry.ID)
		cache.AssertExpectations(t)
		next.AssertExpectations(t)
	})

	t.Run("cache failure falls back to the store", func(t *testing.T) {
		next := new(repositorymocks.MockEntryRepository)
		cache := new(redismocks.MockRedisClient)
		repo := cached.NewEntryRepository(next, cache, ttl)

		cache.On("Get", mock.Anything, "entry:1").Return("", errors.New("connection refused")).Once()
		next.On("FindByID", mock.Anything, int64(1)).Return(storedEntry(), nil).Once()
		cache.On("Set", mock.Anything, "entry:1", mock.Anything, ttl).Return(errors.New("connection refused")).Once()

		entry, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), entry.ID)
	})

	t.Run("not found is not cached", func(t *testing.T) {
		next := new(repositorymocks.MockEntryRepository)
		cache := new(redismocks.MockRedisClient)
		repo := cached.NewEntryRepository(next, cache, ttl)

		cache.On("Get", mock.Anything, "entry:2").Return("", redis.ErrKeyNotFound).Once()
		next.On("FindByID", mock.Anything, int64(2)).Return(nil, pkgerrors.ErrEntryNotFound).Once()

		_, err := repo.FindByID(ctx, 2)
		assert.ErrorIs(t, err, pkgerrors.ErrEntryNotFound)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestEntryRepository_Invalidation(t *testing.T) {
	ctx := context.Background()

	t.Run("overwrite evicts", func(t *testing.T) {
		next := new(repositorymocks.MockEntryRepository)
		cache := new(redismocks.MockRedisClient)
		repo := cached.NewEntryRepository(next, cache, ttl)

		entry := storedEntry()
		next.On("Overwrite", mock.Anything, entry).Return(entry, nil).Once()
		cache.On("Del", mock.Anything, "entry:1").Return(nil).Once()

		_, err := repo.Overwrite(ctx, entry)
		require.NoError(t, err)
		cache.AssertExpectations(t)
	})

	t.Run("failed overwrite keeps the cache", func(t *testing.T) {
		next := new(repositorymocks.MockEntryRepository)
		cache := new(redismocks.MockRedisClient)
		repo := cached.NewEntryRepository(next, cache, ttl)

		entry := storedEntry()
		next.On("Overwrite", mock.Anything, entry).Return(nil, pkgerrors.ErrEntryNotFound).Once()

		_, err := repo.Overwrite(ctx, entry)
		assert.ErrorIs(t, err, pkgerrors.ErrEntryNotFound)
		cache.AssertNotCalled(t, "Del", mock.Anything, mock.Anything)
	})

	t.Run("remove evicts", func(t *testing.T) {
		next := new(repositorymocks.MockEntryRepository)
		cache := new(redismocks.MockRedisClient)
		repo := cached.NewEntryRepository(next, cache, ttl)

		next.On("Remove", mock.Anything, int64(1)).Return(nil).Once()
		cache.On("Del", mock.Anything, "entry:1").Return(errors.New("timeout")).Once()

		assert.NoError(t, repo.Remove(ctx, 1))
		cache.AssertExpectations(t)
	})
}
