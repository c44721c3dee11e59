package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisad "staff_reviews/internal/adapters/redis"
	"staff_reviews/internal/app"
	"staff_reviews/internal/domain"
)

func TestEmployeeDirectory_CRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.employees.Create(ctx, "Ana", "Designer")
	require.NoError(t, err)
	assert.Positive(t, e.ID)

	got, err := f.employees.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, *e, *got)

	_, err = f.employees.Get(ctx, e.ID+1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	missing, err := f.employees.FindByID(ctx, e.ID+1)
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := f.employees.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, f.employees.Delete(ctx, e.ID))
	all, err = f.employees.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestEmployeeDirectory_CreateValidates(t *testing.T) {
	f := newFixture(t)
	_, err := f.employees.Create(context.Background(), "", "Designer")
	assert.ErrorIs(t, err, domain.ErrInvalidEmployeeRecord)
	assert.True(t, domain.IsValidation(err))
}

// countingStore counts GetEmployee calls that reach storage.
type countingStore struct {
	domain.EmployeeStore
	gets int
}

func (c *countingStore) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	c.gets++
	return c.EmployeeStore.GetEmployee(ctx, id)
}

func TestEmployeeDirectory_RedisReadThrough(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	cache := redisad.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	store := &countingStore{EmployeeStore: f.store}
	dir := app.NewEmployeeDirectory(store, cache, 10*time.Minute)

	e, err := dir.Create(ctx, "Lee", "Manager")
	require.NoError(t, err)

	// miss, then served from cache
	for i := 0; i < 3; i++ {
		got, err := dir.FindByID(ctx, e.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Lee", got.Name)
	}
	assert.Equal(t, 1, store.gets)
	assert.True(t, mr.Exists("employee:1"))
	assert.Equal(t, 10*time.Minute, mr.TTL("employee:1"))

	// misses are not cached
	_, err = dir.FindByID(ctx, 999)
	require.NoError(t, err)
	_, err = dir.FindByID(ctx, 999)
	require.NoError(t, err)
	assert.Equal(t, 3, store.gets)
	assert.False(t, mr.Exists("employee:999"))

	require.NoError(t, dir.Delete(ctx, e.ID))
	assert.False(t, mr.Exists("employee:1"))

	gone, err := dir.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestEmployeeDirectory_CacheOutageFallsBackToStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	cache := redisad.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}))
	dir := app.NewEmployeeDirectory(f.store, cache, time.Minute)

	e, err := dir.Create(ctx, "Lee", "Manager")
	require.NoError(t, err)
	mr.Close()

	got, err := dir.FindByID(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, e.ID, got.ID)
}

// brokenEmployeeStore fails every lookup.
type brokenEmployeeStore struct {
	domain.EmployeeStore
}

func (brokenEmployeeStore) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	return nil, errors.New("db down")
}

func TestEmployeeDirectory_StoreErrorIsNotAMiss(t *testing.T) {
	dir := app.NewEmployeeDirectory(brokenEmployeeStore{}, nil, time.Minute)
	_, err := dir.FindByID(context.Background(), 1)
	require.Error(t, err)

	// and it surfaces through the review setter unchanged
	_, err = domain.NewReview(context.Background(), dir, 2021, "ok", 1)
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrInvalidEmployee))
}
