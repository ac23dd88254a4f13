package cache

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/internal/searcher/ranker"
	pkgredis "github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/resilience"
)

type memStore struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (s *memStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	v, ok := s.data[key]
	if !ok {
		return "", pkgredis.Nil
	}
	return v, nil
}

func (s *memStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	switch v := value.(type) {
	case []byte:
		s.data[key] = string(v)
	case string:
		s.data[key] = v
	}
	return nil
}

func (s *memStore) FlushByPattern(_ context.Context, pattern string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k := range s.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(s.data, k)
			n++
		}
	}
	return n, nil
}

func plan(q string) *parser.QueryPlan {
	return parser.Parse(q, tokenizer.New(nil))
}

func result(q string) *executor.SearchResult {
	return &executor.SearchResult{
		Query:     q,
		TotalHits: 1,
		Results:   []ranker.ScoredDoc{{DocID: "D1", Count: 2, Score: 0.5}},
	}
}

var _ Store = (*pkgredis.Client)(nil)

func TestRedisMissIsNil(t *testing.T) {
	assert.True(t, pkgredis.IsNilError(pkgredis.Nil))
	assert.True(t, pkgredis.IsNilError(fmt.Errorf("get search:abc: %w", pkgredis.Nil)))
	assert.False(t, pkgredis.IsNilError(errors.New("connection refused")))
}

func TestGetMissThenHit(t *testing.T) {
	c := New(newMemStore(), time.Minute)
	ctx := context.Background()
	p := plan("market")

	_, ok := c.Get(ctx, p, executor.Options{Limit: 15})
	assert.False(t, ok)

	c.Set(ctx, p, executor.Options{Limit: 15}, result("market"))
	got, ok := c.Get(ctx, p, executor.Options{Limit: 15})
	require.True(t, ok)
	assert.Equal(t, "D1", got.Results[0].DocID)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestKeyDependsOnPlanLimitAndOrder(t *testing.T) {
	c := New(newMemStore(), time.Minute)
	ctx := context.Background()
	c.Set(ctx, plan("running"), executor.Options{Limit: 15}, result("running"))

	_, ok := c.Get(ctx, plan("Runs"), executor.Options{Limit: 15})
	assert.True(t, ok, "equivalent plans share a key")
	_, ok = c.Get(ctx, plan("running"), executor.Options{Limit: 5})
	assert.False(t, ok)
	_, ok = c.Get(ctx, plan("running"), executor.Options{Limit: 15, Order: "score"})
	assert.False(t, ok)
}

func TestGetOrComputeCallsOnce(t *testing.T) {
	c := New(newMemStore(), time.Minute)
	ctx := context.Background()
	var calls atomic.Int32
	compute := func() (*executor.SearchResult, error) {
		calls.Add(1)
		return result("market"), nil
	}

	_, hit, err := c.GetOrCompute(ctx, plan("market"), executor.Options{}, compute)
	require.NoError(t, err)
	assert.False(t, hit)

	got, hit, err := c.GetOrCompute(ctx, plan("market"), executor.Options{}, compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "market", got.Query)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetOrComputePropagatesError(t *testing.T) {
	c := New(newMemStore(), time.Minute)
	boom := errors.New("boom")
	_, _, err := c.GetOrCompute(context.Background(), plan("market"), executor.Options{}, func() (*executor.SearchResult, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestStoreFailureIsAMiss(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("connection refused")
	c := New(store, time.Minute)

	got, hit, err := c.GetOrCompute(context.Background(), plan("market"), executor.Options{}, func() (*executor.SearchResult, error) {
		return result("market"), nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "market", got.Query)
}

func TestInvalidate(t *testing.T) {
	store := newMemStore()
	store.data["unrelated"] = "x"
	c := New(store, time.Minute)
	ctx := context.Background()
	c.Set(ctx, plan("a"), executor.Options{}, result("a"))
	c.Set(ctx, plan("b"), executor.Options{}, result("b"))

	require.NoError(t, c.Invalidate(ctx))
	_, ok := c.Get(ctx, plan("a"), executor.Options{})
	assert.False(t, ok)
	assert.Len(t, store.data, 1)
}

func TestGuardSkipsFailingStore(t *testing.T) {
	store := newMemStore()
	breaker := resilience.NewBreaker("cache", resilience.BreakerConfig{FailureThreshold: 1, ResetTimeout: time.Hour})
	c := New(Guard(store, breaker), time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, plan("market"), executor.Options{})
	assert.False(t, ok)
	assert.Equal(t, resilience.StateClosed, breaker.State(), "a miss is not a failure")

	store.err = errors.New("connection refused")
	_, ok = c.Get(ctx, plan("market"), executor.Options{})
	assert.False(t, ok)
	assert.Equal(t, resilience.StateOpen, breaker.State())

	store.err = nil
	c.Set(ctx, plan("market"), executor.Options{}, result("market"))
	assert.Empty(t, store.data, "writes are skipped while open")
}
