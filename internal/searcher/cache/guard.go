package cache

import (
	"context"
	"time"

	pkgredis "github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/resilience"
)

type guardedStore struct {
	store   Store
	breaker *resilience.Breaker
}

// Guard wraps store so that a failing backend is skipped while the breaker is
// open. A missing key counts as success.
func Guard(store Store, breaker *resilience.Breaker) Store {
	return &guardedStore{store: store, breaker: breaker}
}

func (g *guardedStore) Get(ctx context.Context, key string) (string, error) {
	var val string
	var miss error
	err := g.breaker.Execute(func() error {
		v, err := g.store.Get(ctx, key)
		if pkgredis.IsNilError(err) {
			miss = err
			return nil
		}
		val = v
		return err
	})
	if err != nil {
		return "", err
	}
	return val, miss
}

func (g *guardedStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return g.breaker.Execute(func() error {
		return g.store.Set(ctx, key, value, ttl)
	})
}

func (g *guardedStore) FlushByPattern(ctx context.Context, pattern string) (int64, error) {
	var n int64
	err := g.breaker.Execute(func() error {
		var err error
		n, err = g.store.FlushByPattern(ctx, pattern)
		return err
	})
	return n, err
}
