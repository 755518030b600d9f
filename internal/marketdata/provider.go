// Package marketdata fetches price history and instrument snapshots. The
// evaluation core only consumes its outputs; any provider failure for one
// ticker excludes that ticker from the pass rather than failing it.
package marketdata

import (
	"context"
	"sync"
	"time"

	"github.com/Brownz73/portfolio-tracker/internal/model"
)

// Provider defines the interface for fetching market data.
type Provider interface {
	GetSeries(ctx context.Context, ticker string) (*model.PriceSeries, error)
	GetSnapshot(ctx context.Context, ticker string) (*model.MarketSnapshot, error)
	Name() string
}

// CachedProvider wraps a Provider with a TTL cache keyed by normalized
// ticker, so repeated evaluations inside one pass hit the network once.
type CachedProvider struct {
	inner Provider
	ttl   time.Duration

	mu        sync.Mutex
	series    map[string]*model.PriceSeries
	snapshots map[string]*model.MarketSnapshot
}

// NewCachedProvider wraps inner with a cache holding entries for ttl.
func NewCachedProvider(inner Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		inner:     inner,
		ttl:       ttl,
		series:    map[string]*model.PriceSeries{},
		snapshots: map[string]*model.MarketSnapshot{},
	}
}

func (c *CachedProvider) Name() string { return c.inner.Name() }

func (c *CachedProvider) GetSeries(ctx context.Context, ticker string) (*model.PriceSeries, error) {
	key := NormalizeTicker(ticker)

	c.mu.Lock()
	if s, ok := c.series[key]; ok && time.Since(s.FetchedAt) < c.ttl {
		c.mu.Unlock()
		return s, nil
	}
	c.mu.Unlock()

	s, err := c.inner.GetSeries(ctx, ticker)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.series[key] = s
	c.mu.Unlock()
	return s, nil
}

func (c *CachedProvider) GetSnapshot(ctx context.Context, ticker string) (*model.MarketSnapshot, error) {
	key := NormalizeTicker(ticker)

	c.mu.Lock()
	if s, ok := c.snapshots[key]; ok && time.Since(s.FetchedAt) < c.ttl {
		c.mu.Unlock()
		return s, nil
	}
	c.mu.Unlock()

	s, err := c.inner.GetSnapshot(ctx, ticker)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.snapshots[key] = s
	c.mu.Unlock()
	return s, nil
}
