package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gamma-omg/stock-dashboard/internal/market"
	"github.com/gamma-omg/stock-dashboard/internal/metrics"
	"golang.org/x/sync/singleflight"
)

// Loader is implemented by every data source.
type Loader interface {
	Key() string
	Load(ctx context.Context) (market.Dataset, error)
}

// DatasetCache keeps one loaded dataset per source key until invalidated.
// Cached datasets are shared and must not be modified by callers.
type DatasetCache struct {
	log     *slog.Logger
	metrics *metrics.Metrics
	data    map[string]market.Dataset
	gen     map[string]uint64
	mu      sync.RWMutex
	group   singleflight.Group
}

func NewDatasetCache(log *slog.Logger, m *metrics.Metrics) *DatasetCache {
	return &DatasetCache{
		log:     log,
		metrics: m,
		data:    make(map[string]market.Dataset),
		gen:     make(map[string]uint64),
	}
}

func (c *DatasetCache) Get(ctx context.Context, src Loader) (market.Dataset, error) {
	key := src.Key()

	c.mu.RLock()
	ds, ok := c.data[key]
	c.mu.RUnlock()
	if ok {
		c.metrics.CacheHits.Inc()
		return ds, nil
	}

	c.metrics.CacheMisses.Inc()
	return c.shared(ctx, key, func(ctx context.Context) (market.Dataset, error) {
		c.mu.RLock()
		ds, ok := c.data[key]
		c.mu.RUnlock()
		if ok {
			return ds, nil
		}

		return c.load(ctx, src)
	})
}

// shared runs fn once per key for all concurrent callers. fn is detached from
// the caller's cancellation; a caller whose ctx ends stops waiting alone.
func (c *DatasetCache) shared(ctx context.Context, key string, fn func(context.Context) (market.Dataset, error)) (market.Dataset, error) {
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		return fn(loadCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(market.Dataset), nil
	}
}

func (c *DatasetCache) load(ctx context.Context, src Loader) (market.Dataset, error) {
	key := src.Key()
	start := time.Now()

	c.mu.RLock()
	gen := c.gen[key]
	c.mu.RUnlock()

	ds, err := src.Load(ctx)
	if err != nil {
		c.metrics.LoadDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to load dataset %s: %w", key, err)
	}
	c.metrics.LoadDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	// An Invalidate that arrived during the load wins over its result.
	c.mu.Lock()
	stale := c.gen[key] != gen
	if !stale {
		c.data[key] = ds
	}
	c.mu.Unlock()

	c.log.Info("dataset loaded",
		slog.String("source", key),
		slog.Int("records", len(ds)),
		slog.Bool("cached", !stale),
		slog.Duration("took", time.Since(start)))

	return ds, nil
}

func (c *DatasetCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)
	c.gen[key]++
}

// Reload loads src again and replaces the cached dataset. On failure the
// previous dataset stays cached.
func (c *DatasetCache) Reload(ctx context.Context, src Loader) (market.Dataset, error) {
	return c.shared(ctx, src.Key(), func(ctx context.Context) (market.Dataset, error) {
		return c.load(ctx, src)
	})
}
