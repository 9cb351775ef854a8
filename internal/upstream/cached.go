package upstream

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/amaumene/venusplay/internal/cache"
	apperrors "github.com/amaumene/venusplay/internal/errors"
	"github.com/amaumene/venusplay/pkg/logger"
)

// Source returns raw payloads no older than ttl.
type Source interface {
	Get(ctx context.Context, req Request, ttl time.Duration) (json.RawMessage, error)
}

// Cached puts a TTL cache in front of a Fetcher. Only successful payloads
// are stored, so a transient failure is retried by the next request instead
// of being served for a whole window.
//
// Concurrent misses for one key share a single upstream call. The shared
// call runs detached from the first caller's cancellation; each caller
// still returns as soon as its own context is done.
type Cached struct {
	fetcher Fetcher
	cache   cache.Cache
	group   singleflight.Group
	logger  logger.Logger
}

func NewCached(fetcher Fetcher, c cache.Cache, log logger.Logger) *Cached {
	return &Cached{
		fetcher: fetcher,
		cache:   c,
		logger:  log,
	}
}

func (c *Cached) Get(ctx context.Context, req Request, ttl time.Duration) (json.RawMessage, error) {
	key := req.CacheKey()

	if v, ok := c.cache.Get(key, ttl); ok {
		c.logger.Debugf("[Cache] hit %s", key)
		return v.(json.RawMessage), nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		// Another caller may have filled the entry while we queued.
		if v, ok := c.cache.Get(key, ttl); ok {
			return v, nil
		}

		c.logger.Debugf("[Cache] miss %s", key)
		payload, err := c.fetcher.Fetch(context.WithoutCancel(ctx), req)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, payload)
		return payload, nil
	})

	select {
	case <-ctx.Done():
		return nil, apperrors.NewUpstreamError("request abandoned before upstream answered", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(json.RawMessage), nil
	}
}
