package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"checklens/internal/port"
)

// Cached memoizes gateway responses so reprocessing the same image does not
// burn a second model call. Only successful responses are cached.
type Cached struct {
	inner port.VisionGateway
	cache *gocache.Cache
	ttl   time.Duration
}

// NewCached wraps a gateway with an in-memory response cache.
func NewCached(inner port.VisionGateway, ttl, cleanupInterval time.Duration) *Cached {
	return &Cached{
		inner: inner,
		cache: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

func (c *Cached) Describe(ctx context.Context, input port.DescribeInput) (*port.DescribeOutput, error) {
	key := cacheKey(input)
	if val, found := c.cache.Get(key); found {
		out := val.(port.DescribeOutput)
		return &out, nil
	}

	out, err := c.inner.Describe(ctx, input)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, *out, c.ttl)
	return out, nil
}

func cacheKey(input port.DescribeInput) string {
	h := sha256.New()
	h.Write([]byte(input.Prompt))
	h.Write([]byte{0})
	h.Write([]byte(input.ContentType))
	h.Write([]byte{0})
	h.Write(input.ImageBytes)
	return "checklens:v1:" + hex.EncodeToString(h.Sum(nil))
}
