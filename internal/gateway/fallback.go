package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"checklens/internal/port"
)

// circuitState tracks rate-limit backoff for a single provider.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// Fallback tries gateways in order, skipping those with open circuits.
// It implements port.VisionGateway. This is provider failover, not a retry
// of a failed extraction: each request runs at most once per provider.
type Fallback struct {
	gateways []port.VisionGateway
	circuits []*circuitState
	names    []string
}

// NewFallback creates a Fallback from an ordered list of gateways and their names.
func NewFallback(gateways []port.VisionGateway, names []string) *Fallback {
	circuits := make([]*circuitState, len(gateways))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &Fallback{
		gateways: gateways,
		circuits: circuits,
		names:    names,
	}
}

func (f *Fallback) Describe(ctx context.Context, input port.DescribeInput) (*port.DescribeOutput, error) {
	now := time.Now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	for i, g := range f.gateways {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			log.Printf("gateway.Fallback: skipping %s (circuit open until %s)", f.names[i], resetAt.Format(time.RFC3339))
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			continue
		}

		out, err := g.Describe(ctx, input)
		if err == nil {
			return out, nil
		}

		log.Printf("gateway.Fallback: %s failed: %v", f.names[i], err)
		lastErr = err

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}
	}

	if lastErr == nil || allRateLimited {
		retryAfter := time.Until(earliestReset)
		if retryAfter < 0 {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError("all", fmt.Errorf("all providers rate limited"), int(retryAfter.Seconds()))
	}

	return nil, fmt.Errorf("all providers failed: %w", lastErr)
}
