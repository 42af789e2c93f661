// pkg/handlers/ratelimit.go
package handlers

import (
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

// RateLimitConfig controls NewRateLimited.
type RateLimitConfig struct {
	// PerSecond is the sustained record rate.
	PerSecond float64
	// Burst defaults to 1.
	Burst int
	// Exempt, when set, lets records at or above it bypass the limiter.
	Exempt logging.Level
	// Metrics and Name report dropped records. Optional.
	Metrics Metrics
	Name    string
}

// RateLimitedHandler drops records that exceed a token-bucket rate.
type RateLimitedHandler struct {
	next    logging.Handler
	cfg     RateLimitConfig
	limiter *rate.Limiter
	dropped atomic.Uint64
}

// NewRateLimited wraps next with a token bucket.
func NewRateLimited(next logging.Handler, cfg RateLimitConfig) *RateLimitedHandler {
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return &RateLimitedHandler{
		next:    next,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.PerSecond), cfg.Burst),
	}
}

// Handle implements logging.Handler.
func (h *RateLimitedHandler) Handle(r *logging.Record) error {
	exempt := h.cfg.Exempt > logging.NotSet && r.Level >= h.cfg.Exempt
	if !exempt && !h.limiter.AllowN(r.Time, 1) {
		h.dropped.Add(1)
		if h.cfg.Metrics != nil {
			h.cfg.Metrics.RecordDropped(h.cfg.Name, r.Level, "rate_limited")
		}
		return nil
	}
	return h.next.Handle(r)
}

// Dropped returns the number of records dropped so far.
func (h *RateLimitedHandler) Dropped() uint64 {
	return h.dropped.Load()
}

// Unwrap returns the wrapped handler.
func (h *RateLimitedHandler) Unwrap() logging.Handler {
	return h.next
}
