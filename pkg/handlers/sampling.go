// pkg/handlers/sampling.go
package handlers

import (
	"sync"
	"time"

	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

// LevelSampling is the per-tick budget of one level: the first Initial records
// pass, then every Thereafter-th. A zero Thereafter drops the rest.
type LevelSampling struct {
	Initial    int `koanf:"initial"`
	Thereafter int `koanf:"thereafter"`
}

// SamplingConfig controls NewSampled.
type SamplingConfig struct {
	Tick   time.Duration
	Levels map[logging.Level]LevelSampling
	// Metrics and Name report dropped records. Optional.
	Metrics Metrics
	Name    string
}

// DefaultLevelSampling returns the default per-level budgets. Error and above
// are never sampled.
func DefaultLevelSampling() map[logging.Level]LevelSampling {
	return map[logging.Level]LevelSampling{
		logging.Trace:   {Initial: 1, Thereafter: 0},
		logging.Debug:   {Initial: 10, Thereafter: 0},
		logging.Info:    {Initial: 100, Thereafter: 10},
		logging.Warning: {Initial: 100, Thereafter: 100},
	}
}

// SampledHandler forwards a level-aware sample of records to another handler.
type SampledHandler struct {
	next logging.Handler
	cfg  SamplingConfig
	now  func() time.Time

	mu        sync.Mutex
	tickStart time.Time
	counts    map[logging.Level]int
}

// NewSampled wraps next with sampling. A non-positive tick defaults to one
// second and nil levels to DefaultLevelSampling.
func NewSampled(next logging.Handler, cfg SamplingConfig) *SampledHandler {
	if cfg.Tick <= 0 {
		cfg.Tick = time.Second
	}
	if cfg.Levels == nil {
		cfg.Levels = DefaultLevelSampling()
	}
	return &SampledHandler{
		next:   next,
		cfg:    cfg,
		now:    time.Now,
		counts: make(map[logging.Level]int),
	}
}

// Handle implements logging.Handler.
func (h *SampledHandler) Handle(r *logging.Record) error {
	if !h.sample(r.Level) {
		if h.cfg.Metrics != nil {
			h.cfg.Metrics.RecordDropped(h.cfg.Name, r.Level, "sampled")
		}
		return nil
	}
	return h.next.Handle(r)
}

func (h *SampledHandler) sample(level logging.Level) bool {
	if level >= logging.Error {
		return true
	}
	budget, ok := h.cfg.Levels[level]
	if !ok {
		return true
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	if now.Sub(h.tickStart) >= h.cfg.Tick {
		h.tickStart = now
		clear(h.counts)
	}
	h.counts[level]++
	n := h.counts[level]

	if n <= budget.Initial {
		return true
	}
	return budget.Thereafter > 0 && (n-budget.Initial)%budget.Thereafter == 0
}

// Unwrap returns the wrapped handler.
func (h *SampledHandler) Unwrap() logging.Handler {
	return h.next
}
