// pkg/handlers/memory.go
package handlers

import (
	"fmt"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/logtree/pkg/formatters"
	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

// DefaultMaxRecords is the MemoryHandler capacity when none is configured.
const DefaultMaxRecords = 1000

// MemoryConfig controls NewMemory.
type MemoryConfig struct {
	Options
	// MaxRecords defaults to DefaultMaxRecords.
	MaxRecords int
	// AutoClear drops every stored record when the limit is exceeded instead of
	// evicting the oldest one.
	AutoClear bool
	// WarnThreshold defaults to 90% of MaxRecords.
	WarnThreshold int
	// OnLimit is called with the size after eviction and the limit.
	OnLimit func(size, max int)
	// Logger receives the approaching-limit warning. Defaults to a no-op logger.
	Logger *zap.Logger
}

// MemoryStats summarizes a MemoryHandler.
type MemoryStats struct {
	Size               int        `json:"size"`
	MaxRecords         int        `json:"max_records"`
	Oldest             *time.Time `json:"oldest,omitempty"`
	Newest             *time.Time `json:"newest,omitempty"`
	MemoryUsagePercent int        `json:"memory_usage_percent"`
}

// MemoryHandler keeps records in a bounded in-memory buffer and answers queries
// over them.
type MemoryHandler struct {
	cfg MemoryConfig
	now func() time.Time

	mu      sync.RWMutex
	records []*logging.Record
	warned  bool
}

// NewMemory returns an empty MemoryHandler.
func NewMemory(cfg MemoryConfig) *MemoryHandler {
	if cfg.MaxRecords <= 0 {
		cfg.MaxRecords = DefaultMaxRecords
	}
	if cfg.WarnThreshold <= 0 {
		cfg.WarnThreshold = cfg.MaxRecords * 9 / 10
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &MemoryHandler{cfg: cfg, now: time.Now}
}

// Handle implements logging.Handler.
func (h *MemoryHandler) Handle(r *logging.Record) error {
	if !h.cfg.Accept(r) {
		return nil
	}

	h.mu.Lock()
	h.records = append(h.records, r)
	limitSize, hitLimit, warnSize := h.manageLocked()
	h.mu.Unlock()

	if hitLimit && h.cfg.OnLimit != nil {
		h.cfg.OnLimit(limitSize, h.cfg.MaxRecords)
	}
	if warnSize > 0 {
		h.cfg.Logger.Warn("memory handler approaching limit",
			zap.Int("size", warnSize),
			zap.Int("max_records", h.cfg.MaxRecords))
	}
	return nil
}

// manageLocked enforces the limit. Callbacks run after the lock is released.
func (h *MemoryHandler) manageLocked() (limitSize int, hitLimit bool, warnSize int) {
	switch {
	case len(h.records) > h.cfg.MaxRecords:
		if h.cfg.AutoClear {
			h.records = nil
		} else {
			h.records[0] = nil
			h.records = h.records[1:]
		}
		h.warned = false
		return len(h.records), true, 0
	case len(h.records) >= h.cfg.WarnThreshold && !h.warned:
		h.warned = true
		return 0, false, len(h.records)
	}
	return 0, false, 0
}

// Records returns the stored records, oldest first.
func (h *MemoryHandler) Records() []*logging.Record {
	return h.Find(func(*logging.Record) bool { return true })
}

// ByLevel returns records at or above level.
func (h *MemoryHandler) ByLevel(level logging.Level) []*logging.Record {
	return h.Find(func(r *logging.Record) bool { return r.Level >= level })
}

// ByLogger returns records from the named logger and its descendants.
func (h *MemoryHandler) ByLogger(name string) []*logging.Record {
	return h.Find(func(r *logging.Record) bool { return matchesLogger(r.Name, name) })
}

// ByTimeRange returns records created within [start, end].
func (h *MemoryHandler) ByTimeRange(start, end time.Time) []*logging.Record {
	return h.Find(func(r *logging.Record) bool {
		return !r.Time.Before(start) && !r.Time.After(end)
	})
}

// Find returns records matching pred.
func (h *MemoryHandler) Find(pred func(*logging.Record) bool) []*logging.Record {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*logging.Record, 0, len(h.records))
	for _, r := range h.records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// FormattedLogs renders every stored record with the configured formatter.
func (h *MemoryHandler) FormattedLogs() []string {
	records := h.Records()
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = h.cfg.format(r)
	}
	return out
}

// Len returns the number of stored records.
func (h *MemoryHandler) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

// Clear drops every stored record.
func (h *MemoryHandler) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
	h.warned = false
}

// Stats summarizes the buffer.
func (h *MemoryHandler) Stats() MemoryStats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := MemoryStats{
		Size:               len(h.records),
		MaxRecords:         h.cfg.MaxRecords,
		MemoryUsagePercent: (len(h.records)*100 + h.cfg.MaxRecords/2) / h.cfg.MaxRecords,
	}
	if n := len(h.records); n > 0 {
		oldest, newest := h.records[0].Time, h.records[n-1].Time
		stats.Oldest, stats.Newest = &oldest, &newest
	}
	return stats
}

type memoryExport struct {
	Metadata memoryExportMeta  `json:"metadata"`
	Records  []*logging.Record `json:"records"`
}

type memoryExportMeta struct {
	ExportedAt    time.Time     `json:"exported_at"`
	TotalRecords  int           `json:"total_records"`
	MaxRecords    int           `json:"max_records"`
	Level         logging.Level `json:"level"`
	AutoClear     bool          `json:"auto_clear"`
	WarnThreshold int           `json:"warn_threshold"`
}

// ExportJSON renders the buffer and its configuration as indented JSON.
func (h *MemoryHandler) ExportJSON() (string, error) {
	records := h.Records()
	for i, r := range records {
		records[i] = r.Clone(func(c *logging.Record) {
			c.Args = formatters.SafeSlice(c.Args)
			c.Extra = formatters.SafeMap(c.Extra)
		})
	}
	doc := memoryExport{
		Metadata: memoryExportMeta{
			ExportedAt:    h.now().UTC(),
			TotalRecords:  len(records),
			MaxRecords:    h.cfg.MaxRecords,
			Level:         h.cfg.Level,
			AutoClear:     h.cfg.AutoClear,
			WarnThreshold: h.cfg.WarnThreshold,
		},
		Records: records,
	}
	b, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to export records: %w", err)
	}
	return string(b), nil
}
