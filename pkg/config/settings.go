// pkg/config/settings.go
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/logtree/pkg/formatters"
	"github.com/fyrsmithlabs/logtree/pkg/handlers"
)

// Handler types accepted in HandlerSettings.Type.
const (
	HandlerConsole = "console"
	HandlerStdout  = "stdout"
	HandlerStderr  = "stderr"
	HandlerFile    = "file"
	HandlerJSON    = "json"
	HandlerMemory  = "memory"
	HandlerZap     = "zap"
)

var handlerTypes = map[string]bool{
	HandlerConsole: true,
	HandlerStdout:  true,
	HandlerStderr:  true,
	HandlerFile:    true,
	HandlerJSON:    true,
	HandlerMemory:  true,
	HandlerZap:     true,
}

// Settings is the file and environment form of a logging setup.
type Settings struct {
	// Level is the global and root level.
	Level string `koanf:"level"`
	// Format names the global formatter (see formatters.ByName).
	Format string `koanf:"format"`
	// Force reapplies the configuration over an earlier one.
	Force bool `koanf:"force"`
	// Disable sets the global disable floor.
	Disable string `koanf:"disable"`

	Redaction formatters.RedactionConfig `koanf:"redaction"`

	// Handlers not referenced by any logger become the global default handlers.
	Handlers []HandlerSettings `koanf:"handlers"`
	// Loggers configures individual loggers by dotted name.
	Loggers map[string]LoggerSettings `koanf:"loggers"`
}

// HandlerSettings describes one handler.
type HandlerSettings struct {
	Name   string `koanf:"name"`
	Type   string `koanf:"type"`
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	// Logger restricts the handler to records from this logger and its
	// descendants.
	Logger string `koanf:"logger"`

	// file
	Path      string `koanf:"path"`
	Mode      string `koanf:"mode"`
	AutoFlush bool   `koanf:"auto_flush"`

	// console
	UseWarn bool `koanf:"use_warn"`

	// memory
	MaxRecords int  `koanf:"max_records"`
	AutoClear  bool `koanf:"auto_clear"`

	// json
	Pretty     bool `koanf:"pretty"`
	IncludeAll bool `koanf:"include_all"`

	// Redact passes records through the global redactor first.
	Redact    bool               `koanf:"redact"`
	Sampling  *SamplingSettings  `koanf:"sampling"`
	RateLimit *RateLimitSettings `koanf:"rate_limit"`
}

// SamplingSettings configures per-tick sampling of Info and below.
type SamplingSettings struct {
	Tick       Duration `koanf:"tick"`
	Initial    int      `koanf:"initial"`
	Thereafter int      `koanf:"thereafter"`
}

// RateLimitSettings configures a token bucket.
type RateLimitSettings struct {
	PerSecond float64 `koanf:"per_second"`
	Burst     int     `koanf:"burst"`
	Exempt    string  `koanf:"exempt"`
}

// LoggerSettings configures one logger.
type LoggerSettings struct {
	Level    string   `koanf:"level"`
	Disabled bool     `koanf:"disabled"`
	Handlers []string `koanf:"handlers"`
}

// Validate checks levels, formats, handler definitions and references.
func (s *Settings) Validate() error {
	var errs []error

	if _, err := parseLevel(s.Level); err != nil {
		errs = append(errs, fmt.Errorf("level: %w", err))
	}
	if _, err := parseLevel(s.Disable); err != nil {
		errs = append(errs, fmt.Errorf("disable: %w", err))
	}
	if s.Format != "" {
		if _, err := formatters.ByName(s.Format); err != nil {
			errs = append(errs, fmt.Errorf("format: %w", err))
		}
	}
	if err := s.Redaction.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("redaction: %w", err))
	}

	names := make(map[string]bool, len(s.Handlers))
	for i, h := range s.Handlers {
		if err := h.validate(); err != nil {
			errs = append(errs, fmt.Errorf("handlers[%d]: %w", i, err))
			continue
		}
		if names[h.Name] {
			errs = append(errs, fmt.Errorf("handlers[%d]: duplicate name %q", i, h.Name))
		}
		names[h.Name] = true
	}

	for name, l := range s.Loggers {
		if name == "" {
			errs = append(errs, errors.New("loggers: empty logger name"))
		}
		if _, err := parseLevel(l.Level); err != nil {
			errs = append(errs, fmt.Errorf("loggers.%s.level: %w", name, err))
		}
		for _, ref := range l.Handlers {
			if !names[ref] {
				errs = append(errs, fmt.Errorf("loggers.%s: unknown handler %q", name, ref))
			}
		}
	}

	return errors.Join(errs...)
}

func (h HandlerSettings) validate() error {
	if h.Name == "" {
		return errors.New("name is required")
	}
	if !handlerTypes[strings.ToLower(h.Type)] {
		return fmt.Errorf("unknown type %q", h.Type)
	}
	if _, err := parseLevel(h.Level); err != nil {
		return fmt.Errorf("level: %w", err)
	}
	if h.Format != "" {
		if _, err := formatters.ByName(h.Format); err != nil {
			return fmt.Errorf("format: %w", err)
		}
	}
	if strings.EqualFold(h.Type, HandlerFile) {
		if h.Path == "" {
			return errors.New("path is required for file handlers")
		}
		switch handlers.FileMode(strings.ToLower(h.Mode)) {
		case "", handlers.FileAppend, handlers.FileTruncate:
		default:
			return fmt.Errorf("invalid file mode %q", h.Mode)
		}
	}
	if h.MaxRecords < 0 {
		return fmt.Errorf("max_records cannot be negative: %d", h.MaxRecords)
	}
	if h.Sampling != nil && (h.Sampling.Initial < 0 || h.Sampling.Thereafter < 0) {
		return errors.New("sampling counts cannot be negative")
	}
	if h.RateLimit != nil {
		if h.RateLimit.PerSecond <= 0 {
			return fmt.Errorf("rate_limit.per_second must be positive, got %v", h.RateLimit.PerSecond)
		}
		if _, err := parseLevel(h.RateLimit.Exempt); err != nil {
			return fmt.Errorf("rate_limit.exempt: %w", err)
		}
	}
	return nil
}
