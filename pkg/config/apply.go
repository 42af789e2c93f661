// pkg/config/apply.go
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/logtree/pkg/formatters"
	"github.com/fyrsmithlabs/logtree/pkg/handlers"
	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

// Applied holds the handlers built by Apply.
type Applied struct {
	handlers map[string]logging.Handler
	closers  []io.Closer
	loggers  map[string][]logging.Handler
}

// Handler returns the handler built for name. Wrappers are included, so a
// sampled memory handler is returned as the sampler.
func (a *Applied) Handler(name string) (logging.Handler, bool) {
	h, ok := a.handlers[name]
	return h, ok
}

// Memory returns the memory handler built for name.
func (a *Applied) Memory(name string) (*handlers.MemoryHandler, bool) {
	h, ok := a.handlers[name]
	if !ok {
		return nil, false
	}
	for {
		switch v := h.(type) {
		case *handlers.MemoryHandler:
			return v, true
		case interface{ Unwrap() logging.Handler }:
			h = v.Unwrap()
		default:
			return nil, false
		}
	}
}

// Close closes every file handler and flushes zap handlers. It is safe to call more than once.
func (a *Applied) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// Detach removes the handlers attached to loggers by Apply.
func (a *Applied) Detach(m *logging.Manager) {
	for name, hs := range a.loggers {
		l := m.GetLogger(name)
		for _, h := range hs {
			l.RemoveHandler(h)
		}
	}
}

// Apply builds the configured handlers and configures m. Handlers referenced by
// a logger are attached to it; the rest become the default handlers. When no
// handler is left for the defaults, the built-in stderr handler is kept.
//
// Apply reports an error if a handler cannot be built, in which case handlers
// already built are closed. Configuration is skipped when m was configured
// before and Force is false; logger settings are always applied.
func (s *Settings) Apply(m *logging.Manager) (*Applied, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	redactor, err := formatters.NewRedactor(s.Redaction)
	if err != nil {
		return nil, err
	}

	a := &Applied{
		handlers: make(map[string]logging.Handler, len(s.Handlers)),
		loggers:  make(map[string][]logging.Handler),
	}
	for _, hs := range s.Handlers {
		h, err := a.build(hs, redactor)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("handler %q: %w", hs.Name, err)
		}
		a.handlers[hs.Name] = h
	}

	referenced := make(map[string]bool)
	for _, ls := range s.Loggers {
		for _, ref := range ls.Handlers {
			referenced[ref] = true
		}
	}
	var defaults []logging.Handler
	for _, hs := range s.Handlers {
		if !referenced[hs.Name] {
			defaults = append(defaults, a.handlers[hs.Name])
		}
	}

	level, _ := parseLevel(s.Level)
	cfg := logging.BasicConfig{
		Level:    level,
		Handlers: defaults,
		Force:    s.Force,
	}
	if s.Format != "" {
		cfg.Formatter, _ = formatters.ByName(s.Format)
	}
	m.BasicConfig(cfg)

	if s.Disable != "" {
		floor, _ := parseLevel(s.Disable)
		m.Disable(floor)
	}

	for name, ls := range s.Loggers {
		l := m.GetLogger(name)
		if ls.Level != "" {
			ll, _ := parseLevel(ls.Level)
			l.SetLevel(ll)
		}
		l.SetDisabled(ls.Disabled)
		for _, ref := range ls.Handlers {
			h := a.handlers[ref]
			l.AddHandler(h)
			a.loggers[name] = append(a.loggers[name], h)
		}
	}
	return a, nil
}

func (a *Applied) build(hs HandlerSettings, redactor *formatters.Redactor) (logging.Handler, error) {
	level, _ := parseLevel(hs.Level)
	opts := handlers.Options{Level: level}
	if hs.Format != "" {
		opts.Formatter, _ = formatters.ByName(hs.Format)
	}
	if hs.Logger != "" {
		opts.Filter = handlers.NameFilter(hs.Logger)
	}

	var h logging.Handler
	switch strings.ToLower(hs.Type) {
	case HandlerConsole:
		cfg := handlers.DefaultConsoleConfig()
		cfg.Options = opts
		cfg.UseWarn = hs.UseWarn
		h = handlers.NewConsole(cfg)
	case HandlerStdout:
		h = handlers.NewStream(os.Stdout, handlers.StreamConfig{Options: opts})
	case HandlerStderr:
		h = handlers.NewStream(os.Stderr, handlers.StreamConfig{Options: opts})
	case HandlerFile:
		fh, err := handlers.NewFile(hs.Path, handlers.FileConfig{
			Options:   opts,
			Mode:      handlers.FileMode(strings.ToLower(hs.Mode)),
			AutoFlush: hs.AutoFlush,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, fh)
		h = fh
	case HandlerJSON:
		h = handlers.NewJSON(handlers.JSONConfig{
			Options: opts,
			Format:  formatters.JSONConfig{Pretty: hs.Pretty, IncludeAll: hs.IncludeAll},
		})
	case HandlerMemory:
		h = handlers.NewMemory(handlers.MemoryConfig{
			Options:    opts,
			MaxRecords: hs.MaxRecords,
			AutoClear:  hs.AutoClear,
		})
	case HandlerZap:
		z, err := zap.NewProduction()
		if err != nil {
			return nil, err
		}
		zh := handlers.NewZap(z, opts)
		// Syncing stderr fails on some platforms; flushing is best effort.
		a.closers = append(a.closers, closerFunc(func() error {
			_ = zh.Sync()
			return nil
		}))
		h = zh
	default:
		return nil, fmt.Errorf("unknown type %q", hs.Type)
	}

	if hs.Sampling != nil {
		h = handlers.NewSampled(h, handlers.SamplingConfig{
			Tick: hs.Sampling.Tick.Duration(),
			Levels: map[logging.Level]handlers.LevelSampling{
				logging.Trace: {Initial: hs.Sampling.Initial, Thereafter: hs.Sampling.Thereafter},
				logging.Debug: {Initial: hs.Sampling.Initial, Thereafter: hs.Sampling.Thereafter},
				logging.Info:  {Initial: hs.Sampling.Initial, Thereafter: hs.Sampling.Thereafter},
			},
			Name: hs.Name,
		})
	}
	if hs.RateLimit != nil {
		exempt, _ := parseLevel(hs.RateLimit.Exempt)
		h = handlers.NewRateLimited(h, handlers.RateLimitConfig{
			PerSecond: hs.RateLimit.PerSecond,
			Burst:     hs.RateLimit.Burst,
			Exempt:    exempt,
			Name:      hs.Name,
		})
	}
	if hs.Redact {
		h = handlers.NewRedacting(h, redactor)
	}
	return h, nil
}
