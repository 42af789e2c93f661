// pkg/logging/manager.go
package logging

import (
	"time"

	"github.com/google/uuid"
)

// Manager owns one logger hierarchy: its global configuration, its registry, the
// diagnostic channel for handler failures, and the clock and ID source used for
// records. Managers are independent of each other.
type Manager struct {
	config   *Config
	registry *Registry
	reporter ErrorReporter
	clock    func() time.Time
	ids      func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithReporter sets the diagnostic channel for handler failures.
func WithReporter(r ErrorReporter) Option {
	return func(m *Manager) {
		if r != nil {
			m.reporter = r
		}
	}
}

// WithClock sets the time source used to stamp records.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithIDFunc sets the record ID source.
func WithIDFunc(ids func() string) Option {
	return func(m *Manager) {
		if ids != nil {
			m.ids = ids
		}
	}
}

// WithDefaultHandlers replaces the built-in default handlers. factory runs on
// every reset, after the other defaults are restored, and receives the Config so
// handlers can follow its formatter.
func WithDefaultHandlers(factory func(*Config) []Handler) Option {
	return func(m *Manager) {
		if factory != nil {
			m.config.defaultHandlers = factory
		}
	}
}

// NewManager creates a Manager with built-in defaults: Warning level, the basic
// formatter, a stderr handler and a stderr diagnostic reporter.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		config: NewConfig(),
		clock:  time.Now,
		ids:    uuid.NewString,
	}
	m.registry = newRegistry(m)
	for _, opt := range opts {
		opt(m)
	}
	if m.reporter == nil {
		m.reporter = NewStderrReporter()
	}
	// Options may have replaced the default handler factory.
	m.config.Reset()
	return m
}

func (m *Manager) newRecord(name string, level Level, msg string, args []any, extra map[string]any, err error) *Record {
	r := newRecord(m.clock(), name, level, LevelName(level), msg, args, extra, err)
	r.ID = m.ids()
	return r
}

func (m *Manager) reportError(r *Record, err error) {
	m.reporter.HandlerError(r, err)
}

// Config returns the Manager's global configuration.
func (m *Manager) Config() *Config {
	return m.config
}

// Registry returns the Manager's logger registry.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Reporter returns the diagnostic channel.
func (m *Manager) Reporter() ErrorReporter {
	return m.reporter
}

// GetLogger returns the logger for name. "" and "root" return the root logger.
func (m *Manager) GetLogger(name string) *Logger {
	if name == "" {
		name = RootName
	}
	return m.registry.GetLogger(name)
}

// RootLogger returns the root logger, creating it if needed.
func (m *Manager) RootLogger() *Logger {
	return m.registry.GetLogger(RootName)
}

// BasicConfig applies cfg to the global configuration. When cfg is applied and
// carries a level, the root logger's level is set to it as well. Repeated calls
// without Force do nothing.
func (m *Manager) BasicConfig(cfg BasicConfig) bool {
	applied := m.config.Configure(cfg)
	if applied && cfg.Level != NotSet {
		m.RootLogger().SetLevel(cfg.Level)
	}
	return applied
}

// SetLevel sets the level of the named logger.
func (m *Manager) SetLevel(name string, level Level) {
	m.GetLogger(name).SetLevel(level)
}

// AddHandler attaches h to the named logger.
func (m *Manager) AddHandler(name string, h Handler) {
	m.GetLogger(name).AddHandler(h)
}

// Disable drops every record at or below level on every logger. Disable(NotSet)
// lifts the floor.
func (m *Manager) Disable(level Level) {
	m.config.SetDisableLevel(level)
}

// Reset restores the built-in configuration and forgets every logger.
func (m *Manager) Reset() {
	m.config.Reset()
	m.registry.Clear()
}

// LoggerInfo returns a snapshot of every registered logger sorted by name.
func (m *Manager) LoggerInfo() []LoggerInfo {
	loggers := m.registry.AllLoggers()
	infos := make([]LoggerInfo, 0, len(loggers))
	for _, l := range loggers {
		infos = append(infos, l.LoggerInfo())
	}
	return infos
}
