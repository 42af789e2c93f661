// pkg/logging/config.go
package logging

import (
	"sync"
)

// BasicConfig is a partial override of the global configuration. Zero fields are
// left untouched: NotSet level, nil formatter, nil handler slice. A non-nil empty
// handler slice clears the default handlers.
type BasicConfig struct {
	Level     Level
	Formatter Formatter
	Handlers  []Handler
	// Force applies the override even if the configuration was already set.
	Force bool
}

// Config holds the process-wide defaults of a Manager: the level used when no
// logger in a chain sets one, the formatter used by the built-in handler, and the
// handlers used by loggers that have none of their own.
type Config struct {
	mu sync.RWMutex

	configured   bool
	level        Level
	formatter    Formatter
	handlers     []Handler
	disableLevel Level
	// generation changes whenever the default handlers are replaced.
	generation uint64

	defaultHandlers func(*Config) []Handler
}

// NewConfig returns a Config holding the built-in defaults: Warning level, the
// basic formatter and one stderr handler.
func NewConfig() *Config {
	c := &Config{defaultHandlers: func(c *Config) []Handler {
		return []Handler{newStderrHandler(c)}
	}}
	c.Reset()
	return c
}

// Configure applies cfg unless the configuration was already applied and
// cfg.Force is false, in which case it does nothing. It reports whether cfg was
// applied.
func (c *Config) Configure(cfg BasicConfig) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.configured && !cfg.Force {
		return false
	}
	if cfg.Level != NotSet {
		c.level = cfg.Level
	}
	if cfg.Formatter != nil {
		c.formatter = cfg.Formatter
	}
	if cfg.Handlers != nil {
		c.handlers = append([]Handler(nil), cfg.Handlers...)
		c.generation++
	}
	c.configured = true
	return true
}

// Reset restores the built-in defaults and clears the configured flag. The
// default handler factory runs without the lock held, so it may read c. Handlers
// installed by a Configure that races with Reset win over the factory's.
func (c *Config) Reset() {
	c.mu.Lock()
	c.configured = false
	c.level = Warning
	c.formatter = BasicFormatter
	c.disableLevel = NotSet
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	handlers := c.defaultHandlers(c)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation == gen {
		c.handlers = handlers
	}
}

// Configured reports whether Configure has been applied since the last Reset.
func (c *Config) Configured() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.configured
}

// Level returns the global fallback level.
func (c *Config) Level() Level {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.level
}

// Formatter returns the global formatter.
func (c *Config) Formatter() Formatter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.formatter
}

// Handlers returns a copy of the global default handlers.
func (c *Config) Handlers() []Handler {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Handler(nil), c.handlers...)
}

// DisableLevel returns the process-wide floor; records at or below it are dropped
// by every logger. NotSet disables nothing.
func (c *Config) DisableLevel() Level {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.disableLevel
}

// SetDisableLevel sets the process-wide floor.
func (c *Config) SetDisableLevel(level Level) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disableLevel = level
}
