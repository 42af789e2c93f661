// pkg/logging/default.go
package logging

import "sync/atomic"

var defaultManager atomic.Pointer[Manager]

func init() {
	defaultManager.Store(NewManager())
}

// Default returns the package-level Manager used by the functions below.
func Default() *Manager {
	return defaultManager.Load()
}

// SetDefault replaces the package-level Manager. A nil m is ignored.
func SetDefault(m *Manager) {
	if m != nil {
		defaultManager.Store(m)
	}
}

// GetLogger returns the named logger of the default Manager.
func GetLogger(name string) *Logger {
	return Default().GetLogger(name)
}

// Configure applies cfg to the default Manager. See Manager.BasicConfig.
func Configure(cfg BasicConfig) bool {
	return Default().BasicConfig(cfg)
}

// SetLevel sets the level of a logger of the default Manager.
func SetLevel(name string, level Level) {
	Default().SetLevel(name, level)
}

// AddHandler attaches h to a logger of the default Manager.
func AddHandler(name string, h Handler) {
	Default().AddHandler(name, h)
}

// Disable sets the disable floor of the default Manager.
func Disable(level Level) {
	Default().Disable(level)
}

// Reset restores the default Manager to its initial state.
func Reset() {
	Default().Reset()
}

// LoggersInfo returns a snapshot of the default Manager's loggers.
func LoggersInfo() []LoggerInfo {
	return Default().LoggerInfo()
}
