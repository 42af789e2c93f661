// pkg/logging/registry.go
package logging

import (
	"sort"
	"strings"
	"sync"
)

// RootName is the reserved name of the root logger.
const RootName = "root"

// Registry memoizes loggers by name and wires the dotted-name hierarchy. It is
// the only constructor of Logger values.
type Registry struct {
	manager *Manager

	mu      sync.Mutex
	loggers map[string]*Logger
	root    *Logger
}

func newRegistry(m *Manager) *Registry {
	return &Registry{
		manager: m,
		loggers: make(map[string]*Logger),
	}
}

// GetLogger returns the logger for name, creating it and any missing ancestors.
// Single-segment names are children of root.
func (r *Registry) GetLogger(name string) *Logger {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(name)
}

func (r *Registry) getLocked(name string) *Logger {
	if l, ok := r.loggers[name]; ok {
		return l
	}

	l := newLogger(name, r.manager)
	r.loggers[name] = l

	if name == RootName {
		r.root = l
		return l
	}

	var parent *Logger
	suffix := name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		parent = r.getLocked(name[:i])
		suffix = name[i+1:]
	} else {
		parent = r.getLocked(RootName)
	}

	l.parent = parent
	parent.addChild(suffix, l)
	return l
}

// RootLogger returns the root logger, or nil if it has not been created yet.
func (r *Registry) RootLogger() *Logger {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.root
}

// AllLoggers returns a snapshot of every registered logger sorted by name.
func (r *Registry) AllLoggers() []*Logger {
	r.mu.Lock()
	loggers := make([]*Logger, 0, len(r.loggers))
	for _, l := range r.loggers {
		loggers = append(loggers, l)
	}
	r.mu.Unlock()

	sort.Slice(loggers, func(i, j int) bool { return loggers[i].name < loggers[j].name })
	return loggers
}

// HasLogger reports whether name has been created.
func (r *Registry) HasLogger(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.loggers[name]
	return ok
}

// Len returns the number of registered loggers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.loggers)
}

// Clear drops every logger, root included. Loggers handed out earlier keep
// working but are no longer reachable through the registry.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loggers = make(map[string]*Logger)
	r.root = nil
}
