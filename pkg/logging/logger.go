// pkg/logging/logger.go
package logging

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Logger is a named node of a Manager's hierarchy. Loggers are created only by a
// Registry; obtain them with Manager.GetLogger or GetLogger.
type Logger struct {
	name    string
	manager *Manager

	// parent is a non-owning back-link used for level and handler lookup. It is
	// set once at creation and never changes.
	parent *Logger

	mu       sync.RWMutex
	level    Level
	handlers []Handler
	children map[string]*Logger
	disabled bool
}

func newLogger(name string, m *Manager) *Logger {
	return &Logger{
		name:     name,
		manager:  m,
		children: make(map[string]*Logger),
	}
}

// Name returns the dotted logger name.
func (l *Logger) Name() string {
	return l.name
}

// Parent returns the parent logger, nil for root.
func (l *Logger) Parent() *Logger {
	return l.parent
}

// SetLevel sets this logger's own level. NotSet makes the logger inherit again.
// Children that set their own level are unaffected.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the logger's own level, NotSet when it inherits.
func (l *Logger) Level() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// EffectiveLevel resolves the threshold: own level, else the nearest ancestor's,
// else the global configuration level.
func (l *Logger) EffectiveLevel() Level {
	for cur := l; cur != nil; cur = cur.parent {
		if level := cur.Level(); level != NotSet {
			return level
		}
	}
	return l.manager.config.Level()
}

// AddHandler appends h to the logger's own handlers.
func (l *Logger) AddHandler(h Handler) {
	if h == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers = append(l.handlers, h)
}

// RemoveHandler removes the first occurrence of h. It does nothing when h is not
// attached.
func (l *Logger) RemoveHandler(h Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, existing := range l.handlers {
		if sameHandler(existing, h) {
			l.handlers = append(l.handlers[:i:i], l.handlers[i+1:]...)
			return
		}
	}
}

// RemoveAllHandlers detaches every handler from the logger.
func (l *Logger) RemoveAllHandlers() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers = nil
}

// Handlers returns a copy of the logger's own handlers.
func (l *Logger) Handlers() []Handler {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Handler(nil), l.handlers...)
}

// SetDisabled turns the logger off (or back on). A disabled logger drops every
// record, including records propagated from its descendants.
func (l *Logger) SetDisabled(disabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disabled = disabled
}

// Disabled reports whether the logger is disabled.
func (l *Logger) Disabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.disabled
}

// GetChild returns the logger named "<name>.<suffix>", creating it if needed.
// Children of root are named by suffix alone.
func (l *Logger) GetChild(suffix string) *Logger {
	if l.name == RootName {
		return l.manager.registry.GetLogger(suffix)
	}
	return l.manager.registry.GetLogger(l.name + "." + suffix)
}

// Children returns the direct children sorted by name.
func (l *Logger) Children() []*Logger {
	l.mu.RLock()
	children := make([]*Logger, 0, len(l.children))
	for _, c := range l.children {
		children = append(children, c)
	}
	l.mu.RUnlock()

	sort.Slice(children, func(i, j int) bool { return children[i].name < children[j].name })
	return children
}

// HasChild reports whether suffix names a direct child.
func (l *Logger) HasChild(suffix string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.children[suffix]
	return ok
}

func (l *Logger) addChild(suffix string, child *Logger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.children[suffix] = child
}

// IsEnabledFor reports whether a record at level would be emitted.
func (l *Logger) IsEnabledFor(level Level) bool {
	if l.Disabled() {
		return false
	}
	if floor := l.manager.config.DisableLevel(); floor != NotSet && level <= floor {
		return false
	}
	return IsLevelEnabled(l.EffectiveLevel(), level)
}

// emit is the single entry point of every logging method. Nothing is allocated
// for records that are not enabled.
func (l *Logger) emit(ctx context.Context, level Level, msg string, args []any, extra map[string]any, err error) {
	if !l.IsEnabledFor(level) {
		return
	}
	if err == nil {
		err = firstError(args)
	}
	if ctx != nil {
		if fields := ContextFields(ctx); len(fields) > 0 {
			for k, v := range extra {
				fields[k] = v
			}
			extra = fields
		}
	}
	l.Handle(l.manager.newRecord(l.name, level, msg, args, extra, err))
}

// Handle dispatches r. Starting at this logger and walking toward root, each
// logger runs its own handlers or, when it has none, the global default handlers;
// the walk stops after the first logger that has handlers of its own, or at a
// disabled logger.
//
// A logger without handlers therefore both fires the defaults and propagates, so
// a record from such a logger reaches the defaults and its ancestors' handlers.
// The defaults run at most once per record.
func (l *Logger) Handle(r *Record) {
	defaultsDone := false
	for cur := l; cur != nil; cur = cur.parent {
		if cur.Disabled() {
			return
		}

		own := cur.Handlers()
		if len(own) > 0 {
			cur.callHandlers(own, r)
			return
		}
		if !defaultsDone {
			cur.callHandlers(l.manager.config.Handlers(), r)
			defaultsDone = true
		}
	}
}

func (l *Logger) callHandlers(handlers []Handler, r *Record) {
	for _, h := range handlers {
		l.callHandler(h, r)
	}
}

// callHandler contains handler failures so that one handler cannot stop the next
// one or the caller.
func (l *Logger) callHandler(h Handler, r *Record) {
	defer func() {
		if p := recover(); p != nil {
			l.manager.reportError(r, fmt.Errorf("handler panic: %v", p))
		}
	}()
	if err := h.Handle(r); err != nil {
		l.manager.reportError(r, err)
	}
}

// Log emits msg at level.
func (l *Logger) Log(level Level, msg string, args ...any) {
	l.emit(nil, level, msg, args, nil, nil)
}

// LogContext emits msg at level with the correlation fields found in ctx.
func (l *Logger) LogContext(ctx context.Context, level Level, msg string, args ...any) {
	l.emit(ctx, level, msg, args, nil, nil)
}

// LogExtra emits msg at level with extra attached to the record.
func (l *Logger) LogExtra(level Level, msg string, extra map[string]any, args ...any) {
	l.emit(nil, level, msg, args, extra, nil)
}

// Exception emits msg at Error level with err as the record's exception.
func (l *Logger) Exception(err error, msg string, args ...any) {
	l.emit(nil, Error, msg, args, nil, err)
}

func (l *Logger) Trace(msg string, args ...any) {
	l.emit(nil, Trace, msg, args, nil, nil)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.emit(nil, Debug, msg, args, nil, nil)
}

func (l *Logger) Info(msg string, args ...any) {
	l.emit(nil, Info, msg, args, nil, nil)
}

func (l *Logger) Warning(msg string, args ...any) {
	l.emit(nil, Warning, msg, args, nil, nil)
}

// Warn is an alias of Warning.
func (l *Logger) Warn(msg string, args ...any) {
	l.Warning(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.emit(nil, Error, msg, args, nil, nil)
}

func (l *Logger) Critical(msg string, args ...any) {
	l.emit(nil, Critical, msg, args, nil, nil)
}

// Fatal is an alias of Critical. It does not exit the process.
func (l *Logger) Fatal(msg string, args ...any) {
	l.Critical(msg, args...)
}

// Printf-style variants. The message is formatted only when the level is enabled.

func (l *Logger) logf(level Level, format string, args []any) {
	if !l.IsEnabledFor(level) {
		return
	}
	l.emit(nil, level, fmt.Sprintf(format, args...), nil, nil, firstError(args))
}

func (l *Logger) Debugf(format string, args ...any) {
	l.logf(Debug, format, args)
}

func (l *Logger) Infof(format string, args ...any) {
	l.logf(Info, format, args)
}

func (l *Logger) Warningf(format string, args ...any) {
	l.logf(Warning, format, args)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.logf(Error, format, args)
}

func (l *Logger) Criticalf(format string, args ...any) {
	l.logf(Critical, format, args)
}

// Context-aware variants

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, Debug, msg, args, nil, nil)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, Info, msg, args, nil, nil)
}

func (l *Logger) WarningContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, Warning, msg, args, nil, nil)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, Error, msg, args, nil, nil)
}

func (l *Logger) CriticalContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, Critical, msg, args, nil, nil)
}

// LoggerInfo is a diagnostic snapshot of one logger.
type LoggerInfo struct {
	Name           string   `json:"name"`
	Level          int      `json:"level"`
	EffectiveLevel Level    `json:"effective_level"`
	Handlers       int      `json:"handlers"`
	Parent         string   `json:"parent,omitempty"`
	Children       []string `json:"children"`
	Disabled       bool     `json:"disabled"`
}

// LoggerInfo returns a snapshot of the logger. Level is -1 when the logger
// inherits; Parent is empty for root.
func (l *Logger) LoggerInfo() LoggerInfo {
	l.mu.RLock()
	info := LoggerInfo{
		Name:     l.name,
		Level:    int(l.level),
		Handlers: len(l.handlers),
		Disabled: l.disabled,
		Children: make([]string, 0, len(l.children)),
	}
	for suffix := range l.children {
		info.Children = append(info.Children, suffix)
	}
	l.mu.RUnlock()

	if info.Level == int(NotSet) {
		info.Level = -1
	}
	if l.parent != nil {
		info.Parent = l.parent.name
	}
	sort.Strings(info.Children)
	info.EffectiveLevel = l.EffectiveLevel()
	return info
}
