// pkg/logging/level.go
package logging

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Level is a numeric severity. Higher values are more severe.
type Level int

// Severity anchors. NotSet means "no explicit level, inherit from the parent".
const (
	NotSet   Level = 0
	Trace    Level = 5
	Debug    Level = 10
	Info     Level = 20
	Warning  Level = 30
	Error    Level = 40
	Critical Level = 50

	Warn  = Warning
	Fatal = Critical
)

var (
	levelMu sync.RWMutex

	levelToName = map[Level]string{
		NotSet:   "NOTSET",
		Trace:    "TRACE",
		Debug:    "DEBUG",
		Info:     "INFO",
		Warning:  "WARNING",
		Error:    "ERROR",
		Critical: "CRITICAL",
	}

	nameToLevel = map[string]Level{
		"NOTSET":   NotSet,
		"TRACE":    Trace,
		"DEBUG":    Debug,
		"INFO":     Info,
		"WARNING":  Warning,
		"WARN":     Warning,
		"ERROR":    Error,
		"CRITICAL": Critical,
		"FATAL":    Critical,
	}
)

// LevelName returns the display name for level, or "Level <n>" when the value has
// no registered name.
func LevelName(level Level) string {
	levelMu.RLock()
	name, ok := levelToName[level]
	levelMu.RUnlock()
	if ok {
		return name
	}
	return "Level " + strconv.Itoa(int(level))
}

// LevelByName looks a level up by name, ignoring case.
func LevelByName(name string) (Level, bool) {
	levelMu.RLock()
	defer levelMu.RUnlock()
	level, ok := nameToLevel[strings.ToUpper(name)]
	return level, ok
}

// AddLevelName registers name for level. Records created before the call keep the
// name they were created with.
func AddLevelName(level Level, name string) {
	levelMu.Lock()
	defer levelMu.Unlock()
	levelToName[level] = name
	nameToLevel[strings.ToUpper(name)] = level
}

// IsLevelEnabled reports whether a record at candidate passes a threshold of current.
func IsLevelEnabled(current, candidate Level) bool {
	return current <= candidate
}

// EffectiveLevel resolves NotSet to fallback.
func EffectiveLevel(level, fallback Level) Level {
	if level == NotSet {
		return fallback
	}
	return level
}

// IsValidLevel reports whether level can be used as a threshold.
func IsValidLevel(level Level) bool {
	return level >= 0
}

func (l Level) String() string {
	return LevelName(l)
}

// MarshalText implements encoding.TextMarshaler. Unnamed levels are written as
// integers so they round-trip through UnmarshalText.
func (l Level) MarshalText() ([]byte, error) {
	levelMu.RLock()
	name, ok := levelToName[l]
	levelMu.RUnlock()
	if !ok {
		name = strconv.Itoa(int(l))
	}
	return []byte(name), nil
}

// UnmarshalText accepts a level name (any case) or an integer.
func (l *Level) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if level, ok := LevelByName(s); ok {
		*l = level
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("unknown level %q", s)
	}
	if !IsValidLevel(Level(n)) {
		return fmt.Errorf("level must be >= 0, got %d", n)
	}
	*l = Level(n)
	return nil
}
