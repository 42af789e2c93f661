// pkg/handlers/handlers.go

// Package handlers provides logging.Handler implementations: console, stream,
// file and memory sinks, zap and OpenTelemetry bridges, and wrappers for
// sampling, rate limiting, redaction and metrics.
package handlers

import (
	"errors"

	"github.com/fyrsmithlabs/logtree/pkg/formatters"
	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

// ErrClosed is returned by handlers used after Close.
var ErrClosed = errors.New("handler closed")

// Options are shared by the writing handlers.
type Options struct {
	// Level drops records below it. NotSet accepts every level.
	Level logging.Level
	// Formatter renders records. Defaults to formatters.Basic.
	Formatter logging.Formatter
	// Filter drops records for which it returns false.
	Filter func(*logging.Record) bool
}

// Accept reports whether r passes the level and filter checks.
func (o Options) Accept(r *logging.Record) bool {
	if o.Level > logging.NotSet && !logging.IsLevelEnabled(o.Level, r.Level) {
		return false
	}
	if o.Filter != nil && !o.Filter(r) {
		return false
	}
	return true
}

func (o Options) format(r *logging.Record) string {
	if o.Formatter == nil {
		return formatters.Basic.Format(r)
	}
	return o.Formatter.Format(r)
}

// LevelFilter returns a filter accepting records at or above min and below max.
// A NotSet max means no upper bound.
func LevelFilter(min, max logging.Level) func(*logging.Record) bool {
	return func(r *logging.Record) bool {
		if r.Level < min {
			return false
		}
		return max == logging.NotSet || r.Level < max
	}
}

// NameFilter returns a filter accepting records from logger name and its
// descendants.
func NameFilter(name string) func(*logging.Record) bool {
	return func(r *logging.Record) bool {
		return matchesLogger(r.Name, name)
	}
}

func matchesLogger(recordName, name string) bool {
	return recordName == name || (len(recordName) > len(name) && recordName[:len(name)] == name && recordName[len(name)] == '.')
}
