// Package logging provides hierarchical, named loggers with pluggable handlers
// and formatters.
//
// # Overview
//
// Loggers are identified by dotted names ("app.db.pool") and form a tree rooted
// at the "root" logger. Every logger:
//   - Has an optional own level; unset levels inherit from the nearest ancestor
//     and finally from the global configuration (Warning by default)
//   - Has its own handlers; a logger without handlers uses the global default
//     handlers and propagates records to its parent
//   - Can be disabled, which drops its records and those propagated through it
//
// # Usage
//
//	log := logging.GetLogger("app.db")
//	log.Info("connected to %s", dsn)
//
//	logging.Configure(logging.BasicConfig{Level: logging.Info})
//
// Isolated hierarchies use an explicit Manager:
//
//	m := logging.NewManager(logging.WithReporter(logging.NewZapReporter(z)))
//	m.AddHandler("app", handlers.NewConsole(handlers.ConsoleConfig{}))
//	m.GetLogger("app.http").Warning("slow request")
//
// # Dispatch
//
// Handle walks from the emitting logger toward root. A logger with handlers runs
// them and stops the walk. A logger without handlers runs the global defaults
// (at most once per record) and continues to its parent, so a record from such a
// logger can reach the defaults and an ancestor's handlers.
//
// Handler errors and panics are contained and reported to the Manager's
// ErrorReporter; they never reach the logging call.
//
// # Context
//
// Context variants (InfoContext, ...) attach correlation fields to the record's
// Extra: OpenTelemetry trace_id and span_id, session.id, request.id and any
// fields added with WithFields.
//
// # Concurrency Safety
//
// Managers, loggers and the built-in handlers are safe for concurrent use.
// Handlers are called without any internal lock held, so they may log.
package logging
