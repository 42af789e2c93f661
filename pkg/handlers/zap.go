// pkg/handlers/zap.go
package handlers

import (
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/logtree/pkg/formatters"
	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

// ZapHandler forwards records to a zapcore.Core. The record's logger name,
// time and message become the zap entry; extra and exception data become
// fields. Options.Formatter is ignored.
type ZapHandler struct {
	core zapcore.Core
	opts Options
}

// NewZap returns a handler writing to z's core. A nil z drops everything.
func NewZap(z *zap.Logger, opts Options) *ZapHandler {
	if z == nil {
		z = zap.NewNop()
	}
	return NewZapCore(z.Core(), opts)
}

// NewZapCore returns a handler writing to core.
func NewZapCore(core zapcore.Core, opts Options) *ZapHandler {
	return &ZapHandler{core: core, opts: opts}
}

// OTelConfig controls NewOTel.
type OTelConfig struct {
	Options
	// Scope is the instrumentation scope name. Defaults to "logtree".
	Scope string
	// Provider defaults to the global OpenTelemetry logger provider.
	Provider log.LoggerProvider
}

// NewOTel returns a handler emitting records through the OpenTelemetry logs
// bridge.
func NewOTel(cfg OTelConfig) *ZapHandler {
	scope := cfg.Scope
	if scope == "" {
		scope = "logtree"
	}
	var opts []otelzap.Option
	if cfg.Provider != nil {
		opts = append(opts, otelzap.WithLoggerProvider(cfg.Provider))
	}
	return NewZapCore(otelzap.NewCore(scope, opts...), cfg.Options)
}

// Handle implements logging.Handler.
func (h *ZapHandler) Handle(r *logging.Record) error {
	if !h.opts.Accept(r) {
		return nil
	}
	ent := zapcore.Entry{
		Level:      formatters.ZapLevel(r.Level),
		Time:       r.Time,
		LoggerName: r.Name,
		Message:    r.GetMessage(),
	}
	if ce := h.core.Check(ent, nil); ce != nil {
		ce.Write(formatters.RecordFields(r)...)
	}
	return nil
}

// Sync flushes the underlying core.
func (h *ZapHandler) Sync() error {
	return h.core.Sync()
}
