// pkg/formatters/zap.go
package formatters

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

// TraceLevel is the zap level records at logging.Trace map to. It sits below
// zap's Debug.
const TraceLevel = zapcore.Level(-2)

// ZapLevel maps a logging level onto zap's scale. Critical has no zap
// equivalent and maps to Error; RecordFields carries the original name.
func ZapLevel(level logging.Level) zapcore.Level {
	switch {
	case level <= logging.Trace:
		return TraceLevel
	case level <= logging.Debug:
		return zapcore.DebugLevel
	case level <= logging.Info:
		return zapcore.InfoLevel
	case level <= logging.Warning:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// LevelEncoder writes "trace" for TraceLevel and zap's lowercase names otherwise.
func LevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if l == TraceLevel {
		enc.AppendString("trace")
		return
	}
	zapcore.LowercaseLevelEncoder(l, enc)
}

// RecordFields converts a record's extra and exception data into zap fields in
// key order. Records above Error get a level_name field.
func RecordFields(r *logging.Record) []zap.Field {
	fields := make([]zap.Field, 0, len(r.Extra)+3)

	keys := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, zap.Any(k, r.Extra[k]))
	}

	if r.Level > logging.Error {
		fields = append(fields, zap.String("level_name", r.LevelName))
	}
	if r.Exc != nil {
		fields = append(fields, zap.String("error", r.Exc.Message), zap.String("error_type", r.Exc.Name))
		if r.Exc.Stack != "" {
			fields = append(fields, zap.String("stacktrace", r.Exc.Stack))
		}
	}
	return fields
}

// ZapEncoderConfig controls NewZapEncoder.
type ZapEncoderConfig struct {
	// Format is "json" or "console".
	Format    string          `koanf:"format"`
	Redaction RedactionConfig `koanf:"redaction"`
}

// NewEncoder creates a JSON or console zap encoder with ISO8601 "ts" timestamps.
func NewEncoder(format string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = LevelEncoder

	if format == "console" {
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewJSONEncoder(encoderCfg)
}

// NewZapEncoder returns a formatter that renders records through a zap encoder,
// redacting sensitive extra fields.
func NewZapEncoder(cfg ZapEncoderConfig) (logging.Formatter, error) {
	if cfg.Format != "" && cfg.Format != "json" && cfg.Format != "console" {
		return nil, fmt.Errorf("format must be 'json' or 'console', got %q", cfg.Format)
	}
	redactor, err := NewRedactor(cfg.Redaction)
	if err != nil {
		return nil, fmt.Errorf("failed to create redactor: %w", err)
	}
	enc := NewRedactingEncoder(NewEncoder(cfg.Format), redactor)

	return logging.FormatterFunc(func(r *logging.Record) string {
		redacted := r.Clone(func(c *logging.Record) { c.Extra = redactor.Map(c.Extra) })
		entry := zapcore.Entry{
			Level:      ZapLevel(r.Level),
			Time:       r.Time,
			LoggerName: r.Name,
			Message:    r.GetMessage(),
		}
		buf, err := enc.EncodeEntry(entry, RecordFields(redacted))
		if err != nil {
			return r.LevelName + ":" + r.Name + ":" + r.GetMessage()
		}
		defer buf.Free()
		return strings.TrimSuffix(buf.String(), "\n")
	}), nil
}
