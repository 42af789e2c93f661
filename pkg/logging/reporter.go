// pkg/logging/reporter.go
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrorReporter receives handler failures. It is the diagnostic side channel of a
// Manager and must not log through the Manager it reports for.
type ErrorReporter interface {
	HandlerError(r *Record, err error)
}

// ZapReporter reports handler failures to a zap logger.
type ZapReporter struct {
	zap *zap.Logger
}

// NewZapReporter wraps z. A nil z reports nothing.
func NewZapReporter(z *zap.Logger) *ZapReporter {
	if z == nil {
		z = zap.NewNop()
	}
	return &ZapReporter{zap: z}
}

// NewStderrReporter returns a reporter writing console-encoded entries to stderr.
func NewStderrReporter() *ZapReporter {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		zapcore.WarnLevel,
	)
	return NewZapReporter(zap.New(core).Named("logtree"))
}

// HandlerError implements ErrorReporter.
func (z *ZapReporter) HandlerError(r *Record, err error) {
	fields := []zap.Field{zap.Error(err)}
	if r != nil {
		fields = append(fields,
			zap.String("logger", r.Name),
			zap.String("level", r.LevelName),
			zap.String("record_id", r.ID),
		)
	}
	z.zap.Error("error in log handler", fields...)
}

// Underlying returns the zap logger behind the reporter.
func (z *ZapReporter) Underlying() *zap.Logger {
	return z.zap
}
