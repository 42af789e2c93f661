package formatters

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

func TestZapLevel(t *testing.T) {
	tests := []struct {
		level logging.Level
		want  zapcore.Level
	}{
		{logging.Trace, TraceLevel},
		{logging.Debug, zapcore.DebugLevel},
		{logging.Info, zapcore.InfoLevel},
		{logging.Level(25), zapcore.WarnLevel},
		{logging.Warning, zapcore.WarnLevel},
		{logging.Error, zapcore.ErrorLevel},
		{logging.Critical, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ZapLevel(tt.level), tt.level.String())
	}
}

func TestRecordFields(t *testing.T) {
	r := record(logging.Critical, "meltdown", map[string]any{"b": 2, "a": "x"}, errors.New("boom"))

	fields := RecordFields(r)

	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	assert.Equal(t, "x", enc.Fields["a"])
	assert.Equal(t, int64(2), enc.Fields["b"])
	assert.Equal(t, "CRITICAL", enc.Fields["level_name"])
	assert.Equal(t, "boom", enc.Fields["error"])
	assert.Equal(t, "a", fields[0].Key)
}

func TestNewZapEncoder_JSON(t *testing.T) {
	f, err := NewZapEncoder(ZapEncoderConfig{Format: "json", Redaction: DefaultRedactionConfig()})
	require.NoError(t, err)

	r := record(logging.Warning, "login", map[string]any{
		"user":     "u1",
		"password": "hunter2",
		"header":   "Bearer abc.def",
	}, nil)

	got := f.Format(r)

	assert.JSONEq(t, `{
		"level": "warn",
		"ts": "2025-11-24T10:15:30.123Z",
		"logger": "svc.db",
		"msg": "login",
		"user": "u1",
		"password": "[REDACTED]",
		"header": "[REDACTED:pattern]"
	}`, got)
	assert.Equal(t, "hunter2", r.Extra["password"], "record is not modified")
}

func TestNewZapEncoder_Console(t *testing.T) {
	f, err := NewZapEncoder(ZapEncoderConfig{Format: "console"})
	require.NoError(t, err)

	got := f.Format(record(logging.Trace, "step", nil, nil))

	assert.Contains(t, got, "trace")
	assert.Contains(t, got, "svc.db")
	assert.Contains(t, got, "step")
	assert.NotContains(t, got, "\n")
}

func TestNewZapEncoder_InvalidConfig(t *testing.T) {
	_, err := NewZapEncoder(ZapEncoderConfig{Format: "xml"})
	assert.Error(t, err)

	_, err = NewZapEncoder(ZapEncoderConfig{Redaction: RedactionConfig{Enabled: true, Patterns: []string{"("}}})
	assert.Error(t, err)
}

func TestRedactor(t *testing.T) {
	r, err := NewRedactor(DefaultRedactionConfig())
	require.NoError(t, err)

	assert.True(t, r.SensitiveKey("Authorization"))
	assert.False(t, r.SensitiveKey("user"))
	assert.Equal(t, Redacted, r.String("token", "abc"))
	assert.Equal(t, RedactedPattern, r.String("note", "api_key=xyz"))
	assert.Equal(t, "plain", r.String("note", "plain"))

	got := r.Map(map[string]any{
		"secret": 42,
		"nested": map[string]any{"password": "p", "ok": "v"},
		"count":  3,
	})
	assert.Equal(t, map[string]any{
		"secret": Redacted,
		"nested": map[string]any{"password": Redacted, "ok": "v"},
		"count":  3,
	}, got)
	assert.Nil(t, r.Map(nil))
}

func TestRedactor_Disabled(t *testing.T) {
	r, err := NewRedactor(RedactionConfig{Fields: []string{"password"}})
	require.NoError(t, err)
	assert.Equal(t, "p", r.String("password", "p"))
}

func TestRedactionConfig_Validate(t *testing.T) {
	long := make([]byte, maxPatternLen+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, RedactionConfig{Enabled: true, Patterns: []string{string(long)}}.Validate())
	assert.NoError(t, RedactionConfig{Enabled: false, Patterns: []string{"("}}.Validate())
}

func TestRedactingEncoder_ContextFields(t *testing.T) {
	redactor, err := NewRedactor(DefaultRedactionConfig())
	require.NoError(t, err)
	enc := NewRedactingEncoder(NewEncoder("json"), redactor)

	clone := enc.Clone()
	clone.AddString("token", "abc")
	clone.AddString("user", "u1")

	buf, err := clone.EncodeEntry(zapcore.Entry{Message: "m"}, []zapcore.Field{zap.String("api_key", "k")})
	require.NoError(t, err)
	defer buf.Free()

	out := buf.String()
	assert.Contains(t, out, `"token":"[REDACTED]"`)
	assert.Contains(t, out, `"api_key":"[REDACTED]"`)
	assert.Contains(t, out, `"user":"u1"`)
}
