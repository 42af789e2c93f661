// pkg/formatters/redact.go
package formatters

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// Redaction markers written in place of sensitive values.
const (
	Redacted        = "[REDACTED]"
	RedactedPattern = "[REDACTED:pattern]"
)

// maxPatternLen bounds redaction patterns as a basic ReDoS guard.
const maxPatternLen = 200

// RedactionConfig controls sensitive data redaction.
type RedactionConfig struct {
	Enabled  bool     `koanf:"enabled"`
	Fields   []string `koanf:"fields"`
	Patterns []string `koanf:"patterns"`
}

// DefaultRedactionConfig redacts common credential keys and bearer/api-key values.
func DefaultRedactionConfig() RedactionConfig {
	return RedactionConfig{
		Enabled: true,
		Fields: []string{
			"password", "secret", "token", "api_key",
			"authorization", "bearer", "credential", "private_key",
		},
		Patterns: []string{
			`(?i)bearer\s+\S+`,
			`(?i)api[_-]?key[=:]\s*\S+`,
		},
	}
}

// Validate checks that every pattern compiles and is within bounds.
func (c RedactionConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	for _, p := range c.Patterns {
		if len(p) > maxPatternLen {
			return fmt.Errorf("redaction pattern too long (max %d chars): %q", maxPatternLen, p)
		}
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
	}
	return nil
}

// Redactor decides which keys and values are sensitive. The zero value redacts
// nothing.
type Redactor struct {
	fields   map[string]bool
	patterns []*regexp.Regexp
}

// NewRedactor compiles cfg. Returns an error if any pattern fails to compile.
func NewRedactor(cfg RedactionConfig) (*Redactor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		return &Redactor{}, nil
	}

	fields := make(map[string]bool, len(cfg.Fields))
	for _, f := range cfg.Fields {
		fields[strings.ToLower(f)] = true
	}
	patterns := make([]*regexp.Regexp, 0, len(cfg.Patterns))
	for _, p := range cfg.Patterns {
		patterns = append(patterns, regexp.MustCompile(p))
	}
	return &Redactor{fields: fields, patterns: patterns}, nil
}

// SensitiveKey reports whether values under key are always redacted.
func (r *Redactor) SensitiveKey(key string) bool {
	return r.fields[strings.ToLower(key)]
}

// SensitiveValue reports whether s matches a redaction pattern.
func (r *Redactor) SensitiveValue(s string) bool {
	for _, re := range r.patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// String returns s redacted, or unchanged.
func (r *Redactor) String(key, s string) string {
	if r.SensitiveKey(key) {
		return Redacted
	}
	if r.SensitiveValue(s) {
		return RedactedPattern
	}
	return s
}

// Value redacts v under key. Non-string values under sensitive keys are replaced
// entirely; nested maps are redacted recursively up to maxValueDepth levels, below
// which they are redacted whole.
func (r *Redactor) Value(key string, v any) any {
	return r.value(key, v, 0)
}

// Map returns a redacted copy of m. A nil m returns nil.
func (r *Redactor) Map(m map[string]any) map[string]any {
	return r.mapAt(m, 0)
}

func (r *Redactor) value(key string, v any, depth int) any {
	if r.SensitiveKey(key) {
		return Redacted
	}
	switch val := v.(type) {
	case string:
		if r.SensitiveValue(val) {
			return RedactedPattern
		}
	case map[string]any:
		if depth >= maxValueDepth {
			return Redacted
		}
		return r.mapAt(val, depth+1)
	}
	return v
}

func (r *Redactor) mapAt(m map[string]any, depth int) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = r.value(k, v, depth)
	}
	return out
}

// Lines redacts each line of s that matches a redaction pattern.
func (r *Redactor) Lines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if r.SensitiveValue(line) {
			lines[i] = RedactedPattern
		}
	}
	return strings.Join(lines, "\n")
}

// Field redacts a zap field.
func (r *Redactor) Field(f zapcore.Field) zapcore.Field {
	if r.SensitiveKey(f.Key) {
		return zap.String(f.Key, Redacted)
	}
	if f.Type == zapcore.StringType && r.SensitiveValue(f.String) {
		return zap.String(f.Key, RedactedPattern)
	}
	return f
}

// RedactingEncoder wraps a zapcore.Encoder to redact sensitive fields.
type RedactingEncoder struct {
	zapcore.Encoder
	redactor *Redactor
}

// NewRedactingEncoder wraps base with redactor. A nil redactor redacts nothing.
func NewRedactingEncoder(base zapcore.Encoder, redactor *Redactor) *RedactingEncoder {
	if redactor == nil {
		redactor = &Redactor{}
	}
	return &RedactingEncoder{Encoder: base, redactor: redactor}
}

// EncodeEntry redacts the entry's fields before encoding them.
func (e *RedactingEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	redacted := make([]zapcore.Field, len(fields))
	for i, f := range fields {
		redacted[i] = e.redactor.Field(f)
	}
	return e.Encoder.EncodeEntry(ent, redacted)
}

// AddString redacts sensitive field names and value patterns.
func (e *RedactingEncoder) AddString(key, val string) {
	e.Encoder.AddString(key, e.redactor.String(key, val))
}

// AddByteString redacts sensitive field names.
func (e *RedactingEncoder) AddByteString(key string, val []byte) {
	if e.redactor.SensitiveKey(key) {
		e.Encoder.AddByteString(key, []byte(Redacted))
		return
	}
	e.Encoder.AddByteString(key, val)
}

// AddBinary redacts sensitive field names.
func (e *RedactingEncoder) AddBinary(key string, val []byte) {
	if e.redactor.SensitiveKey(key) {
		e.Encoder.AddBinary(key, []byte(Redacted))
		return
	}
	e.Encoder.AddBinary(key, val)
}

// AddReflected redacts the entire value if the key is sensitive.
func (e *RedactingEncoder) AddReflected(key string, val interface{}) error {
	if e.redactor.SensitiveKey(key) {
		e.Encoder.AddString(key, Redacted)
		return nil
	}
	return e.Encoder.AddReflected(key, val)
}

// AddArray redacts sensitive field names.
func (e *RedactingEncoder) AddArray(key string, arr zapcore.ArrayMarshaler) error {
	if e.redactor.SensitiveKey(key) {
		e.Encoder.AddString(key, Redacted)
		return nil
	}
	return e.Encoder.AddArray(key, arr)
}

// AddObject redacts sensitive field names.
func (e *RedactingEncoder) AddObject(key string, obj zapcore.ObjectMarshaler) error {
	if e.redactor.SensitiveKey(key) {
		e.Encoder.AddString(key, Redacted)
		return nil
	}
	return e.Encoder.AddObject(key, obj)
}

// Clone creates a copy of the encoder.
func (e *RedactingEncoder) Clone() zapcore.Encoder {
	return &RedactingEncoder{
		Encoder:  e.Encoder.Clone(),
		redactor: e.redactor,
	}
}
