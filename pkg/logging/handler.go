// pkg/logging/handler.go
package logging

import (
	"io"
	"os"
	"reflect"
	"sync"
)

// Formatter renders a record as text. Implementations must not modify the record.
type Formatter interface {
	Format(r *Record) string
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(r *Record) string

// Format calls f(r).
func (f FormatterFunc) Format(r *Record) string {
	return f(r)
}

// BasicFormatter renders "LEVEL:name:message".
var BasicFormatter Formatter = FormatterFunc(func(r *Record) string {
	return r.LevelName + ":" + r.Name + ":" + r.GetMessage()
})

// Handler consumes records. A returned error is reported on the manager's
// diagnostic channel and never reaches the logging caller.
type Handler interface {
	Handle(r *Record) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(r *Record) error

// Handle calls f(r).
func (f HandlerFunc) Handle(r *Record) error {
	return f(r)
}

// sameHandler compares handlers by identity. Func-backed handlers are not
// comparable with ==, so they are compared by code pointer.
func sameHandler(a, b Handler) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() == reflect.Func {
		return va.Pointer() == vb.Pointer()
	}
	return false
}

// streamHandler is the built-in default sink. It formats with the formatter
// currently held by its Config so BasicConfig(Formatter) takes effect on it.
type streamHandler struct {
	mu     sync.Mutex
	w      io.Writer
	config *Config
}

func newStderrHandler(cfg *Config) *streamHandler {
	return &streamHandler{w: os.Stderr, config: cfg}
}

func (h *streamHandler) Handle(r *Record) error {
	f := BasicFormatter
	if h.config != nil {
		f = h.config.Formatter()
	}
	line := f.Format(r) + "\n"

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line)
	return err
}
