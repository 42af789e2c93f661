// pkg/logging/record.go
package logging

import (
	"errors"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
)

// Record is one logging event. Handlers must treat it as read-only; use Clone to
// derive a modified copy.
type Record struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Level     Level          `json:"level"`
	LevelName string         `json:"level_name"`
	Message   string         `json:"message"`
	Time      time.Time      `json:"timestamp"`
	Args      []any          `json:"args,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
	Exc       *ExcInfo       `json:"exc_info,omitempty"`
}

// ExcInfo is a snapshot of the error attached to a record.
type ExcInfo struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// stackTracer is implemented by errors created with github.com/pkg/errors.
type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// NewRecord builds a record stamped with the current time. args and extra are
// copied, so the caller may reuse them. err, when non-nil, is captured as the
// record's exception info.
func NewRecord(name string, level Level, levelName, message string, args []any, extra map[string]any, err error) *Record {
	return newRecord(time.Now(), name, level, levelName, message, args, extra, err)
}

func newRecord(now time.Time, name string, level Level, levelName, message string, args []any, extra map[string]any, err error) *Record {
	r := &Record{
		Name:      name,
		Level:     level,
		LevelName: levelName,
		Message:   message,
		Time:      now,
	}
	if args != nil {
		r.Args = append([]any(nil), args...)
	}
	if len(extra) > 0 {
		r.Extra = make(map[string]any, len(extra))
		for k, v := range extra {
			r.Extra[k] = v
		}
	}
	if err != nil {
		r.Exc = newExcInfo(err)
	}
	return r
}

func newExcInfo(err error) *ExcInfo {
	exc := &ExcInfo{
		Name:    fmt.Sprintf("%T", err),
		Message: err.Error(),
	}
	var st stackTracer
	if errors.As(err, &st) {
		exc.Stack = fmt.Sprintf("%+v", st)
	}
	return exc
}

// firstError returns the first error value in args, preserving argument order.
func firstError(args []any) error {
	for _, arg := range args {
		if err, ok := arg.(error); ok && err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a copy of r that shares no mutable state with it. Overrides are
// applied to the copy in order.
func (r *Record) Clone(overrides ...func(*Record)) *Record {
	c := *r
	if r.Args != nil {
		c.Args = make([]any, len(r.Args))
		copy(c.Args, r.Args)
	}
	if r.Extra != nil {
		c.Extra = make(map[string]any, len(r.Extra))
		for k, v := range r.Extra {
			c.Extra[k] = v
		}
	}
	if r.Exc != nil {
		exc := *r.Exc
		c.Exc = &exc
	}
	for _, o := range overrides {
		o(&c)
	}
	return &c
}

// HasException reports whether the record carries exception info.
func (r *Record) HasException() bool {
	return r.Exc != nil
}

// ExceptionString renders the exception info: the stack when present, otherwise
// "Name: Message". Empty when the record has no exception.
func (r *Record) ExceptionString() string {
	if r.Exc == nil {
		return ""
	}
	if r.Exc.Stack != "" {
		return r.Exc.Stack
	}
	return r.Exc.Name + ": " + r.Exc.Message
}

// GetMessage returns the message with Args applied as fmt verbs. A message without
// args or without verbs is returned unchanged, so trailing payload arguments such
// as errors do not garble it. When every arg is an error and formatting reports a
// verb mismatch, the raw message is returned; unused error args are dropped.
func (r *Record) GetMessage() string {
	if len(r.Args) == 0 || !strings.Contains(r.Message, "%") {
		return r.Message
	}
	out := fmt.Sprintf(r.Message, r.Args...)
	if !onlyErrors(r.Args) {
		return out
	}
	if i := strings.Index(out, "%!(EXTRA "); i >= 0 {
		out = out[:i]
	}
	if strings.Contains(out, "%!") {
		return r.Message
	}
	return out
}

func onlyErrors(args []any) bool {
	for _, arg := range args {
		if _, ok := arg.(error); !ok {
			return false
		}
	}
	return true
}
