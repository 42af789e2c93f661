// pkg/handlers/redact.go
package handlers

import (
	"github.com/fyrsmithlabs/logtree/pkg/formatters"
	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

// RedactingHandler passes a copy of each record with sensitive extra values and
// exception text redacted. The original record is left untouched for other handlers.
type RedactingHandler struct {
	next     logging.Handler
	redactor *formatters.Redactor
}

// NewRedacting wraps next with redactor.
func NewRedacting(next logging.Handler, redactor *formatters.Redactor) *RedactingHandler {
	return &RedactingHandler{next: next, redactor: redactor}
}

// Handle implements logging.Handler.
func (h *RedactingHandler) Handle(r *logging.Record) error {
	if h.redactor == nil || (len(r.Extra) == 0 && r.Exc == nil) {
		return h.next.Handle(r)
	}
	return h.next.Handle(r.Clone(func(c *logging.Record) {
		c.Extra = h.redactor.Map(c.Extra)
		if c.Exc != nil {
			if h.redactor.SensitiveValue(c.Exc.Message) {
				c.Exc.Message = formatters.RedactedPattern
			}
			c.Exc.Stack = h.redactor.Lines(c.Exc.Stack)
		}
	}))
}

// Unwrap returns the wrapped handler.
func (h *RedactingHandler) Unwrap() logging.Handler {
	return h.next
}
