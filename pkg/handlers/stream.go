// pkg/handlers/stream.go
package handlers

import (
	"io"
	"os"
	"sync"

	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

// StreamConfig controls NewStream.
type StreamConfig struct {
	Options
	// OnError receives write failures. When nil the failure is returned to the
	// logging core, which reports it.
	OnError func(error)
}

// StreamHandler writes one formatted line per record to an io.Writer.
type StreamHandler struct {
	mu  sync.Mutex
	w   io.Writer
	cfg StreamConfig
}

// NewStream returns a handler writing to w.
func NewStream(w io.Writer, cfg StreamConfig) *StreamHandler {
	return &StreamHandler{w: w, cfg: cfg}
}

// Handle implements logging.Handler.
func (h *StreamHandler) Handle(r *logging.Record) error {
	if !h.cfg.Accept(r) {
		return nil
	}
	line := h.cfg.format(r) + "\n"

	h.mu.Lock()
	_, err := io.WriteString(h.w, line)
	h.mu.Unlock()

	if err != nil && h.cfg.OnError != nil {
		h.cfg.OnError(err)
		return nil
	}
	return err
}

// ConsoleConfig controls NewConsole.
type ConsoleConfig struct {
	Options
	// UseStderr sends ERROR and above to Stderr.
	UseStderr bool
	// UseWarn sends WARNING to Stderr.
	UseWarn bool
	// Stdout and Stderr default to the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultConsoleConfig routes warnings and errors to stderr and the rest to
// stdout.
func DefaultConsoleConfig() ConsoleConfig {
	return ConsoleConfig{UseStderr: true, UseWarn: true}
}

// ConsoleHandler writes records to stdout or stderr depending on their level.
type ConsoleHandler struct {
	cfg    ConsoleConfig
	stdout *StreamHandler
	stderr *StreamHandler
}

// NewConsole returns a console handler.
func NewConsole(cfg ConsoleConfig) *ConsoleHandler {
	stdout, stderr := cfg.Stdout, cfg.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	// Filtering happens once in Handle.
	inner := StreamConfig{Options: Options{Formatter: cfg.Formatter}}
	return &ConsoleHandler{
		cfg:    cfg,
		stdout: NewStream(stdout, inner),
		stderr: NewStream(stderr, inner),
	}
}

// Handle implements logging.Handler.
func (h *ConsoleHandler) Handle(r *logging.Record) error {
	if !h.cfg.Accept(r) {
		return nil
	}
	switch {
	case h.cfg.UseStderr && r.Level >= logging.Error:
		return h.stderr.Handle(r)
	case h.cfg.UseWarn && r.Level >= logging.Warning:
		return h.stderr.Handle(r)
	default:
		return h.stdout.Handle(r)
	}
}
