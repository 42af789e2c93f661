// pkg/handlers/file.go
package handlers

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

// FileMode selects how NewFile opens an existing file.
type FileMode string

const (
	FileAppend   FileMode = "append"
	FileTruncate FileMode = "truncate"
)

// FileConfig controls NewFile.
type FileConfig struct {
	Options
	// Mode defaults to FileAppend.
	Mode FileMode
	// AutoFlush syncs the file after every ERROR or higher record.
	AutoFlush bool
	// Perm defaults to 0644.
	Perm os.FileMode
}

// FileHandler writes formatted records to a file.
type FileHandler struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	cfg    FileConfig
	closed bool
}

// NewFile opens path and returns a handler writing to it.
func NewFile(path string, cfg FileConfig) (*FileHandler, error) {
	flags := os.O_CREATE | os.O_WRONLY
	switch cfg.Mode {
	case "", FileAppend:
		flags |= os.O_APPEND
	case FileTruncate:
		flags |= os.O_TRUNC
	default:
		return nil, fmt.Errorf("invalid file mode %q", cfg.Mode)
	}
	perm := cfg.Perm
	if perm == 0 {
		perm = 0o644
	}

	f, err := os.OpenFile(path, flags, perm)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return &FileHandler{path: path, file: f, cfg: cfg}, nil
}

// Path returns the file path.
func (h *FileHandler) Path() string {
	return h.path
}

// Handle implements logging.Handler.
func (h *FileHandler) Handle(r *logging.Record) error {
	if !h.cfg.Accept(r) {
		return nil
	}
	line := h.cfg.format(r) + "\n"

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	if _, err := io.WriteString(h.file, line); err != nil {
		return fmt.Errorf("failed to write log file: %w", err)
	}
	if h.cfg.AutoFlush && r.Level >= logging.Error {
		if err := h.file.Sync(); err != nil {
			return fmt.Errorf("failed to sync log file: %w", err)
		}
	}
	return nil
}

// Sync flushes the file to disk.
func (h *FileHandler) Sync() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	return h.file.Sync()
}

// Close closes the file. Further records fail with ErrClosed.
func (h *FileHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	return h.file.Close()
}
