// pkg/handlers/json.go
package handlers

import (
	"io"
	"os"

	"github.com/fyrsmithlabs/logtree/pkg/formatters"
)

// JSONConfig controls NewJSON.
type JSONConfig struct {
	// Level and Filter apply; Formatter is ignored.
	Options
	Format formatters.JSONConfig
	// Output defaults to stdout.
	Output io.Writer
	// OnError receives write failures.
	OnError func(error)
}

// NewJSON returns a handler writing one JSON document per record.
func NewJSON(cfg JSONConfig) *StreamHandler {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := cfg.Options
	opts.Formatter = formatters.NewJSON(cfg.Format)
	return NewStream(out, StreamConfig{Options: opts, OnError: cfg.OnError})
}
