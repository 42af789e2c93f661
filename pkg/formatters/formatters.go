// pkg/formatters/formatters.go

// Package formatters provides logging.Formatter implementations: plain text,
// detailed, JSON, colorized, templated and zap-encoder backed.
package formatters

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

// isoLayout matches the millisecond UTC timestamps used across formatters.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

func isoTime(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// Basic renders "LEVEL:name:message".
var Basic = logging.BasicFormatter

// Simple renders "LEVEL: message".
var Simple logging.Formatter = logging.FormatterFunc(func(r *logging.Record) string {
	return r.LevelName + ": " + r.GetMessage()
})

// MessageOnly renders the message alone.
var MessageOnly logging.Formatter = logging.FormatterFunc(func(r *logging.Record) string {
	return r.GetMessage()
})

// Combine joins the output of each formatter with " | ".
func Combine(formatters ...logging.Formatter) logging.Formatter {
	return logging.FormatterFunc(func(r *logging.Record) string {
		parts := make([]string, len(formatters))
		for i, f := range formatters {
			parts[i] = f.Format(r)
		}
		return strings.Join(parts, " | ")
	})
}

// Conditional uses whenTrue for records matching cond and whenFalse otherwise.
func Conditional(cond func(*logging.Record) bool, whenTrue, whenFalse logging.Formatter) logging.Formatter {
	return logging.FormatterFunc(func(r *logging.Record) string {
		if cond(r) {
			return whenTrue.Format(r)
		}
		return whenFalse.Format(r)
	})
}

// NewTemplate returns a formatter substituting {timestamp}, {level}, {name},
// {message} and {level_num} in tpl. Unknown placeholders are kept verbatim.
func NewTemplate(tpl string) logging.Formatter {
	return logging.FormatterFunc(func(r *logging.Record) string {
		return strings.NewReplacer(
			"{timestamp}", isoTime(r.Time),
			"{level}", r.LevelName,
			"{name}", r.Name,
			"{message}", r.GetMessage(),
			"{level_num}", strconv.Itoa(int(r.Level)),
		).Replace(tpl)
	})
}

// ByName returns a preconfigured formatter: basic, simple, message_only,
// detailed, json or colorized.
func ByName(name string) (logging.Formatter, error) {
	switch strings.ToLower(name) {
	case "", "basic":
		return Basic, nil
	case "simple":
		return Simple, nil
	case "message", "message_only", "messageonly":
		return MessageOnly, nil
	case "detailed":
		return Detailed, nil
	case "json":
		return NewJSON(JSONConfig{}), nil
	case "colorized", "color":
		return NewColorized(ColorConfig{}), nil
	default:
		return nil, fmt.Errorf("unknown formatter %q", name)
	}
}
