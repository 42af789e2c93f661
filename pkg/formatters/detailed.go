// pkg/formatters/detailed.go
package formatters

import (
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

// Timestamp formats accepted by DetailedConfig.
const (
	TimestampISO    = "iso"
	TimestampLocale = "locale"
	TimestampShort  = "short"
	TimestampTime   = "time"
)

// DetailedConfig controls NewDetailed. The zero value is not the default; use
// DefaultDetailedConfig and override fields.
type DetailedConfig struct {
	IncludeTimestamp bool   `koanf:"include_timestamp"`
	TimestampFormat  string `koanf:"timestamp_format"`
	IncludeName      bool   `koanf:"include_name"`
	IncludeLevel     bool   `koanf:"include_level"`
	Separator        string `koanf:"separator"`
	IncludeExtra     bool   `koanf:"include_extra"`
}

// DefaultDetailedConfig returns "timestamp - LEVEL - name - message".
func DefaultDetailedConfig() DetailedConfig {
	return DetailedConfig{
		IncludeTimestamp: true,
		TimestampFormat:  TimestampISO,
		IncludeName:      true,
		IncludeLevel:     true,
		Separator:        " - ",
	}
}

// Detailed renders "timestamp - LEVEL - name - message".
var Detailed = NewDetailed(DefaultDetailedConfig())

// NewDetailed returns a formatter joining the configured parts with
// cfg.Separator. Extra fields, when enabled, are appended as
// "[key=json ...]" in key order.
func NewDetailed(cfg DetailedConfig) logging.Formatter {
	return logging.FormatterFunc(func(r *logging.Record) string {
		parts := make([]string, 0, 5)
		if cfg.IncludeTimestamp {
			parts = append(parts, formatTimestamp(r.Time, cfg.TimestampFormat))
		}
		if cfg.IncludeLevel {
			parts = append(parts, r.LevelName)
		}
		if cfg.IncludeName {
			parts = append(parts, r.Name)
		}
		parts = append(parts, r.GetMessage())

		if cfg.IncludeExtra && len(r.Extra) > 0 {
			parts = append(parts, "["+formatExtra(r.Extra)+"]")
		}
		return strings.Join(parts, cfg.Separator)
	})
}

func formatTimestamp(t time.Time, format string) string {
	switch format {
	case TimestampLocale:
		return t.Local().Format("1/2/2006, 3:04:05 PM")
	case TimestampShort:
		return t.UTC().Format("2006-01-02 15:04:05")
	case TimestampTime:
		return t.Local().Format("15:04:05")
	default:
		return isoTime(t)
	}
}

func formatExtra(extra map[string]any) string {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		v, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(SafeValue(extra[k]))
		if err != nil {
			v = `"<unserializable>"`
		}
		pairs = append(pairs, k+"="+v)
	}
	return strings.Join(pairs, " ")
}
