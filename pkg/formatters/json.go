// pkg/formatters/json.go
package formatters

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONConfig controls NewJSON.
type JSONConfig struct {
	// Pretty indents the output with two spaces.
	Pretty bool `koanf:"pretty"`
	// IncludeAll adds level_num and args.
	IncludeAll bool `koanf:"include_all"`
	// FieldMapping renames output keys, e.g. {"message": "msg"}.
	FieldMapping map[string]string `koanf:"field_mapping"`
}

// NewJSON returns a formatter rendering one JSON object per record with keys
// timestamp, level, logger, message, the extra fields and exception. Keys are
// sorted. Cyclic or overly deep values are replaced by a placeholder string;
// records that still cannot be encoded fall back to the four base keys plus an
// encode_error key.
func NewJSON(cfg JSONConfig) logging.Formatter {
	return logging.FormatterFunc(func(r *logging.Record) string {
		data := make(map[string]any, 6+len(r.Extra))
		for k, v := range r.Extra {
			data[k] = SafeValue(v)
		}
		data["timestamp"] = isoTime(r.Time)
		data["level"] = r.LevelName
		data["logger"] = r.Name
		data["message"] = r.GetMessage()
		if r.Exc != nil {
			data["exception"] = r.Exc
		}
		if cfg.IncludeAll {
			data["level_num"] = int(r.Level)
			data["args"] = SafeSlice(r.Args)
		}

		out, err := encode(remap(data, cfg.FieldMapping), cfg.Pretty)
		if err != nil {
			fallback := map[string]any{
				"timestamp":    isoTime(r.Time),
				"level":        r.LevelName,
				"logger":       r.Name,
				"message":      r.GetMessage(),
				"encode_error": err.Error(),
			}
			out, _ = encode(remap(fallback, cfg.FieldMapping), cfg.Pretty)
		}
		return out
	})
}

func remap(data map[string]any, mapping map[string]string) map[string]any {
	if len(mapping) == 0 {
		return data
	}
	mapped := make(map[string]any, len(data))
	for k, v := range data {
		if to, ok := mapping[k]; ok && to != "" {
			k = to
		}
		mapped[k] = v
	}
	return mapped
}

func encode(v any, pretty bool) (string, error) {
	if pretty {
		b, err := json.MarshalIndent(v, "", "  ")
		return string(b), err
	}
	return json.MarshalToString(v)
}
