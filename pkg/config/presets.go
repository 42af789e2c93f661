// pkg/config/presets.go
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fyrsmithlabs/logtree/pkg/formatters"
	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

// EnvVar selects the preset applied by AutoConfigure.
const EnvVar = "LOGTREE_ENV"

// Preset is a named BasicConfig.
type Preset struct {
	Name      string
	Level     logging.Level
	Formatter func() logging.Formatter
}

// BasicConfig returns the preset as a BasicConfig.
func (p Preset) BasicConfig(force bool) logging.BasicConfig {
	return logging.BasicConfig{Level: p.Level, Formatter: p.Formatter(), Force: force}
}

var presets = map[string]Preset{
	"development": {
		Name:  "development",
		Level: logging.Debug,
		Formatter: func() logging.Formatter {
			return formatters.NewColorized(formatters.ColorConfig{Output: os.Stderr})
		},
	},
	"production": {
		Name:      "production",
		Level:     logging.Error,
		Formatter: func() logging.Formatter { return formatters.NewJSON(formatters.JSONConfig{}) },
	},
	"testing": {
		Name:      "testing",
		Level:     logging.Warning,
		Formatter: func() logging.Formatter { return formatters.Basic },
	},
	"minimal": {
		Name:      "minimal",
		Level:     logging.Info,
		Formatter: func() logging.Formatter { return formatters.MessageOnly },
	},
}

// PresetNames returns the known preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupPreset returns the named preset. "test" is an alias of "testing".
func LookupPreset(name string) (Preset, bool) {
	name = strings.ToLower(name)
	if name == "test" {
		name = "testing"
	}
	p, ok := presets[name]
	return p, ok
}

// ApplyPreset configures m with the named preset. It reports whether the
// configuration was applied.
func ApplyPreset(m *logging.Manager, name string, force bool) (bool, error) {
	p, ok := LookupPreset(name)
	if !ok {
		return false, fmt.Errorf("unknown preset %q (known: %s)", name, strings.Join(PresetNames(), ", "))
	}
	return m.BasicConfig(p.BasicConfig(force)), nil
}

// AutoConfigure applies the preset named by LOGTREE_ENV, or an Info-level
// basic configuration when the variable is unset or unknown.
func AutoConfigure(m *logging.Manager) bool {
	switch env := strings.ToLower(os.Getenv(EnvVar)); env {
	case "development", "production", "test", "testing":
		applied, _ := ApplyPreset(m, env, false)
		return applied
	default:
		return m.BasicConfig(logging.BasicConfig{Level: logging.Info})
	}
}
