// pkg/config/loader.go
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes environment overrides: LOGTREE_LEVEL -> level.
	EnvPrefix = "LOGTREE_"

	maxConfigFileSize = 1024 * 1024 // 1MB

	// keyDelim separates settings key paths. Logger names contain dots, so
	// the delimiter cannot be ".".
	keyDelim = "/"
)

// Load reads settings from a YAML or TOML file, then applies LOGTREE_*
// environment overrides. An empty path loads from the environment only.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (LOGTREE_LEVEL, LOGTREE_REDACTION_ENABLED, ...)
//  2. The settings file
//  3. Defaults
func Load(path string) (*Settings, error) {
	if path == "" {
		return LoadBytes(nil, "")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	// Validate using the open descriptor to avoid a TOCTOU race.
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	s, err := LoadBytes(content, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return s, nil
}

// LoadBytes parses data as YAML (ext ".yaml", ".yml" or empty) or TOML (ext
// ".toml"), applies LOGTREE_* environment overrides and validates the result.
func LoadBytes(data []byte, ext string) (*Settings, error) {
	k := koanf.New(keyDelim)

	if len(bytes.TrimSpace(data)) > 0 {
		parser, err := parserFor(ext)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(data), parser); err != nil {
			return nil, fmt.Errorf("failed to parse settings: %w", err)
		}
	}

	// LOGTREE_LEVEL -> level, LOGTREE_REDACTION_ENABLED -> redaction/enabled.
	// Split on the first underscore only so field names keep theirs.
	if err := k.Load(env.Provider(EnvPrefix, keyDelim, func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		if key == "env" {
			return ""
		}
		parts := strings.SplitN(key, "_", 2)
		if len(parts) == 1 || !nestedSections[parts[0]] {
			return key
		}
		return parts[0] + keyDelim + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings validation failed: %w", err)
	}
	return &s, nil
}

// nestedSections are the settings keys whose environment overrides address a
// nested field.
var nestedSections = map[string]bool{
	"redaction": true,
}

func parserFor(ext string) (koanf.Parser, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "", "yaml", "yml":
		return yaml.Parser(), nil
	case "toml":
		return tomlParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
}

// tomlParser implements koanf.Parser with BurntSushi/toml.
type tomlParser struct{}

func (tomlParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	var out map[string]interface{}
	if _, err := toml.Decode(string(b), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (tomlParser) Marshal(o map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
