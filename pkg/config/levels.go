// pkg/config/levels.go
package config

import (
	"strings"

	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

// ParseLevel converts a level name ("warning", "WARN") or integer ("25") to a
// Level. Empty and unknown values yield Info.
func ParseLevel(s string) logging.Level {
	level, err := parseLevel(s)
	if err != nil || strings.TrimSpace(s) == "" {
		return logging.Info
	}
	return level
}

func parseLevel(s string) (logging.Level, error) {
	if strings.TrimSpace(s) == "" {
		return logging.NotSet, nil
	}
	var level logging.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return logging.NotSet, err
	}
	return level, nil
}

// LevelForEnvironment returns the level suited to a deployment environment.
func LevelForEnvironment(env string) logging.Level {
	switch strings.ToLower(env) {
	case "development", "dev":
		return logging.Debug
	case "testing", "test":
		return logging.Warning
	case "staging":
		return logging.Info
	case "production", "prod":
		return logging.Error
	default:
		return logging.Info
	}
}
