// Package main implements the logtree CLI for exercising logger hierarchies,
// settings files and formatters.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/logtree/pkg/config"
	"github.com/fyrsmithlabs/logtree/pkg/formatters"
	"github.com/fyrsmithlabs/logtree/pkg/handlers"
	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

var (
	// configPath is the settings file applied before running a command
	configPath string
	// presetName is applied when no settings file is given
	presetName string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "logtree",
	Short: "Hierarchical logging toolkit",
	Long: `logtree exercises hierarchical named loggers from the command line.

It can emit records through a settings file, print the resulting logger
hierarchy, list the severity levels and run a guided demo.

Without --config or --preset, the LOGTREE_ENV environment variable selects a
preset (development, production, test); otherwise INFO and the basic format
are used.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "settings file (YAML or TOML)")
	rootCmd.PersistentFlags().StringVar(&presetName, "preset", "", "configuration preset (development, production, testing, minimal)")
	rootCmd.AddCommand(emitCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(demoCmd)
}

// newManager builds a Manager whose default console handler writes to the
// command's streams and applies --config, --preset or the environment.
// The returned cleanup closes handlers opened by the settings file.
func newManager(cmd *cobra.Command) (*logging.Manager, func(), error) {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	m := logging.NewManager(
		logging.WithReporter(logging.NewZapReporter(diagnosticLogger(stderr))),
		logging.WithDefaultHandlers(func(c *logging.Config) []logging.Handler {
			cfg := handlers.DefaultConsoleConfig()
			cfg.Stdout, cfg.Stderr = stdout, stderr
			cfg.Formatter = logging.FormatterFunc(func(r *logging.Record) string {
				return c.Formatter().Format(r)
			})
			return []logging.Handler{handlers.NewConsole(cfg)}
		}),
	)

	switch {
	case configPath != "":
		s, err := config.Load(configPath)
		if err != nil {
			return nil, nil, err
		}
		applied, err := s.Apply(m)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to apply %s: %w", configPath, err)
		}
		return m, func() { _ = applied.Close() }, nil
	case presetName != "":
		if _, err := config.ApplyPreset(m, presetName, false); err != nil {
			return nil, nil, err
		}
	default:
		config.AutoConfigure(m)
	}
	return m, func() {}, nil
}

func diagnosticLogger(w io.Writer) *zap.Logger {
	core := zapcore.NewCore(formatters.NewEncoder("console"), zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core)
}
