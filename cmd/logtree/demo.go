package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/logtree/pkg/formatters"
	"github.com/fyrsmithlabs/logtree/pkg/handlers"
	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

// demoCmd walks through the main features
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a guided tour of hierarchies, formatters and handlers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo(cmd.OutOrStdout())
	},
}

func section(out io.Writer, title string) {
	fmt.Fprintf(out, "\n== %s ==\n", title)
}

func runDemo(out io.Writer) error {
	m := logging.NewManager(logging.WithDefaultHandlers(func(c *logging.Config) []logging.Handler {
		return []logging.Handler{handlers.NewStream(out, handlers.StreamConfig{
			Options: handlers.Options{Formatter: logging.FormatterFunc(func(r *logging.Record) string {
				return c.Formatter().Format(r)
			})},
		})}
	}))

	section(out, "Hierarchy")
	app := m.GetLogger("app")
	db := m.GetLogger("app.db")
	m.BasicConfig(logging.BasicConfig{Level: logging.Info})
	db.SetLevel(logging.Debug)
	app.Debug("hidden: app inherits INFO from root")
	db.Debug("visible: app.db sets DEBUG")
	app.Info("visible: INFO passes the root level")
	printTree(out, m.RootLogger())

	section(out, "Formatters")
	r := logging.NewRecord("app.http", logging.Warning, "WARNING", "slow request to %s", []any{"/api"},
		map[string]any{"duration_ms": 1250}, nil)
	for _, name := range []string{"basic", "simple", "message_only", "detailed", "json"} {
		f, err := formatters.ByName(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-12s %s\n", name, f.Format(r))
	}
	template := formatters.NewTemplate("[{level}] {name}: {message}")
	fmt.Fprintf(out, "%-12s %s\n", "template", template.Format(r))

	section(out, "Exceptions")
	worker := m.GetLogger("app.worker")
	worker.AddHandler(logging.HandlerFunc(func(r *logging.Record) error {
		_, err := fmt.Fprintf(out, "%s\n  caused by %s: %s\n", formatters.Basic.Format(r), r.Exc.Name, r.Exc.Message)
		return err
	}))
	worker.Exception(errors.New("boom"), "job %d failed", 42)

	section(out, "Memory handler")
	mem := handlers.NewMemory(handlers.MemoryConfig{MaxRecords: 3})
	audit := m.GetLogger("app.audit")
	audit.AddHandler(mem)
	for i := 1; i <= 5; i++ {
		audit.Info("event %d", i)
	}
	for _, line := range mem.FormattedLogs() {
		fmt.Fprintln(out, line)
	}
	stats := mem.Stats()
	fmt.Fprintf(out, "kept %d of %d records (%d%% of capacity)\n", stats.Size, 5, stats.MemoryUsagePercent)

	section(out, "Redaction")
	redactor, err := formatters.NewRedactor(formatters.DefaultRedactionConfig())
	if err != nil {
		return err
	}
	secure := m.GetLogger("app.auth")
	secure.AddHandler(handlers.NewRedacting(handlers.NewStream(out, handlers.StreamConfig{
		Options: handlers.Options{Formatter: formatters.NewDetailed(formatters.DetailedConfig{
			IncludeLevel: true,
			IncludeName:  true,
			IncludeExtra: true,
			Separator:    " - ",
		})},
	}), redactor))
	secure.LogExtra(logging.Warning, "login attempt", map[string]any{"user": "ada", "password": "hunter2"})
	return nil
}
