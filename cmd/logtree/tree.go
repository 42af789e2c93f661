package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

var (
	treeLoggers []string
	treeJSON    bool
)

func init() {
	treeCmd.Flags().StringSliceVarP(&treeLoggers, "logger", "l", nil, "logger names to create before printing")
	treeCmd.Flags().BoolVar(&treeJSON, "json", false, "print the snapshot as JSON")
}

// treeCmd prints the logger hierarchy
var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the logger hierarchy",
	Long: `Print the logger hierarchy after applying the configuration.

Each logger shows its own level (or the inherited effective level), its
handler count and whether it is disabled.

Examples:
  # Hierarchy of a settings file
  logtree tree --config logtree.yaml

  # Create loggers on the fly and print JSON
  logtree tree --logger app.db.pool --logger app.http --json`,
	Args: cobra.NoArgs,
	RunE: runTree,
}

func runTree(cmd *cobra.Command, args []string) error {
	m, cleanup, err := newManager(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	root := m.RootLogger()
	for _, name := range treeLoggers {
		m.GetLogger(name)
	}

	out := cmd.OutOrStdout()
	if treeJSON {
		data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(m.LoggerInfo(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode logger info: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	printTree(out, root)
	return nil
}

// treeStyles renders the hierarchy. Colors are dropped when out is not a
// terminal.
type treeStyles struct {
	name     lipgloss.Style
	level    lipgloss.Style
	inherit  lipgloss.Style
	disabled lipgloss.Style
	branch   lipgloss.Style
}

func newTreeStyles(out io.Writer) treeStyles {
	r := lipgloss.NewRenderer(out)
	return treeStyles{
		name:     r.NewStyle().Bold(true),
		level:    r.NewStyle().Foreground(lipgloss.Color("51")),
		inherit:  r.NewStyle().Foreground(lipgloss.Color("245")),
		disabled: r.NewStyle().Foreground(lipgloss.Color("196")),
		branch:   r.NewStyle().Foreground(lipgloss.Color("238")),
	}
}

func printTree(out io.Writer, root *logging.Logger) {
	st := newTreeStyles(out)
	fmt.Fprintln(out, describe(st, root, root.Name()))
	printChildren(out, st, root, "")
}

func printChildren(out io.Writer, st treeStyles, l *logging.Logger, prefix string) {
	children := l.Children()
	for i, child := range children {
		connector, next := "├── ", "│   "
		if i == len(children)-1 {
			connector, next = "└── ", "    "
		}
		label := child.Name()
		if i := strings.LastIndexByte(label, '.'); i >= 0 {
			label = label[i+1:]
		}
		fmt.Fprintln(out, st.branch.Render(prefix+connector)+describe(st, child, label))
		printChildren(out, st, child, prefix+next)
	}
}

func describe(st treeStyles, l *logging.Logger, label string) string {
	info := l.LoggerInfo()
	parts := []string{st.name.Render(label)}
	if info.Level >= 0 {
		parts = append(parts, st.level.Render(logging.LevelName(logging.Level(info.Level))))
	} else {
		parts = append(parts, st.inherit.Render("inherits "+info.EffectiveLevel.String()))
	}
	if info.Handlers > 0 {
		parts = append(parts, fmt.Sprintf("handlers=%d", info.Handlers))
	}
	if info.Disabled {
		parts = append(parts, st.disabled.Render("disabled"))
	}
	return strings.Join(parts, "  ")
}
