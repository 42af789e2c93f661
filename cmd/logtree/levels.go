package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/logtree/pkg/formatters"
	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

var standardLevels = []logging.Level{
	logging.NotSet,
	logging.Trace,
	logging.Debug,
	logging.Info,
	logging.Warning,
	logging.Error,
	logging.Critical,
}

// levelsCmd prints the level table
var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Print the severity levels",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		r := lipgloss.NewRenderer(out)
		colors := formatters.DefaultLevelColors()

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("LEVEL", "VALUE").
			StyleFunc(func(row, col int) lipgloss.Style {
				style := r.NewStyle().Padding(0, 1)
				if row == table.HeaderRow {
					return style.Bold(true)
				}
				if col == 0 && row >= 0 && row < len(standardLevels) {
					if c, ok := colors[logging.LevelName(standardLevels[row])]; ok {
						return style.Foreground(c)
					}
				}
				return style
			})
		for _, level := range standardLevels {
			t.Row(logging.LevelName(level), strconv.Itoa(int(level)))
		}

		_, err := fmt.Fprintln(out, t.Render())
		return err
	},
}
