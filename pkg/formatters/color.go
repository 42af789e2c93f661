// pkg/formatters/color.go
package formatters

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/fyrsmithlabs/logtree/pkg/logging"
)

// ColorMode selects when NewColorized emits ANSI escapes.
type ColorMode int

const (
	// ColorAuto colors output when Output is a terminal.
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ColorConfig controls NewColorized.
type ColorConfig struct {
	Mode ColorMode
	// Output is used for terminal detection in ColorAuto mode. Defaults to stdout.
	Output io.Writer
	// LevelColors maps level names to lipgloss colors. Missing levels are not
	// colored.
	LevelColors    map[string]lipgloss.Color
	TimestampColor lipgloss.Color
	NameColor      lipgloss.Color
	MessageColor   lipgloss.Color
}

// DefaultLevelColors returns the ANSI palette used by NewColorized.
func DefaultLevelColors() map[string]lipgloss.Color {
	return map[string]lipgloss.Color{
		"TRACE":    lipgloss.Color("8"),  // gray
		"DEBUG":    lipgloss.Color("7"),  // white
		"INFO":     lipgloss.Color("6"),  // cyan
		"WARNING":  lipgloss.Color("3"),  // yellow
		"ERROR":    lipgloss.Color("1"),  // red
		"CRITICAL": lipgloss.Color("9"),  // bright red
	}
}

// NewColorized returns a formatter rendering "timestamp LEVEL name message"
// with the level colored and the timestamp and name dimmed.
func NewColorized(cfg ColorConfig) logging.Formatter {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	renderer := lipgloss.NewRenderer(out)
	switch cfg.Mode {
	case ColorAlways:
		renderer.SetColorProfile(termenv.ANSI)
	case ColorNever:
		renderer.SetColorProfile(termenv.Ascii)
	}

	levelColors := cfg.LevelColors
	if levelColors == nil {
		levelColors = DefaultLevelColors()
	}
	levelStyles := make(map[string]lipgloss.Style, len(levelColors))
	for name, c := range levelColors {
		levelStyles[name] = renderer.NewStyle().Foreground(c)
	}

	timestampStyle := styleFor(renderer, cfg.TimestampColor)
	nameStyle := styleFor(renderer, cfg.NameColor)
	plain := renderer.NewStyle()
	messageStyle := plain
	if cfg.MessageColor != "" {
		messageStyle = renderer.NewStyle().Foreground(cfg.MessageColor)
	}

	return logging.FormatterFunc(func(r *logging.Record) string {
		levelStyle, ok := levelStyles[r.LevelName]
		if !ok {
			levelStyle = plain
		}
		return timestampStyle.Render(isoTime(r.Time)) + " " +
			levelStyle.Render(r.LevelName) + " " +
			nameStyle.Render(r.Name) + " " +
			messageStyle.Render(r.GetMessage())
	})
}

// styleFor returns a faint style when c is empty, otherwise a foreground style.
func styleFor(renderer *lipgloss.Renderer, c lipgloss.Color) lipgloss.Style {
	if c == "" {
		return renderer.NewStyle().Faint(true)
	}
	return renderer.NewStyle().Foreground(c)
}
