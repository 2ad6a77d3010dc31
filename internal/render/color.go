// Package render formats tracker output for the terminal.
package render

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/Tiliavir/work-tracker/internal/model"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

var plain atomic.Bool

// SetPlain turns styling off (true) or on (false).
func SetPlain(on bool) { plain.Store(on) }

// IsPlain reports whether styling is off.
func IsPlain() bool { return plain.Load() }

// DetectPlain reports whether output to f should be unstyled: f is not a
// terminal or NO_COLOR is set.
func DetectPlain(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return true
	}
	fd := f.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

func paint(style lipgloss.Style, text string) string {
	if plain.Load() {
		return text
	}
	return style.Render(text)
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", paint(StyleHeader, upper), paint(StyleDim, line))
}

func Dim(text string) string   { return paint(StyleDim, text) }
func Bold(text string) string  { return paint(StyleBold, text) }
func Good(text string) string  { return paint(StyleGreen, text) }
func Warn(text string) string  { return paint(StyleYellow, text) }
func Bad(text string) string   { return paint(StyleRed, text) }
func Info(text string) string  { return paint(StyleBlue, text) }
func Leave(text string) string { return paint(StylePurple, text) }

// WorkType renders the label of wt in its color.
func WorkType(wt model.WorkType) string {
	switch {
	case wt == model.WorkTypeAnnualLeave:
		return Leave(wt.Label())
	case wt.IsHalfDay():
		return Info(wt.Label())
	default:
		return wt.Label()
	}
}
