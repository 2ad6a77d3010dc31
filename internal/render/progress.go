package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/work-tracker/internal/progress"
	"github.com/Tiliavir/work-tracker/internal/timecalc"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// ProgressBar renders a bar like [████░░░░]  45% for a percentage in
// [0, 100]. Green from 100%, yellow from 50%, red below.
func ProgressBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	if width < 2 {
		width = 2
	}

	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case pct < 50:
		style = StyleRed
	case pct < 100:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", paint(style, bar), pct)
}

// StatusLine renders the one-line verdict for a week.
func StatusLine(w progress.Week) string {
	switch w.Status {
	case progress.StatusGoalReached:
		if w.Progress.IsOvertime {
			return Good(fmt.Sprintf("Goal reached, %s overtime", timecalc.FormatHours(w.Progress.OvertimeHours)))
		}
		return Good("Goal reached")
	case progress.StatusShort:
		return Bad(fmt.Sprintf("%s short, no work days left", timecalc.FormatHours(w.Progress.RemainingHours)))
	default:
		return Warn(fmt.Sprintf("%s to go", timecalc.FormatHours(w.Progress.RemainingHours)))
	}
}

// AdviceLine renders the daily recommendation for a week.
func AdviceLine(w progress.Week) string {
	r := w.Recommendation
	daily := timecalc.FormatHours(r.RecommendedDailyHours)
	switch w.Advice {
	case progress.AdviceTakeEarly:
		return Good("You can leave early for the rest of the week")
	case progress.AdviceTooHigh:
		return Bad(fmt.Sprintf("%s/day over %d days exceeds a healthy load", daily, r.RemainingWorkDays))
	case progress.AdviceRelaxed:
		return Good(fmt.Sprintf("%s/day over %d days, a relaxed pace", daily, r.RemainingWorkDays))
	default:
		if r.RemainingWorkDays == 0 {
			return Dim("No work days left this week")
		}
		return fmt.Sprintf("%s/day over %d days", daily, r.RemainingWorkDays)
	}
}

// Box wraps content in a rounded border with an optional title.
func Box(title, content string) string {
	if title != "" {
		content = paint(StyleHeader, strings.ToUpper(title)) + "\n\n" + content
	}
	if plain.Load() {
		return content
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		Render(content)
}
