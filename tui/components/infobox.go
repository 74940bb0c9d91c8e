package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/video-trimmer-cli/tui/styles"
)

// RenderInfoBox renders a bordered box with a tab-style header and content
// lines. Content lines are rendered as-is; the caller handles styling.
//
//	╭─ Title ─────╮
//	│content      │
//	╰─────────────╯
func RenderInfoBox(title string, contentLines []string, width int) string {
	if width < 4 {
		return ""
	}
	innerWidth := width - 2
	border := lipgloss.NewStyle().Foreground(styles.Border)

	header := styles.Header.Render(" " + title + " ")
	fill := innerWidth - 1 - lipgloss.Width(header)
	if fill < 0 {
		fill = 0
	}

	lines := make([]string, 0, len(contentLines)+2)
	lines = append(lines, border.Render("╭─")+header+border.Render(strings.Repeat("─", fill)+"╮"))
	for _, line := range contentLines {
		lines = append(lines, border.Render("│")+padRight(line, innerWidth)+border.Render("│"))
	}
	lines = append(lines, border.Render("╰"+strings.Repeat("─", innerWidth)+"╯"))
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if pad := width - lipgloss.Width(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}
