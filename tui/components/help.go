package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/user/video-trimmer-cli/tui/styles"
)

// HelpGroup is a titled set of key bindings.
type HelpGroup struct {
	Title    string
	Bindings []key.Binding
}

// HelpOverlay renders all key bindings, grouped, centred in width x height.
func HelpOverlay(groups []HelpGroup, width, height int) string {
	groupHeader := styles.Header.MarginTop(1)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Muted).Bold(true).Width(14)

	lines := []string{lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true).Render("Keybindings")}
	for _, g := range groups {
		lines = append(lines, groupHeader.Render(g.Title))
		for _, b := range g.Bindings {
			if !b.Enabled() {
				continue
			}
			h := b.Help()
			lines = append(lines, "  "+keyStyle.Render(h.Key)+styles.PrimaryText.Render(h.Desc))
		}
	}
	lines = append(lines, "", styles.SecondaryText.Italic(true).Render("Press any key to close"))

	panel := lipgloss.NewStyle().
		Background(styles.Surface).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Accent).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panel)
}
