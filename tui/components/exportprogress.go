package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/user/video-trimmer-cli/tui/styles"
)

// ExportState holds the state of the export box.
type ExportState struct {
	// Active is true while the transcoder runs
	Active bool
	// Spinner is the rendered spinner frame
	Spinner string
	// Selection is the exported window label
	Selection string
	// Output is the finished clip's location
	Output string
	// Err is the failure message of the last export
	Err string
}

// Visible reports whether the box has anything to show.
func (s ExportState) Visible() bool {
	return s.Active || s.Output != "" || s.Err != ""
}

// ExportProgress renders the export box: a spinner while running, then the
// output location or the failure reason.
func ExportProgress(state ExportState, width int) string {
	if !state.Visible() || width < 10 {
		return ""
	}
	innerW := width - 4
	fit := func(s string) string {
		if lipgloss.Width(s) > innerW {
			return ansi.Truncate(s, innerW-3, "...")
		}
		return s
	}

	var lines []string
	switch {
	case state.Active:
		lines = append(lines, " "+state.Spinner+" "+styles.PrimaryText.Render(fit("Exporting "+state.Selection)))
	case state.Err != "":
		lines = append(lines, " "+styles.Warning.Render("Export failed"))
		lines = append(lines, " "+styles.SecondaryText.Render(fit(state.Err)))
	default:
		lines = append(lines, " "+styles.Success.Render("Export complete"))
		lines = append(lines, " "+styles.PrimaryText.Render(fit(state.Output)))
	}
	if !state.Active {
		lines = append(lines, " "+styles.SecondaryText.Italic(true).Render("esc to dismiss"))
	}
	return RenderInfoBox("Export", lines, width)
}
