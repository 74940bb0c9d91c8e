// Package forms provides huh-based form components for the TUI.
package forms

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/user/video-trimmer-cli/pkg/timeutil"
	"github.com/user/video-trimmer-cli/trimmer"
)

// NewConfirmExportForm asks whether to export the window w into destDir.
// The answer is bound to confirm.
func NewConfirmExportForm(w trimmer.Window, destDir string, confirm *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Export selection?").
				Description(fmt.Sprintf("%s (%s) into %s",
					timeutil.FormatSelection(w.StartMs, w.EndMs),
					timeutil.FormatMillis(w.Span()),
					destDir,
				)).
				Affirmative("Export").
				Negative("Keep editing").
				Value(confirm),
		),
	).WithTheme(Theme()).WithShowHelp(false)
}
