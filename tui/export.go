package tui

import (
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/user/video-trimmer-cli/db"
	"github.com/user/video-trimmer-cli/pkg/timeutil"
	"github.com/user/video-trimmer-cli/trimmer"
	"github.com/user/video-trimmer-cli/tui/components"
	"github.com/user/video-trimmer-cli/tui/forms"
)

// openExportForm asks for confirmation before exporting the selection.
func (m *Model) openExportForm() (tea.Model, tea.Cmd) {
	switch {
	case !m.coord.Prepared():
		m.notice = "The video is still loading."
		return m, nil
	case m.coord.Err() != nil:
		return m, nil
	case m.exporter.Running():
		m.notice = "An export is already running."
		return m, nil
	}

	// the player keeps running behind the form otherwise
	if !m.coord.PlayIconVisible() {
		m.coord.TogglePlayPause()
	}
	m.confirm = true
	m.form = forms.NewConfirmExportForm(m.coord.Window(), m.cfg.DestinationDir, &m.confirm)
	return m, m.form.Init()
}

func (m *Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		if m.confirm {
			return m, m.startExport()
		}
		return m, nil
	case huh.StateAborted:
		m.form = nil
		return m, nil
	}
	return m, cmd
}

// startExport hands the window to the exporter and records it.
func (m *Model) startExport() tea.Cmd {
	if err := m.coord.Save(); err != nil {
		m.export = components.ExportState{Err: err.Error()}
		return nil
	}
	req := m.exporter.LastRequest()
	m.export = components.ExportState{
		Active:    true,
		Selection: timeutil.FormatSelection(req.StartMs, req.EndMs),
	}
	m.recordExportStart(req)
	return m.spinner.Tick
}

// OnExportSucceeded is part of trimmer.ExportListener.
func (m *Model) OnExportSucceeded(outputURI string) {
	m.export.Active = false
	m.export.Output = outputURI
	m.recordExportEnd(nil, outputURI)
}

// OnExportFailed is part of trimmer.ExportListener.
func (m *Model) OnExportFailed(message string) {
	m.export.Active = false
	m.export.Err = message
	m.recordExportEnd(errors.New(message), "")
}

// recordVideo stores the video in the history database. History is best
// effort: a failing database never blocks trimming.
func (m *Model) recordVideo(meta trimmer.Metadata, durationMs int64) {
	if m.db == nil {
		return
	}
	meta.DurationMs = durationMs
	id, err := db.EnsureVideo(m.db, m.source, meta)
	if err != nil {
		m.logger.Warn("record video", slog.Any("error", err))
		return
	}
	m.videoID = id
}

func (m *Model) recordExportStart(req trimmer.TrimRequest) {
	m.exportID = 0
	if m.db == nil || m.videoID == 0 {
		return
	}
	id, err := db.StartExport(m.db, m.videoID, trimmer.Window{StartMs: req.StartMs, EndMs: req.EndMs}, req.Destination, time.Now())
	if err != nil {
		m.logger.Warn("record export", slog.Any("error", err))
		return
	}
	m.exportID = id
}

func (m *Model) recordExportEnd(exportErr error, outputURI string) {
	if m.db == nil || m.exportID == 0 {
		return
	}
	var err error
	if exportErr != nil {
		err = db.MarkExportError(m.db, m.exportID, time.Now(), exportErr.Error())
	} else {
		published := ""
		if outputURI != m.exporter.LastRequest().Destination {
			published = outputURI
		}
		err = db.MarkExportComplete(m.db, m.exportID, time.Now(), published)
	}
	if err != nil {
		m.logger.Warn("record export result", slog.Any("error", err))
	}
	m.exportID = 0
}
