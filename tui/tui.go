package tui

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/user/video-trimmer-cli/config"
	"github.com/user/video-trimmer-cli/trimmer"
	"github.com/user/video-trimmer-cli/tui/components"
	"github.com/user/video-trimmer-cli/tui/layout"
	"github.com/user/video-trimmer-cli/tui/styles"
)

const (
	// thumbWidth is the width of a range selector thumb in cells.
	thumbWidth = 2
	// stripRows is the thumbnail strip height in cells.
	stripRows = 3
	// margin is the blank space left and right of the timeline.
	margin = 1
	// timelineTop is the first line of the timeline.
	timelineTop = 2
	// scrubStep is how far the arrow keys move the scrubber.
	scrubStep = trimmer.ScrubMax / 100
	// minTerminalWidth is the narrowest terminal the timeline fits in.
	minTerminalWidth = 40
)

// MetadataSource reports the video size and duration once the player knows
// them.
type MetadataSource interface {
	WaitForMetadata(ctx context.Context) (trimmer.Metadata, error)
}

// Options holds what the TUI is built from.
type Options struct {
	Config    *config.Config
	Logger    *slog.Logger
	DB        *sql.DB
	Player    trimmer.Player
	Metadata  MetadataSource
	Extractor trimmer.Extractor
	// Transcoder and Publisher back the export; Publisher may be nil.
	Transcoder trimmer.Transcoder
	Publisher  trimmer.Publisher
	Source     string
}

// metadataMsg is sent when the metadata wait finishes.
type metadataMsg struct {
	meta trimmer.Metadata
	err  error
}

type dragTarget int

const (
	dragNone dragTarget = iota
	dragSelector
	dragScrubber
)

// Model is the Bubbletea model hosting the trimmer.
type Model struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB
	meta   MetadataSource
	sched  *scheduler
	ctx    context.Context
	cancel context.CancelFunc

	selector *trimmer.RangeSelector
	progress *trimmer.ProgressIndicator
	strip    *trimmer.ThumbnailStrip
	coord    *trimmer.Coordinator
	exporter *trimmer.Exporter

	source   string
	videoID  int64
	exportID int64

	// terminal size
	width  int
	height int
	// last polled position, for the status bar
	positionMs int64
	drag       dragTarget

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	// form is the export confirmation while it is open
	form     *huh.Form
	confirm  bool
	export   components.ExportState
	showHelp bool
	// notice is a one-line message under the timeline
	notice    string
	playerErr string
	quitting  bool
}

// NewModel builds the trimmer core around the collaborators in opts and
// loads opts.Source into the player.
func NewModel(opts Options) (*Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config

	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		cfg:     cfg,
		logger:  logger,
		db:      opts.DB,
		meta:    opts.Metadata,
		sched:   newScheduler(),
		ctx:     ctx,
		cancel:  cancel,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Amber))),
	}

	m.selector = trimmer.NewRangeSelector(thumbWidth, 2*stripRows)
	m.progress = trimmer.NewProgressIndicator(0)
	m.strip = trimmer.NewThumbnailStrip(opts.Extractor, m.sched, 2*stripRows, logger)
	m.coord = trimmer.NewCoordinator(opts.Player, m.selector, m.sched, trimmer.Options{
		Limits:   trimmer.Limits{MinMs: cfg.MinDurationMs(), MaxMs: cfg.MaxDurationMs()},
		ShowInfo: cfg.ShowInfo,
		Logger:   logger,
	})
	m.exporter = trimmer.NewExporter(opts.Transcoder, m.sched, trimmer.ExporterConfig{
		DestinationDir: cfg.DestinationDir,
		Publisher:      opts.Publisher,
		Logger:         logger,
	})

	m.selector.AddListener(m.progress)
	m.coord.AddProgressListener(m.progress)
	m.coord.AddProgressListener(m)
	m.coord.AddErrorListener(m)
	m.coord.AttachStrip(m.strip)
	m.coord.AttachExporter(m.exporter)
	m.exporter.AddListener(m)

	if err := m.coord.Load(opts.Source); err != nil {
		cancel()
		return nil, err
	}
	m.source = opts.Source
	return m, nil
}

// Init starts draining the scheduler and waits for the video metadata.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(waitForRun(m.sched.ch), m.waitForMetadata())
}

func (m *Model) waitForMetadata() tea.Cmd {
	if m.meta == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		meta, err := m.meta.WaitForMetadata(ctx)
		return metadataMsg{meta: meta, err: err}
	}
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runMsg:
		msg.fn()
		return m, waitForRun(m.sched.ch)

	case metadataMsg:
		m.handleMetadata(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.BlurMsg:
		m.coord.Suspend()
		return m, nil

	case tea.FocusMsg:
		m.coord.Resume()
		return m, nil

	case spinner.TickMsg:
		if !m.export.Active {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		if m.form == nil && !m.showHelp {
			m.handleMouse(msg)
		}
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleMetadata(msg metadataMsg) {
	if msg.err != nil {
		if m.ctx.Err() == nil {
			m.coord.HandlePlayerError(msg.err)
		}
		return
	}
	m.coord.HandleMetadataReady(msg.meta)
	m.recordVideo(m.coord.Metadata(), m.coord.DurationMs())
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width
	w := m.timelineWidth()
	m.selector.Resize(float64(w))
	m.progress.Resize(w)
	if m.selector.Space().Measured() {
		// the window bar is in cells, so it follows the new width
		m.progress.OnSelectionChanged(trimmer.Left, m.selector.Value(trimmer.Left))
		m.progress.OnSelectionChanged(trimmer.Right, m.selector.Value(trimmer.Right))
	}
	m.strip.Resize(w)
}

func (m *Model) timelineWidth() int {
	if w := m.width - 2*margin; w > 0 {
		return w
	}
	return 0
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.PlayPause):
		m.notice = ""
		m.coord.TogglePlayPause()
	case key.Matches(msg, m.keys.Back):
		m.nudgeScrubber(-scrubStep)
	case key.Matches(msg, m.keys.Forward):
		m.nudgeScrubber(scrubStep)
	case key.Matches(msg, m.keys.Save):
		return m.openExportForm()
	case key.Matches(msg, m.keys.Dismiss):
		if !m.export.Active {
			m.export = components.ExportState{}
		}
		m.notice = ""
	}
	return m, nil
}

func (m *Model) nudgeScrubber(delta int) {
	if !m.coord.Prepared() {
		return
	}
	m.coord.ScrubStart()
	m.coord.ScrubChange(m.coord.ScrubProgress()+delta, true)
	m.coord.ScrubStop()
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.cancel()
	m.coord.Cancel()
	m.coord.Close()
	return m, tea.Quit
}

// handleMouse maps the left button onto the selector and the scrubber:
// press, motion and release are touch down, move and up.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if !m.coord.Prepared() || m.coord.Err() != nil {
		return
	}
	x := float64(msg.X - margin)
	row := msg.Y - timelineTop

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		switch {
		case row >= 0 && row < stripRows+2:
			if m.selector.TouchDown(x) {
				m.drag = dragSelector
			}
		case row == stripRows+2:
			m.drag = dragScrubber
			m.coord.ScrubStart()
			m.coord.ScrubChange(m.scrubAt(x), true)
		}
	case tea.MouseActionMotion:
		switch m.drag {
		case dragSelector:
			m.selector.TouchMove(x)
		case dragScrubber:
			m.coord.ScrubChange(m.scrubAt(x), true)
		}
	case tea.MouseActionRelease:
		switch m.drag {
		case dragSelector:
			m.selector.TouchUp(x)
		case dragScrubber:
			m.coord.ScrubChange(m.scrubAt(x), true)
			m.coord.ScrubStop()
		}
		m.drag = dragNone
	}
}

// scrubAt converts a timeline column to scrubber progress.
func (m *Model) scrubAt(x float64) int {
	w := m.timelineWidth()
	if w <= 1 {
		return 0
	}
	p := int(x * trimmer.ScrubMax / float64(w-1))
	return min(max(p, 0), trimmer.ScrubMax)
}

// OnProgress is part of trimmer.ProgressListener.
func (m *Model) OnProgress(positionMs, _, _ int64) {
	m.positionMs = positionMs
}

// OnPlayerError is part of trimmer.ErrorListener.
func (m *Model) OnPlayerError(message string) {
	m.playerErr = message
}

// View renders the current state of the model as a string.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return components.HelpOverlay(m.keys.groups(), m.width, m.height)
	}
	if m.width > 0 && m.width < minTerminalWidth {
		return styles.Warning.Render(fmt.Sprintf("Terminal too narrow (%d cols)", m.width)) + "\n" +
			styles.SecondaryText.Italic(true).Render(fmt.Sprintf("Minimum width: %d columns", minTerminalWidth))
	}

	status := components.StatusBar(components.StatusBarState{
		PlayIcon:   m.coord.PlayIconVisible(),
		PositionMs: m.positionMs,
		DurationMs: m.coord.DurationMs(),
		SpanMs:     m.coord.SpanMs(),
		Title:      filepath.Base(m.source),
	}, m.width)

	pad := strings.Repeat(" ", margin)
	var timeline []string
	for _, line := range strings.Split(components.Timeline(m.timelineState()), "\n") {
		timeline = append(timeline, pad+line)
	}

	lines := []string{status, ""}
	lines = append(lines, timeline...)
	lines = append(lines, m.labelLine())

	switch {
	case m.playerErr != "":
		lines = append(lines, "", pad+styles.Warning.Render(m.playerErr))
	case !m.coord.Prepared():
		lines = append(lines, "", pad+styles.SecondaryText.Render("Loading video…"))
	case m.notice != "":
		lines = append(lines, "", pad+styles.SecondaryText.Render(m.notice))
	}

	if m.form != nil {
		lines = append(lines, "", m.form.View())
	} else if m.export.Visible() {
		m.export.Spinner = m.spinner.View()
		lines = append(lines, "", components.ExportProgress(m.export, min(m.width, 72)))
	}

	body := strings.Join(lines, "\n")
	footer := m.help.View(m.keys)
	if m.height <= 0 {
		return body + "\n" + footer
	}
	bodyHeight := m.height - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return layout.Container{Width: m.width, Height: bodyHeight}.Render(body) + "\n" + footer
}

func (m *Model) timelineState() components.TimelineState {
	count, slot := m.strip.Layout()
	bg, hasBg := m.progress.Background()
	prog, hasProg := m.progress.Progress()
	return components.TimelineState{
		Width:           m.timelineWidth(),
		StripRows:       stripRows,
		Frames:          m.strip.Frames(),
		SlotWidth:       slot,
		Count:           count,
		Left:            m.selector.Thumb(trimmer.Left),
		Right:           m.selector.Thumb(trimmer.Right),
		Background:      bg,
		HasBackground:   hasBg,
		Progress:        prog,
		HasProgress:     hasProg,
		ScrubberVisible: m.coord.ScrubberVisible(),
		ScrubProgress:   m.coord.ScrubProgress(),
		BackgroundColor: lipgloss.Color(m.cfg.BackgroundColor),
		FrameColor:      lipgloss.Color(m.cfg.FrameColor),
	}
}

// labelLine centres the selection label under the timeline.
func (m *Model) labelLine() string {
	label, show := m.coord.Label()
	if !show || label == "" {
		return ""
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, styles.Label(m.cfg.Typeface).Render(label))
}

// Run starts the Bubbletea program with mouse and focus reporting.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	_, err = p.Run()
	model.cancel()
	return err
}
