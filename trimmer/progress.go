package trimmer

// Bar is a horizontal extent in whole pixels, [Left, Right).
type Bar struct {
	Left  int
	Right int
}

// Empty reports whether the bar has no width.
func (b Bar) Empty() bool { return b.Right <= b.Left }

// ProgressIndicator maps the selection bounds and the playback position onto
// a horizontal progress bar. It only listens; it never drives playback.
type ProgressIndicator struct {
	viewWidth  int
	background *Bar
	progress   *Bar
	redraw     func()
}

// NewProgressIndicator creates an indicator viewWidth pixels wide.
func NewProgressIndicator(viewWidth int) *ProgressIndicator {
	return &ProgressIndicator{viewWidth: viewWidth}
}

// OnRedraw sets the hook invoked whenever a bar changed.
func (p *ProgressIndicator) OnRedraw(fn func()) { p.redraw = fn }

// Resize changes the width. Bars are recomputed on the next event.
func (p *ProgressIndicator) Resize(viewWidth int) { p.viewWidth = viewWidth }

// Background returns the selected window bar and whether it has been set.
func (p *ProgressIndicator) Background() (Bar, bool) {
	if p.background == nil {
		return Bar{}, false
	}
	return *p.background, true
}

// Progress returns the played portion bar and whether it has been set.
func (p *ProgressIndicator) Progress() (Bar, bool) {
	if p.progress == nil {
		return Bar{}, false
	}
	return *p.progress, true
}

func (p *ProgressIndicator) OnSelectionCreated(i Index, value float64) { p.updateBackground(i, value) }
func (p *ProgressIndicator) OnSelectionChanged(i Index, value float64) { p.updateBackground(i, value) }
func (p *ProgressIndicator) OnDragStart(i Index, value float64)        { p.updateBackground(i, value) }
func (p *ProgressIndicator) OnDragStop(i Index, value float64)         { p.updateBackground(i, value) }

func (p *ProgressIndicator) updateBackground(i Index, value float64) {
	if p.background == nil {
		p.background = &Bar{Left: 0, Right: p.viewWidth}
	}
	edge := int(float64(p.viewWidth) * value / ScaleMax)
	if i == Left {
		p.background.Left = edge
	} else {
		p.background.Right = edge
	}
	// a moved edge invalidates whatever was drawn as played
	p.OnProgress(0, 0, 0)
}

// OnProgress redraws the played portion from the start of the window up to
// percent of the full width.
func (p *ProgressIndicator) OnProgress(_, _ int64, percent int64) {
	if p.background != nil {
		if percent == 0 {
			p.progress = &Bar{}
		} else {
			p.progress = &Bar{
				Left:  p.background.Left,
				Right: int(int64(p.viewWidth) * percent / 100),
			}
		}
	}
	if p.redraw != nil {
		p.redraw()
	}
}
