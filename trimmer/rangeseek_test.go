package trimmer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 210 wide with 10 wide thumbs: RangeMax 200, 190 usable pixels.
func newTestSelector(t *testing.T) (*RangeSelector, *recordingListener) {
	t.Helper()
	r := NewRangeSelector(10, 2)
	l := &recordingListener{}
	r.AddListener(l)
	r.Resize(210)
	return r, l
}

func TestSpace_RoundTrip(t *testing.T) {
	for _, width := range []float64{40, 210, 1337} {
		s := Space{ViewWidth: width, ThumbWidth: 10}
		for p := 0.0; p <= ScaleMax; p += 0.25 {
			for _, i := range []Index{Left, Right} {
				px := s.PercentToPixel(i, p)
				assert.InDelta(t, p, s.PixelToPercent(i, px), 0.01, "width %v index %v percent %v", width, i, p)
			}
		}
	}
}

func TestSpace_PercentToPixel(t *testing.T) {
	s := Space{ViewWidth: 210, ThumbWidth: 10}

	assert.InDelta(t, 0, s.PercentToPixel(Left, 0), 1e-9)
	assert.InDelta(t, 190, s.PercentToPixel(Left, 100), 1e-9)
	assert.InDelta(t, 10, s.PercentToPixel(Right, 0), 1e-9)
	assert.InDelta(t, 200, s.PercentToPixel(Right, 100), 1e-9)

	// at equal values the thumbs sit exactly one thumb apart
	for p := 0.0; p <= ScaleMax; p += 10 {
		assert.InDelta(t, 10, s.PercentToPixel(Right, p)-s.PercentToPixel(Left, p), 1e-9)
	}
}

func TestSpace_Degenerate(t *testing.T) {
	s := Space{ViewWidth: 15, ThumbWidth: 10}
	assert.False(t, s.Measured())
	assert.Equal(t, 0.0, s.PixelToPercent(Left, 3))
	assert.Equal(t, ScaleMax, s.PixelToPercent(Right, 3))
}

func TestRangeSelector_FirstResizeEmitsCreated(t *testing.T) {
	r := NewRangeSelector(10, 2)
	l := &recordingListener{}
	r.AddListener(l)

	r.Resize(12)
	assert.Empty(t, l.selection, "unusable width must not create a selection")

	r.Resize(210)
	r.Resize(400)
	require.Equal(t, []string{"created:left"}, l.kinds())
	assert.Equal(t, 0.0, r.Value(Left))
	assert.Equal(t, ScaleMax, r.Value(Right))
}

func TestRangeSelector_ResizeKeepsValues(t *testing.T) {
	r, _ := newTestSelector(t)
	r.SetThumbValue(Left, 25)
	r.SetThumbValue(Right, 75)

	r.Resize(410)

	assert.Equal(t, 25.0, r.Value(Left))
	assert.Equal(t, 75.0, r.Value(Right))
	s := r.Space()
	assert.InDelta(t, s.PercentToPixel(Left, 25), r.Thumb(Left).Pos, 1e-9)
	assert.InDelta(t, s.PercentToPixel(Right, 75), r.Thumb(Right).Pos, 1e-9)
}

func TestRangeSelector_ValuePlacedBeforeMeasure(t *testing.T) {
	r := NewRangeSelector(10, 2)
	r.SetThumbValue(Left, 30)
	r.SetThumbValue(Right, 70)

	r.Resize(210)

	assert.Equal(t, 30.0, r.Value(Left))
	assert.Equal(t, 70.0, r.Value(Right))
	assert.InDelta(t, 57, r.Thumb(Left).Pos, 1e-9)
	assert.InDelta(t, 143, r.Thumb(Right).Pos, 1e-9)
}

func TestRangeSelector_ThumbAt(t *testing.T) {
	r, _ := newTestSelector(t)

	assert.Equal(t, Left, r.ThumbAt(0))
	assert.Equal(t, Left, r.ThumbAt(10))
	assert.Equal(t, NoThumb, r.ThumbAt(100))
	assert.Equal(t, Right, r.ThumbAt(205))

	// overlapping hit zones: the right thumb wins
	r.SetThumbValue(Left, 50)
	r.SetThumbValue(Right, 50)
	left := r.Thumb(Left).Pos
	assert.Equal(t, Right, r.ThumbAt(left+10))
}

func TestRangeSelector_TouchOutsideIsNotConsumed(t *testing.T) {
	r, l := newTestSelector(t)
	l.selection = nil

	assert.False(t, r.TouchDown(100))
	assert.Equal(t, NoThumb, r.Dragging())
	assert.False(t, r.TouchMove(150))
	assert.False(t, r.TouchUp(150))
	assert.Empty(t, l.selection)
}

func TestRangeSelector_TouchBeforeMeasureIgnored(t *testing.T) {
	r := NewRangeSelector(10, 2)
	assert.False(t, r.TouchDown(0))
	assert.Equal(t, NoThumb, r.Dragging())
}

func TestRangeSelector_DragLeft(t *testing.T) {
	r, l := newTestSelector(t)
	l.selection = nil

	require.True(t, r.TouchDown(5))
	assert.Equal(t, Left, r.Dragging())
	require.True(t, r.TouchMove(43))
	require.True(t, r.TouchUp(43))

	assert.InDelta(t, 38, r.Thumb(Left).Pos, 1e-9)
	assert.InDelta(t, 20, r.Value(Left), 1e-9)
	assert.Equal(t, ScaleMax, r.Value(Right))
	assert.Equal(t, []string{"start:left", "changed:left", "stop:left"}, l.kinds())
	assert.Equal(t, NoThumb, r.Dragging())
}

func TestRangeSelector_LeftCannotCrossRight(t *testing.T) {
	r, _ := newTestSelector(t)

	require.True(t, r.TouchDown(5))
	r.TouchMove(500)

	assert.InDelta(t, r.Thumb(Right).Pos-10, r.Thumb(Left).Pos, 1e-9)
	assert.LessOrEqual(t, r.Thumb(Left).Pos+10, r.Thumb(Right).Pos)
}

func TestRangeSelector_RightCannotCrossLeft(t *testing.T) {
	r, _ := newTestSelector(t)

	require.True(t, r.TouchDown(205))
	r.TouchMove(-300)

	assert.InDelta(t, 10, r.Thumb(Right).Pos, 1e-9)
	assert.InDelta(t, 0, r.Value(Right), 1e-9)
}

func TestRangeSelector_OuterClamp(t *testing.T) {
	r, _ := newTestSelector(t)
	r.SetThumbValue(Left, 50)
	r.SetThumbValue(Right, 60)

	start := r.Thumb(Left).Pos + 1
	require.True(t, r.TouchDown(start))
	r.TouchMove(start - 1000)
	r.TouchUp(0)
	assert.Equal(t, 0.0, r.Thumb(Left).Pos)
	assert.Equal(t, 0.0, r.Value(Left))

	start = r.Thumb(Right).Pos + 1
	require.True(t, r.TouchDown(start))
	r.TouchMove(start + 1000)
	assert.Equal(t, 200.0, r.Thumb(Right).Pos)
	assert.Equal(t, ScaleMax, r.Value(Right))
}

func TestRangeSelector_NeverCrosses(t *testing.T) {
	r, _ := newTestSelector(t)
	rng := rand.New(rand.NewSource(7))

	for gesture := 0; gesture < 200; gesture++ {
		var x float64
		if gesture%2 == 0 {
			x = r.Thumb(Left).Pos + 1
		} else {
			x = r.Thumb(Right).Pos + 9
		}
		if !r.TouchDown(x) {
			continue
		}
		for step := 0; step < 20; step++ {
			x += rng.Float64()*80 - 40
			r.TouchMove(x)
			left, right := r.Thumb(Left), r.Thumb(Right)
			require.LessOrEqual(t, left.Pos+left.Width, right.Pos+1e-9)
			require.GreaterOrEqual(t, left.Pos, 0.0)
			require.LessOrEqual(t, right.Pos, r.Space().RangeMax())
			require.LessOrEqual(t, left.Value, right.Value+1e-9)
		}
		r.TouchUp(x)
	}
}

func TestRangeSelector_MaxSpanPushesOtherThumb(t *testing.T) {
	r, l := newTestSelector(t)
	r.SetSpanLimits(0, 40)
	r.SetThumbValue(Left, 30)
	r.SetThumbValue(Right, 70)
	require.InDelta(t, 86, r.Thumb(Right).Pos-r.Thumb(Left).Pos, 1e-9)
	l.selection = nil

	require.True(t, r.TouchDown(60))
	r.TouchMove(40)

	assert.InDelta(t, 37, r.Thumb(Left).Pos, 1e-9)
	assert.InDelta(t, 86, r.Thumb(Right).Pos-r.Thumb(Left).Pos, 1e-9)
	assert.InDelta(t, 40, r.Value(Right)-r.Value(Left), 1e-9)
	assert.Equal(t, []string{"start:left", "changed:right", "changed:left"}, l.kinds())

	// running into the outer edge still drags the right thumb along
	r.TouchMove(0)
	assert.Equal(t, 0.0, r.Thumb(Left).Pos)
	assert.InDelta(t, 86, r.Thumb(Right).Pos, 1e-9)
	assert.InDelta(t, 40, r.Value(Right), 1e-9)
}

func TestRangeSelector_MaxSpanAllowsShrinking(t *testing.T) {
	r, _ := newTestSelector(t)
	r.SetSpanLimits(0, 40)
	r.SetThumbValue(Left, 30)
	r.SetThumbValue(Right, 70)

	require.True(t, r.TouchDown(60))
	r.TouchMove(80)

	assert.InDelta(t, 77, r.Thumb(Left).Pos, 1e-9)
	assert.Equal(t, 70.0, r.Value(Right))
}

func TestRangeSelector_SpanNeverExceedsMax(t *testing.T) {
	r, _ := newTestSelector(t)
	r.SetSpanLimits(0, 25)
	r.SetThumbValue(Left, 40)
	r.SetThumbValue(Right, 65)
	rng := rand.New(rand.NewSource(3))
	maxWidth := r.Space().SpanWidth(25)

	for gesture := 0; gesture < 100; gesture++ {
		var x float64
		if gesture%2 == 0 {
			x = r.Thumb(Left).Pos + 1
		} else {
			x = r.Thumb(Right).Pos + 9
		}
		if !r.TouchDown(x) {
			continue
		}
		for step := 0; step < 20; step++ {
			x += rng.Float64()*60 - 30
			r.TouchMove(x)
			require.LessOrEqual(t, r.Thumb(Right).Pos-r.Thumb(Left).Pos, maxWidth+1e-9)
		}
		r.TouchUp(x)
	}
}

func TestRangeSelector_MinSpan(t *testing.T) {
	r, _ := newTestSelector(t)
	r.SetSpanLimits(20, 100)

	require.True(t, r.TouchDown(5))
	r.TouchMove(500)

	assert.InDelta(t, 20, r.Value(Right)-r.Value(Left), 1e-9)
}

func TestRangeSelector_SetSpanLimits(t *testing.T) {
	r := NewRangeSelector(10, 2)

	r.SetSpanLimits(-5, 0)
	assert.Equal(t, 0.0, r.minSpan)
	assert.Equal(t, ScaleMax, r.maxSpan)

	r.SetSpanLimits(60, 40)
	assert.Equal(t, 40.0, r.minSpan)
	assert.Equal(t, 40.0, r.maxSpan)
}

func TestRangeSelector_Settle(t *testing.T) {
	r, l := newTestSelector(t)
	l.selection = nil

	r.Settle()

	assert.Equal(t, []string{"stop:left", "stop:right"}, l.kinds())
}

func TestRangeSelector_Redraw(t *testing.T) {
	r, _ := newTestSelector(t)
	redraws := 0
	r.OnRedraw(func() { redraws++ })

	r.SetThumbValue(Left, 10)
	r.TouchDown(r.Thumb(Left).Pos + 1)
	r.TouchMove(r.Thumb(Left).Pos + 5)

	assert.Equal(t, 2, redraws)
}
