package trimmer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressIndicator_Background(t *testing.T) {
	p := NewProgressIndicator(200)
	_, ok := p.Background()
	assert.False(t, ok)

	p.OnSelectionCreated(Left, 0)
	bg, ok := p.Background()
	assert.True(t, ok)
	assert.Equal(t, Bar{0, 200}, bg)

	p.OnSelectionChanged(Left, 25)
	p.OnDragStop(Right, 75)
	bg, _ = p.Background()
	assert.Equal(t, Bar{50, 150}, bg)
}

func TestProgressIndicator_Progress(t *testing.T) {
	p := NewProgressIndicator(200)
	p.OnSelectionChanged(Left, 25)

	p.OnProgress(5000, 10000, 50)
	bar, ok := p.Progress()
	assert.True(t, ok)
	assert.Equal(t, Bar{50, 100}, bar)

	p.OnProgress(0, 10000, 0)
	bar, _ = p.Progress()
	assert.True(t, bar.Empty())
}

func TestProgressIndicator_SelectionResetsProgress(t *testing.T) {
	p := NewProgressIndicator(200)
	p.OnSelectionCreated(Left, 0)
	p.OnProgress(5000, 10000, 50)

	p.OnDragStart(Right, 80)

	bar, _ := p.Progress()
	assert.True(t, bar.Empty())
}

func TestProgressIndicator_IgnoresProgressWithoutSelection(t *testing.T) {
	p := NewProgressIndicator(200)
	redraws := 0
	p.OnRedraw(func() { redraws++ })

	p.OnProgress(5000, 10000, 50)

	_, ok := p.Progress()
	assert.False(t, ok)
	assert.Equal(t, 1, redraws)
}

func TestProgressIndicator_FollowsCoordinator(t *testing.T) {
	f := newCoordinatorFixture(t, 10000, Limits{Unconstrained, 4000})
	p := NewProgressIndicator(200)
	f.selector.AddListener(p)
	f.c.AddProgressListener(p)
	f.prepare()

	bg, ok := p.Background()
	assert.True(t, ok)
	assert.Equal(t, Bar{60, 140}, bg)

	f.c.TogglePlayPause()
	f.player.positionMs = 5000
	f.sched.fire()

	bar, _ := p.Progress()
	assert.Equal(t, Bar{60, 100}, bar)
}
