package gesture

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var surface = Rect{MinX: 0, MinY: 0, MaxX: 400, MaxY: 400}

func TestSingleContactPans(t *testing.T) {
	g := New(surface)
	require.True(t, g.Down(1, 100, 100))
	assert.True(t, g.Active())

	d := g.Move(1, 112, 95)
	assert.Equal(t, 12.0, d.PanX)
	assert.Equal(t, -5.0, d.PanY)
	assert.Equal(t, 1.0, d.ScaleRatio)
	assert.Zero(t, d.RotateDeg)

	// Deltas are incremental, not cumulative.
	d = g.Move(1, 112, 95)
	assert.Zero(t, d.PanX)
	assert.Zero(t, d.PanY)

	g.Up(1)
	assert.False(t, g.Active())
}

func TestTwoContactsPinchAndRotateTogether(t *testing.T) {
	g := New(surface)
	g.Down(1, 100, 200)
	g.Down(2, 200, 200) // horizontal, distance 100

	// Spread to distance 150 and twist 90°: second finger moves above the
	// first.
	d := g.Move(2, 100, 50)
	assert.InDelta(t, 1.5, d.ScaleRatio, 1e-9)
	assert.InDelta(t, -90.0, d.RotateDeg, 1e-9)
	assert.Zero(t, d.PanX)
	assert.Zero(t, d.PanY)

	// Next move is relative to the updated trackers.
	d = g.Move(2, 100, 50)
	assert.InDelta(t, 1.0, d.ScaleRatio, 1e-9)
	assert.InDelta(t, 0.0, d.RotateDeg, 1e-9)
}

func TestDropToOneFingerDoesNotJump(t *testing.T) {
	g := New(surface)
	g.Down(1, 100, 100)
	g.Down(2, 200, 200)
	g.Move(2, 210, 190)

	// Second finger lifts; the survivor's tracker must be reseeded.
	g.Up(2)
	d := g.Move(1, 100.5, 100.2)
	assert.LessOrEqual(t, math.Abs(d.PanX), 0.5+1e-9)
	assert.LessOrEqual(t, math.Abs(d.PanY), 0.2+1e-9)
}

func TestSecondFingerDownReseedsPinchTrackers(t *testing.T) {
	g := New(surface)
	g.Down(1, 100, 100)
	g.Move(1, 120, 100)

	g.Down(2, 220, 100) // distance 100
	d := g.Move(2, 320, 100)
	// Ratio measured from the reseeded distance, not from zero.
	assert.InDelta(t, 2.0, d.ScaleRatio, 1e-9)
}

func TestWheelZoomsOnly(t *testing.T) {
	g := New(surface)

	d := g.Wheel(50, 50, -120)
	assert.Equal(t, 1, d.ZoomSteps)
	assert.Zero(t, d.RotateDeg)
	assert.Equal(t, 1.0, d.ScaleRatio)

	d = g.Wheel(50, 50, 120)
	assert.Equal(t, -1, d.ZoomSteps)

	// Off the surface: not intercepted.
	d = g.Wheel(500, 50, -120)
	assert.Zero(t, d.ZoomSteps)
}

func TestGestureOutsideSurfaceNotIntercepted(t *testing.T) {
	g := New(surface)
	assert.False(t, g.Down(1, 450, 450))
	assert.False(t, g.Active())

	// But a second finger may land off-surface mid-gesture.
	require.True(t, g.Down(1, 100, 100))
	assert.True(t, g.Down(2, 450, 100))
}

func TestMoveUnknownContact(t *testing.T) {
	g := New(surface)
	d := g.Move(9, 10, 10)
	assert.Equal(t, noDelta(), d)
}

func TestThreeContactsEmitNothing(t *testing.T) {
	g := New(surface)
	g.Down(1, 100, 100)
	g.Down(2, 200, 100)
	g.Down(3, 150, 200)

	d := g.Move(3, 160, 210)
	assert.Equal(t, noDelta(), d)

	// Back to two: pinch resumes from reseeded trackers.
	g.Up(3)
	d = g.Move(2, 300, 100)
	assert.InDelta(t, 2.0, d.ScaleRatio, 1e-9)
}

func TestCancelDropsEverything(t *testing.T) {
	g := New(surface)
	g.Down(1, 100, 100)
	g.Down(2, 200, 100)
	g.Cancel()
	assert.False(t, g.Active())
	assert.Equal(t, noDelta(), g.Move(1, 150, 150))
}

func TestNormalizeAngle(t *testing.T) {
	assert.InDelta(t, -10.0, normalizeAngle(350), 1e-12)
	assert.InDelta(t, 10.0, normalizeAngle(-350), 1e-12)
	assert.InDelta(t, 180.0, normalizeAngle(180), 1e-12)
	assert.InDelta(t, 180.0, normalizeAngle(-180), 1e-12)
}
