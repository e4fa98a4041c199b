// Package gesture turns pointer and touch sequences into pan, zoom, and
// rotate deltas for the editor.
//
// Exactly one active contact pans; exactly two combine pinch-zoom and rotate.
// Wheel input maps to a discrete zoom step only. The recognizer only captures
// gestures that start inside the editor surface; while one is active the host
// should suppress default scrolling (see Active).
package gesture

import "math"

// Delta is one recognized gesture step. Zero values mean "no change":
// ScaleRatio is 1 when the distance between contacts did not change.
type Delta struct {
	PanX       float64
	PanY       float64
	ScaleRatio float64
	RotateDeg  float64
	ZoomSteps  int
}

func noDelta() Delta { return Delta{ScaleRatio: 1} }

// Rect is the editor surface in screen coordinates.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Contains reports whether (x, y) is on the surface.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x < r.MaxX && y >= r.MinY && y < r.MaxY
}

type contact struct {
	id   int
	x, y float64
}

// Recognizer tracks active contacts over the editor surface. All tracker
// state is transient: it is reseeded on every contact-count transition and
// discarded when the last contact lifts.
type Recognizer struct {
	bounds   Rect
	contacts []contact

	lastX, lastY float64
	lastDistance float64
	lastAngle    float64
}

// New returns a recognizer for the given surface bounds.
func New(bounds Rect) *Recognizer {
	return &Recognizer{bounds: bounds}
}

// SetBounds updates the surface bounds (viewport resize).
func (g *Recognizer) SetBounds(bounds Rect) { g.bounds = bounds }

// Active reports whether a gesture is in progress. While true, the host must
// suppress the platform's default scroll/zoom handling.
func (g *Recognizer) Active() bool { return len(g.contacts) > 0 }

// Down registers a contact. Contacts starting outside the surface are not
// intercepted and return false, unless a gesture is already active (a second
// finger may land slightly off the surface mid-pinch).
func (g *Recognizer) Down(id int, x, y float64) bool {
	if !g.Active() && !g.bounds.Contains(x, y) {
		return false
	}
	for i := range g.contacts {
		if g.contacts[i].id == id {
			g.contacts[i].x, g.contacts[i].y = x, y
			g.reseed()
			return true
		}
	}
	g.contacts = append(g.contacts, contact{id: id, x: x, y: y})
	g.reseed()
	return true
}

// Move updates a contact position and returns the recognized delta.
func (g *Recognizer) Move(id int, x, y float64) Delta {
	idx := -1
	for i := range g.contacts {
		if g.contacts[i].id == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return noDelta()
	}
	g.contacts[idx].x, g.contacts[idx].y = x, y

	switch len(g.contacts) {
	case 1:
		d := Delta{PanX: x - g.lastX, PanY: y - g.lastY, ScaleRatio: 1}
		g.lastX, g.lastY = x, y
		return d
	case 2:
		dist, angle := g.span()
		d := noDelta()
		if g.lastDistance > 0 && dist > 0 {
			d.ScaleRatio = dist / g.lastDistance
		}
		d.RotateDeg = normalizeAngle(angle - g.lastAngle)
		g.lastDistance, g.lastAngle = dist, angle
		return d
	default:
		// Three or more contacts: ambiguous, track but emit nothing.
		return noDelta()
	}
}

// Up removes a contact. Trackers are reseeded from the survivors so the next
// move does not jump.
func (g *Recognizer) Up(id int) {
	for i := range g.contacts {
		if g.contacts[i].id == id {
			g.contacts = append(g.contacts[:i], g.contacts[i+1:]...)
			break
		}
	}
	g.reseed()
}

// Cancel drops all contacts (e.g. the platform stole the touch sequence).
func (g *Recognizer) Cancel() {
	g.contacts = g.contacts[:0]
}

// Wheel maps a scroll event over the surface to discrete zoom steps; it
// never rotates. Events off the surface are not intercepted.
func (g *Recognizer) Wheel(x, y, deltaY float64) Delta {
	d := noDelta()
	if !g.bounds.Contains(x, y) {
		return d
	}
	if deltaY < 0 {
		d.ZoomSteps = 1
	} else if deltaY > 0 {
		d.ZoomSteps = -1
	}
	return d
}

// reseed re-anchors the trackers from the current contacts, called on every
// contact-count transition.
func (g *Recognizer) reseed() {
	switch len(g.contacts) {
	case 1:
		g.lastX, g.lastY = g.contacts[0].x, g.contacts[0].y
	case 2:
		g.lastDistance, g.lastAngle = g.span()
	}
}

// span returns the distance and angle between the first two contacts.
func (g *Recognizer) span() (float64, float64) {
	dx := g.contacts[1].x - g.contacts[0].x
	dy := g.contacts[1].y - g.contacts[0].y
	return math.Hypot(dx, dy), math.Atan2(dy, dx) * 180 / math.Pi
}

// normalizeAngle folds an angle delta into (-180, 180] so a pinch crossing
// the ±180° seam stays continuous.
func normalizeAngle(deg float64) float64 {
	for deg > 180 {
		deg -= 360
	}
	for deg <= -180 {
		deg += 360
	}
	return deg
}
