// Package transform models the interactive crop/zoom/rotate state of the
// thumbnail editor. Offsets are stored in rotated crop-space pixels; all
// mutators clamp rather than reject, so extreme input degrades gracefully.
package transform

import (
	"math"

	"capture-thumb-editor/internal/geom"
)

// MaxZoomFactor bounds how far past the fit scale the user can zoom in.
const MaxZoomFactor = 8.0

// CropGeometry describes the square crop region inside the editor viewport.
// Derived from the viewport on every resize, never persisted.
type CropGeometry struct {
	CanvasW  float64
	CanvasH  float64
	CropSize float64
	CenterX  float64
	CenterY  float64
}

// cropFraction is the share of the viewport's short side the crop square
// occupies.
const cropFraction = 0.9

// FitCrop derives the crop geometry for a viewport.
func FitCrop(viewportW, viewportH float64) CropGeometry {
	short := math.Min(viewportW, viewportH)
	size := short * cropFraction
	if size < 1 {
		size = 1
	}
	return CropGeometry{
		CanvasW:  viewportW,
		CanvasH:  viewportH,
		CropSize: size,
		CenterX:  viewportW / 2,
		CenterY:  viewportH / 2,
	}
}

// Record is the serializable snapshot of a transform, owned by the caller
// once saved. Restoring a Record into a fresh State for the same image and
// crop geometry reproduces the identical visual state.
type Record struct {
	Scale            float64 `json:"scale"`
	Rotation         float64 `json:"rotation"`
	OffsetX          float64 `json:"offsetX"`
	OffsetY          float64 `json:"offsetY"`
	SourceImageIndex int     `json:"sourceImageIndex"`
}

// State is the live transform of the editor session.
type State struct {
	Scale    float64
	Rotation float64 // degrees in [-180, 180]
	OffsetX  float64 // rotated crop-space px
	OffsetY  float64

	crop     CropGeometry
	imgW     float64
	imgH     float64
	minScale float64
	maxScale float64
}

// New returns a State fitted to the given image and crop geometry:
// scale = minScale, rotation and offsets zero.
func New(imgW, imgH int, crop CropGeometry) *State {
	s := &State{}
	s.SetImage(imgW, imgH)
	s.SetCrop(crop)
	s.Reset()
	return s
}

// SetImage switches the source image dimensions and recomputes the scale
// bounds. The current scale is re-clamped into the new bounds.
func (s *State) SetImage(w, h int) {
	s.imgW, s.imgH = float64(w), float64(h)
	s.recomputeBounds()
}

// SetCrop installs a new crop geometry (viewport resize) and recomputes the
// scale bounds.
func (s *State) SetCrop(crop CropGeometry) {
	s.crop = crop
	s.recomputeBounds()
}

// recomputeBounds derives minScale as the scale at which the image's shorter
// edge exactly fills the crop square.
func (s *State) recomputeBounds() {
	short := math.Min(s.imgW, s.imgH)
	if short <= 0 || s.crop.CropSize <= 0 {
		s.minScale, s.maxScale = 1, 1
	} else {
		s.minScale = s.crop.CropSize / short
		s.maxScale = s.minScale * MaxZoomFactor
	}
	s.Scale = clamp(s.Scale, s.minScale, s.maxScale)
	s.clampOffsets()
}

// Crop returns the current crop geometry.
func (s *State) Crop() CropGeometry { return s.crop }

// ImageSize returns the current source image dimensions.
func (s *State) ImageSize() (float64, float64) { return s.imgW, s.imgH }

// MinScale returns the current lower scale bound.
func (s *State) MinScale() float64 { return s.minScale }

// MaxScale returns the current upper scale bound.
func (s *State) MaxScale() float64 { return s.maxScale }

// Reset recomputes the scale bounds for the current image and crop geometry
// and returns the transform to the fit default.
func (s *State) Reset() {
	s.recomputeBounds()
	s.Scale = s.minScale
	s.Rotation = 0
	s.OffsetX = 0
	s.OffsetY = 0
}

// Pan accumulates a screen-space drag into the offset. The delta is rotated
// into the crop frame first, so dragging right always moves the image right
// on screen no matter the rotation setting.
func (s *State) Pan(dxScreen, dyScreen float64) {
	dx, dy := geom.Rotate(-s.Rotation).Apply(dxScreen, dyScreen)
	s.OffsetX += dx
	s.OffsetY += dy
	s.clampOffsets()
}

// SetZoomSlider maps a slider position in [0,1] to scale along a logarithmic
// curve, so equal slider travel gives equal perceived zoom change.
func (s *State) SetZoomSlider(v float64) {
	v = clamp(v, 0, 1)
	s.Scale = s.minScale * math.Pow(s.maxScale/s.minScale, v)
	s.clampOffsets()
}

// ZoomSlider is the inverse of SetZoomSlider: the slider position for the
// current scale.
func (s *State) ZoomSlider() float64 {
	if s.maxScale <= s.minScale {
		return 0
	}
	return math.Log(s.Scale/s.minScale) / math.Log(s.maxScale/s.minScale)
}

// SetRotation sets the rotation, clamped to [-180, 180] degrees.
func (s *State) SetRotation(deg float64) {
	s.Rotation = clamp(deg, -180, 180)
	s.clampOffsets()
}

// RotateBy nudges the rotation, typically by ±90 for the rotate buttons.
func (s *State) RotateBy(deg float64) {
	s.SetRotation(s.Rotation + deg)
}

// ApplyPinch folds a two-finger gesture step into the transform: scale by the
// contact distance ratio and rotation by the contact angle delta, together.
func (s *State) ApplyPinch(distanceRatio, angleDeltaDeg float64) {
	if distanceRatio > 0 {
		s.Scale = clamp(s.Scale*distanceRatio, s.minScale, s.maxScale)
	}
	s.SetRotation(s.Rotation + angleDeltaDeg)
}

// clampOffsets keeps the image overlapping the crop square. The offset lives
// in the rotated frame where the image is axis-aligned, so each axis is
// bounded by half the scaled image extent plus the crop circumradius.
func (s *State) clampOffsets() {
	if s.crop.CropSize <= 0 {
		return
	}
	r := s.crop.CropSize * math.Sqrt2 / 2
	maxX := s.imgW*s.Scale/2 + r
	maxY := s.imgH*s.Scale/2 + r
	s.OffsetX = clamp(s.OffsetX, -maxX, maxX)
	s.OffsetY = clamp(s.OffsetY, -maxY, maxY)
}

// Snapshot deep-copies the transform into an immutable Record for the given
// source image index.
func (s *State) Snapshot(sourceIndex int) Record {
	return Record{
		Scale:            s.Scale,
		Rotation:         s.Rotation,
		OffsetX:          s.OffsetX,
		OffsetY:          s.OffsetY,
		SourceImageIndex: sourceIndex,
	}
}

// Restore replays a saved Record verbatim, clamped into the current bounds.
func (s *State) Restore(rec Record) {
	s.Scale = clamp(rec.Scale, s.minScale, s.maxScale)
	s.Rotation = clamp(rec.Rotation, -180, 180)
	s.OffsetX = rec.OffsetX
	s.OffsetY = rec.OffsetY
	s.clampOffsets()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
