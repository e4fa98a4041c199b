// Package editor orchestrates a thumbnail editing session: source image
// selection, transform state, gesture application, and save.
//
// Image loading is the only asynchronous boundary. Every load request
// captures a monotonically increasing generation token; a completion commits
// only while its token is still current, so a slow stale load can never
// clobber the state after the user has moved on to another image.
package editor

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"capture-thumb-editor/internal/gesture"
	"capture-thumb-editor/internal/imgio"
	"capture-thumb-editor/internal/logging"
	"capture-thumb-editor/internal/render"
	"capture-thumb-editor/internal/transform"
)

var (
	// ErrNoImage is returned by operations that need a loaded source image.
	ErrNoImage = errors.New("editor: no image loaded")

	// ErrClosed is returned once the session reached a terminal phase.
	ErrClosed = errors.New("editor: session closed")
)

// Phase is the session lifecycle state.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseReady
	PhaseEditing
	PhaseSaved
	PhaseClosed
)

// wheelZoomStep is the slider travel of one wheel notch.
const wheelZoomStep = 0.05

// Loader supplies normalized sources by index. Implementations may be slow
// (decode, HEIC conversion); the session tolerates out-of-order completions.
type Loader interface {
	Load(index int) (*imgio.ImageSource, error)
}

// SaveResult is what Save hands back to the caller: the encoded thumbnail
// and the transform record that replays this exact visual state.
type SaveResult struct {
	Thumb  []byte
	Record transform.Record
}

// Session is a single editor run over one item draft. Safe for concurrent
// use by the loading goroutine and the UI goroutine.
type Session struct {
	mu sync.Mutex

	loader Loader
	encode imgio.EncodeFunc

	crop     transform.CropGeometry
	state    *transform.State
	src      *imgio.ImageSource
	srcIndex int
	records  map[int]transform.Record
	gen      uint64
	phase    Phase
}

// NewSession opens an editing session sized to the given viewport. Encoding
// defaults to WebP. Prior transform records (from a re-edit) may be seeded
// with RestoreRecord before the first load commits.
func NewSession(loader Loader, viewportW, viewportH float64) *Session {
	return &Session{
		loader:  loader,
		encode:  imgio.EncodeWebP,
		crop:    transform.FitCrop(viewportW, viewportH),
		records: map[int]transform.Record{},
		phase:   PhaseUninitialized,
	}
}

// SetEncoder replaces the thumbnail encoder used by Save.
func (s *Session) SetEncoder(enc imgio.EncodeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if enc != nil {
		s.encode = enc
	}
}

// RestoreRecord seeds a caller-owned transform record for a source index, so
// selecting that image restores it instead of the fit default.
func (s *Session) RestoreRecord(rec transform.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.SourceImageIndex] = rec
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// BeginLoad starts switching to the source image at index and returns the
// generation token the eventual FinishLoad must present. Selecting another
// image before the load finishes supersedes it implicitly.
func (s *Session) BeginLoad(index int) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.srcIndex = index
	return s.gen
}

// FinishLoad commits a completed load if its token is still current.
// Reports whether the result was committed; stale completions are discarded
// whole — no field ever mixes data from two loads.
func (s *Session) FinishLoad(token uint64, src *imgio.ImageSource, loadErr error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.gen {
		logging.Logger().Debug("stale image load discarded",
			"token", token, "current", s.gen)
		return false
	}
	if s.phase == PhaseClosed || s.phase == PhaseSaved {
		return false
	}
	if loadErr != nil {
		return false
	}

	s.src = src
	s.state = transform.New(src.NaturalWidth, src.NaturalHeight, s.crop)
	if rec, ok := s.records[s.srcIndex]; ok {
		s.state.Restore(rec)
	}
	s.phase = PhaseReady
	return true
}

// Select switches the source image synchronously through the session's
// loader. Asynchronous hosts drive BeginLoad/FinishLoad themselves.
func (s *Session) Select(index int) error {
	token := s.BeginLoad(index)
	src, err := s.loader.Load(index)
	if !s.FinishLoad(token, src, err) {
		if err != nil {
			return fmt.Errorf("editor: load image %d: %w", index, err)
		}
		return fmt.Errorf("editor: load image %d superseded", index)
	}
	return nil
}

// SourceIndex returns the index of the most recently selected image.
func (s *Session) SourceIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.srcIndex
}

// Resize recomputes the crop geometry for a new viewport and re-clamps the
// transform.
func (s *Session) Resize(viewportW, viewportH float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.crop = transform.FitCrop(viewportW, viewportH)
	if s.state != nil {
		s.state.SetCrop(s.crop)
	}
}

// editing runs fn against the transform state, moving the session into the
// editing phase.
func (s *Session) editing(fn func(*transform.State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.phase == PhaseClosed || s.phase == PhaseSaved:
		return ErrClosed
	case s.state == nil:
		return ErrNoImage
	}
	fn(s.state)
	s.phase = PhaseEditing
	return nil
}

// Pan applies a screen-space drag.
func (s *Session) Pan(dx, dy float64) error {
	return s.editing(func(st *transform.State) { st.Pan(dx, dy) })
}

// SetZoomSlider applies a zoom slider position in [0,1].
func (s *Session) SetZoomSlider(v float64) error {
	return s.editing(func(st *transform.State) { st.SetZoomSlider(v) })
}

// SetRotation sets the rotation in degrees.
func (s *Session) SetRotation(deg float64) error {
	return s.editing(func(st *transform.State) { st.SetRotation(deg) })
}

// RotateBy nudges the rotation (the ±90° buttons).
func (s *Session) RotateBy(deg float64) error {
	return s.editing(func(st *transform.State) { st.RotateBy(deg) })
}

// ApplyPinch applies a combined pinch-zoom and twist step.
func (s *Session) ApplyPinch(distanceRatio, angleDeltaDeg float64) error {
	return s.editing(func(st *transform.State) { st.ApplyPinch(distanceRatio, angleDeltaDeg) })
}

// Reset returns the transform to the fit default for the current image.
func (s *Session) Reset() error {
	return s.editing(func(st *transform.State) { st.Reset() })
}

// Apply folds a recognized gesture delta into the state: pan, pinch, and
// discrete wheel zoom steps in one call.
func (s *Session) Apply(d gesture.Delta) error {
	return s.editing(func(st *transform.State) {
		if d.PanX != 0 || d.PanY != 0 {
			st.Pan(d.PanX, d.PanY)
		}
		if (d.ScaleRatio != 1 && d.ScaleRatio > 0) || d.RotateDeg != 0 {
			st.ApplyPinch(d.ScaleRatio, d.RotateDeg)
		}
		if d.ZoomSteps != 0 {
			st.SetZoomSlider(st.ZoomSlider() + float64(d.ZoomSteps)*wheelZoomStep)
		}
	})
}

// State returns a snapshot of the live transform for the current image.
func (s *Session) State() (transform.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return transform.Record{}, ErrNoImage
	}
	return s.state.Snapshot(s.srcIndex), nil
}

// Preview renders the current state into a fresh surface of the given size.
// Called by the host on every state mutation.
func (s *Session) Preview(size int) (*image.NRGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderLocked(size)
}

func (s *Session) renderLocked(size int) (*image.NRGBA, error) {
	if s.phase == PhaseClosed {
		return nil, ErrClosed
	}
	if s.state == nil || s.src == nil {
		return nil, ErrNoImage
	}
	surf, err := render.NewSurface(size, size)
	if err != nil {
		return nil, err
	}
	if err := render.Draw(surf, s.src.Bitmap, s.state); err != nil {
		return nil, err
	}
	return surf, nil
}

// Save renders the current state at export resolution through the same
// pipeline as the preview, encodes it, and returns the thumbnail with a
// transform record that replays this session exactly. Terminal for the
// session.
func (s *Session) Save(outputSize int) (*SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	surf, err := s.renderLocked(outputSize)
	if err != nil {
		return nil, err
	}
	thumb, err := s.encode(surf)
	if err != nil {
		return nil, err
	}

	rec := s.state.Snapshot(s.srcIndex)
	s.records[s.srcIndex] = rec
	s.phase = PhaseSaved

	return &SaveResult{Thumb: thumb, Record: rec}, nil
}

// Close ends the session without saving. The live transform is discarded;
// records already saved belong to the caller.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseClosed
	s.state = nil
	s.src = nil
}
