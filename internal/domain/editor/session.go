package editor

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/printlab/printlab-engine/internal/domain/layout"
	"github.com/printlab/printlab-engine/internal/domain/photo"
	"github.com/printlab/printlab-engine/internal/domain/transform"
)

// State is the gesture the session is currently in.
type State string

const (
	StateIdle     State = "idle"
	StateDragging State = "dragging"
	StatePinching State = "pinching"
)

// wheelStep is the zoom change of one scroll notch.
const wheelStep = 0.1

// Session is the interactive editing surface for one photo. Every method
// must be called from the same goroutine (the UI loop). Pointer samples are
// coalesced: gesture moves only record the newest sample, and Frame applies
// it, so the transform advances at most once per animation frame no matter
// how fast events arrive.
type Session struct {
	photo    *photo.Photo
	viewport layout.Size
	style    layout.Style

	cons   layout.Constraints
	comps  transform.Components
	loaded transform.Matrix // as loaded, for commit-on-navigate dirty checks
	state  State

	anchorX, anchorY float64 // drag: pointer position minus translation
	pinchBase        float64 // pinch: distance at gesture start
	pinchScale       float64 // pinch: scale at gesture start

	pendingPos  *[2]float64
	pendingDist *float64
}

func newSession(p *photo.Photo, viewport layout.Size, style layout.Style) *Session {
	s := &Session{photo: p, viewport: viewport, style: style, state: StateIdle}

	if stored, ok := p.Transform(); ok {
		s.comps = stored.Rescale(viewport.Width).Components()
	} else {
		s.comps = layout.DefaultTransform(s.sourceSize(), viewport, style, p.AutoRotated).Components()
	}
	s.recompute()
	// Stored transforms may predate the current constraints; settle them.
	s.comps.TX, s.comps.TY = s.cons.ClampPosition(s.comps.TX, s.comps.TY, s.comps.ScaleX)
	s.loaded = transform.Compose(s.comps)
	return s
}

func (s *Session) sourceSize() layout.Size {
	return layout.Size{Width: float64(s.photo.SourceWidth), Height: float64(s.photo.SourceHeight)}
}

func (s *Session) recompute() {
	cons, err := layout.Compute(s.sourceSize(), s.viewport, s.style, s.comps.Rotation)
	if err != nil {
		log.Warn().
			Str("photo_id", s.photo.ID.String()).
			Msg("editor constraints degraded: missing dimensions")
	}
	s.cons = cons
}

// State returns the current gesture state.
func (s *Session) State() State { return s.state }

// Photo returns the photo being edited.
func (s *Session) Photo() *photo.Photo { return s.photo }

// Transform returns the working transform at the session's viewport.
func (s *Session) Transform() transform.Transform {
	return transform.New(s.comps, s.viewport.Width, s.viewport.Height)
}

// Scale returns the working scale.
func (s *Session) Scale() float64 { return s.comps.ScaleX }

// Rotation returns the working rotation in degrees.
func (s *Session) Rotation() float64 { return s.comps.Rotation }

// Constraints returns the active scale bounds.
func (s *Session) Constraints() layout.Constraints { return s.cons }

// PointerDown starts a drag: the anchor is the pointer position minus the
// current translation, so the grab point stays under the finger.
func (s *Session) PointerDown(x, y float64) {
	if s.state != StateIdle {
		return
	}
	s.state = StateDragging
	s.anchorX = x - s.comps.TX
	s.anchorY = y - s.comps.TY
}

// PointerMove records the newest drag sample. Nothing is applied until the
// next Frame, which keeps rapid pointer streams down to one transform
// update per animation frame.
func (s *Session) PointerMove(x, y float64) {
	if s.state != StateDragging {
		return
	}
	s.pendingPos = &[2]float64{x, y}
}

// Frame applies the pending coalesced samples. Returns true when the
// transform changed and the caller should redraw.
func (s *Session) Frame() bool {
	changed := false

	if s.pendingDist != nil {
		d := *s.pendingDist
		s.pendingDist = nil
		if s.state == StatePinching && s.pinchBase > 0 {
			changed = s.applyScale(s.pinchScale*d/s.pinchBase) || changed
		}
	}

	if s.pendingPos != nil {
		pos := *s.pendingPos
		s.pendingPos = nil
		if s.state == StateDragging {
			x, y := s.cons.ClampPosition(pos[0]-s.anchorX, pos[1]-s.anchorY, s.comps.ScaleX)
			if x != s.comps.TX || y != s.comps.TY {
				s.comps.TX, s.comps.TY = x, y
				changed = true
			}
		}
	}

	return changed
}

// PointerUp ends the drag. The last sample is applied first, so the settle
// position is whatever the user was seeing; it is already clamped.
func (s *Session) PointerUp() {
	if s.state != StateDragging {
		return
	}
	s.Frame()
	s.state = StateIdle
}

// Wheel applies one scroll notch: positive steps zoom in, negative out.
// Wheel zoom is discrete, so it applies immediately rather than per frame.
func (s *Session) Wheel(steps float64) {
	if s.state != StateIdle {
		return
	}
	s.applyScale(s.comps.ScaleX * (1 + wheelStep*steps))
}

// PinchStart begins a two-finger zoom from the given finger distance.
func (s *Session) PinchStart(distance float64) {
	if s.state != StateIdle || distance <= 0 {
		return
	}
	s.state = StatePinching
	s.pinchBase = distance
	s.pinchScale = s.comps.ScaleX
}

// PinchMove records the newest finger distance; Frame applies it.
func (s *Session) PinchMove(distance float64) {
	if s.state != StatePinching || distance <= 0 {
		return
	}
	s.pendingDist = &distance
}

// PinchEnd settles the zoom and returns to idle.
func (s *Session) PinchEnd() {
	if s.state != StatePinching {
		return
	}
	s.Frame()
	s.state = StateIdle
}

// applyScale clamps the scale into bounds and re-clamps the position,
// since the position bounds depend on scale.
func (s *Session) applyScale(scale float64) bool {
	scale = s.cons.ClampScale(scale)
	x, y := s.cons.ClampPosition(s.comps.TX, s.comps.TY, scale)
	if scale == s.comps.ScaleX && x == s.comps.TX && y == s.comps.TY {
		return false
	}
	s.comps.ScaleX, s.comps.ScaleY = scale, scale
	s.comps.TX, s.comps.TY = x, y
	return true
}

// Rotate turns the photo a quarter turn clockwise. The scale floor moves
// with the rotation: when the current scale falls below the new minimum it
// is raised, and the position is re-clamped either way.
func (s *Session) Rotate() {
	if s.state != StateIdle {
		return
	}
	s.comps.Rotation = math.Mod(s.comps.Rotation+90, 360)
	s.recompute()
	if s.comps.ScaleX < s.cons.MinScale {
		s.comps.ScaleX, s.comps.ScaleY = s.cons.MinScale, s.cons.MinScale
	}
	s.comps.TX, s.comps.TY = s.cons.ClampPosition(s.comps.TX, s.comps.TY, s.comps.ScaleX)
}

// Reset discards the in-progress edit and reloads the computed default.
func (s *Session) Reset() {
	if s.state != StateIdle {
		return
	}
	s.pendingPos, s.pendingDist = nil, nil
	s.comps = layout.DefaultTransform(s.sourceSize(), s.viewport, s.style, s.photo.AutoRotated).Components()
	s.recompute()
}

// Dirty reports whether the working transform differs from the loaded one.
func (s *Session) Dirty() bool {
	s.Frame()
	return transform.Compose(s.comps) != s.loaded
}

// Commit persists the working transform onto the photo when it changed
// since load. Returns true when something was written.
func (s *Session) Commit() bool {
	s.Frame()
	m := transform.Compose(s.comps)
	if m == s.loaded {
		return false
	}
	s.photo.SetTransform(transform.New(s.comps, s.viewport.Width, s.viewport.Height))
	s.loaded = m
	log.Debug().Str("photo_id", s.photo.ID.String()).Msg("transform committed")
	return true
}

// SafeArea returns the drawable region, for margin overlays.
func (s *Session) SafeArea() layout.Rect {
	return s.cons.Drawable()
}

// ImageBox returns the transformed bounding box of the photo in viewport
// coordinates, for bleed overlays.
func (s *Session) ImageBox() layout.Rect {
	return s.cons.ImageBox(s.comps.TX, s.comps.TY, s.comps.ScaleX)
}
