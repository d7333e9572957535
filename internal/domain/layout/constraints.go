package layout

import (
	"math"

	"github.com/printlab/printlab-engine/internal/domain/transform"
)

// maxScaleFactor is the fixed editor zoom ceiling above the minimum scale.
const maxScaleFactor = 5

// RotatedSize returns the axis-aligned bounding box of a w×h rectangle
// rotated by rotation degrees: w·|cosθ|+h·|sinθ| by w·|sinθ|+h·|cosθ|.
// Only quarter turns occur in practice, so those reduce to an exact swap.
func RotatedSize(w, h, rotation float64) (float64, float64) {
	switch math.Mod(math.Abs(rotation), 180) {
	case 0:
		return w, h
	case 90:
		return h, w
	}
	sin, cos := math.Sincos(rotation * math.Pi / 180)
	sin, cos = math.Abs(sin), math.Abs(cos)
	return w*cos + h*sin, w*sin + h*cos
}

// Constraints holds the scale and position bounds for one combination of
// source size, viewport, style and rotation. Rotation changes the bounding
// box, so constraints are recomputed after every rotate.
type Constraints struct {
	style    Style
	drawable Rect
	boxW     float64 // rotated source bounding box at scale 1
	boxH     float64
	degraded bool

	MinScale float64
	MaxScale float64
}

// Compute builds the constraints for a source of the given size inside the
// viewport. The minimum scale makes the rotated bounding box exactly fit
// inside (contain) or exactly cover (cover) the drawable area; the maximum
// is a fixed multiple of the minimum. Missing dimensions return the
// unconstrained fallback along with ErrMissingDimensions so callers can
// degrade instead of failing.
func Compute(source, viewport Size, style Style, rotation float64) (Constraints, error) {
	if source.Width <= 0 || source.Height <= 0 || viewport.Width <= 0 || viewport.Height <= 0 {
		return Unconstrained(viewport), ErrMissingDimensions
	}

	drawable := style.DrawableArea(viewport)
	bw, bh := RotatedSize(source.Width, source.Height, rotation)

	var min float64
	if style.Kind == KindContain {
		min = math.Min(drawable.W/bw, drawable.H/bh)
	} else {
		min = math.Max(drawable.W/bw, drawable.H/bh)
	}

	return Constraints{
		style:    style,
		drawable: drawable,
		boxW:     bw,
		boxH:     bh,
		MinScale: min,
		MaxScale: min * maxScaleFactor,
	}, nil
}

// Unconstrained is the degraded fallback for missing dimensions: scale
// bounds default around 1 and positions pass through unclamped.
func Unconstrained(viewport Size) Constraints {
	return Constraints{
		drawable: Rect{W: viewport.Width, H: viewport.Height},
		MinScale: 1,
		MaxScale: maxScaleFactor,
		degraded: true,
	}
}

// Degraded reports whether the constraints are the unconstrained fallback.
func (c Constraints) Degraded() bool { return c.degraded }

// Drawable returns the area the photo is constrained against.
func (c Constraints) Drawable() Rect { return c.drawable }

// ClampScale clamps s into [MinScale, MaxScale].
func (c Constraints) ClampScale(s float64) float64 {
	return math.Min(math.Max(s, c.MinScale), c.MaxScale)
}

// ClampPosition clamps the image center (x, y) so that the rotated, scaled
// bounding box covers the drawable area (cover) or stays inside it
// (contain), each axis independently. Pure and idempotent: re-clamping a
// clamped position returns it unchanged.
func (c Constraints) ClampPosition(x, y, scale float64) (float64, float64) {
	if c.degraded {
		return x, y
	}
	return clampAxis(x, c.drawable.X, c.drawable.W, c.boxW*scale, c.style.Kind),
		clampAxis(y, c.drawable.Y, c.drawable.H, c.boxH*scale, c.style.Kind)
}

// ImageBox returns the rotated, scaled bounding box centered at (x, y).
func (c Constraints) ImageBox(x, y, scale float64) Rect {
	w, h := c.boxW*scale, c.boxH*scale
	return Rect{X: x - w/2, Y: y - h/2, W: w, H: h}
}

func clampAxis(center, dMin, dLen, boxLen float64, kind Kind) float64 {
	var lo, hi float64
	if kind == KindContain {
		lo, hi = dMin+boxLen/2, dMin+dLen-boxLen/2
	} else {
		lo, hi = dMin+dLen-boxLen/2, dMin+boxLen/2
	}
	if lo > hi {
		// The box cannot satisfy the bound on this axis at all; center it.
		return dMin + dLen/2
	}
	return math.Min(math.Max(center, lo), hi)
}

// DefaultTransform is the placement a photo gets before any edit: centered
// in the viewport at the minimum scale, rotated a quarter turn when the
// photo was auto-rotated at ingestion. Missing dimensions degrade to the
// unconstrained fallback, so the result is always usable.
func DefaultTransform(source, viewport Size, style Style, autoRotated bool) transform.Transform {
	rotation := 0.0
	if autoRotated {
		rotation = 90
	}
	cons, _ := Compute(source, viewport, style, rotation)
	return transform.New(transform.Components{
		ScaleX:   cons.MinScale,
		ScaleY:   cons.MinScale,
		Rotation: rotation,
		TX:       viewport.Width / 2,
		TY:       viewport.Height / 2,
	}, viewport.Width, viewport.Height)
}
