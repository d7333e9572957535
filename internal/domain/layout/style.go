package layout

// Kind selects between the two print styles.
type Kind string

const (
	// KindCover is full-bleed printing: the photo must fill the frame and
	// may be clipped at the edges.
	KindCover Kind = "cover"
	// KindContain is white-margin printing: the photo must stay entirely
	// inside a margin-inset safe area.
	KindContain Kind = "contain"
)

// Style describes the print frame: its aspect ratio and how the photo must
// relate to it. MarginPercent is the per-side safe margin for contain
// prints, in percent of each frame dimension; it is always zero for cover,
// which collapses both styles into one margin-aware code path.
type Style struct {
	AspectRatio   float64
	Kind          Kind
	MarginPercent float64
}

// Cover returns a full-bleed style for the given aspect ratio.
func Cover(aspectRatio float64) Style {
	return Style{AspectRatio: aspectRatio, Kind: KindCover}
}

// Contain returns a white-margin style with the given per-side margin.
func Contain(aspectRatio, marginPercent float64) Style {
	return Style{AspectRatio: aspectRatio, Kind: KindContain, MarginPercent: marginPercent}
}

// Size is an explicit width/height pair. Viewport sizes are always passed
// in; nothing in this package measures a rendering surface.
type Size struct {
	Width  float64
	Height float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// CenterX returns the horizontal center.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the vertical center.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// DrawableArea returns the region of the viewport the photo is constrained
// against: the full viewport for cover, the margin-inset safe area for
// contain.
func (s Style) DrawableArea(viewport Size) Rect {
	if s.Kind == KindContain && s.MarginPercent > 0 {
		mx := viewport.Width * s.MarginPercent / 100
		my := viewport.Height * s.MarginPercent / 100
		return Rect{X: mx, Y: my, W: viewport.Width - 2*mx, H: viewport.Height - 2*my}
	}
	return Rect{W: viewport.Width, H: viewport.Height}
}
