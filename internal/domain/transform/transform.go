package transform

// Transform pairs an affine matrix with the viewport size it was captured
// at. The raw matrix values mean nothing without the reference size: before
// applying the matrix in a differently sized viewport, call Rescale.
//
// A Transform is always replaced whole on an edit commit, never patched
// field by field.
type Transform struct {
	Matrix          Matrix
	ReferenceWidth  float64
	ReferenceHeight float64
}

// New builds a Transform from decomposed components captured at the given
// reference viewport size.
func New(c Components, refWidth, refHeight float64) Transform {
	return Transform{Matrix: Compose(c), ReferenceWidth: refWidth, ReferenceHeight: refHeight}
}

// Rescale converts the transform to a viewport of targetWidth. Every
// viewport shares the print aspect ratio, so one uniform ratio rescales
// translation and scale together. Rescaling back to the original reference
// width recovers the original transform (within float tolerance).
func (t Transform) Rescale(targetWidth float64) Transform {
	if t.ReferenceWidth == 0 || targetWidth == t.ReferenceWidth {
		return t
	}
	ratio := targetWidth / t.ReferenceWidth
	return Transform{
		Matrix:          t.Matrix.Scaled(ratio),
		ReferenceWidth:  targetWidth,
		ReferenceHeight: t.ReferenceHeight * ratio,
	}
}

// Components is shorthand for t.Matrix.Decompose.
func (t Transform) Components() Components {
	return t.Matrix.Decompose()
}
