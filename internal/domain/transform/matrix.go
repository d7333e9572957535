package transform

import "math"

// Matrix is a 2D affine transform stored as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//
// mapping a point (x, y) to (a·x + c·y + tx, b·x + d·y + ty).
// For this system a = sx·cosθ, b = sx·sinθ, c = -sy·sinθ, d = sy·cosθ.
type Matrix [6]float64

// Components is the decomposed form of a Matrix.
type Components struct {
	ScaleX   float64
	ScaleY   float64
	Rotation float64 // degrees, always a multiple of 90 in this system
	TX       float64
	TY       float64
}

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Compose builds a matrix from scale, rotation and translation.
// Deterministic, no side effects.
func Compose(c Components) Matrix {
	sin, cos := math.Sincos(c.Rotation * math.Pi / 180)
	return Matrix{
		c.ScaleX * cos,
		c.ScaleX * sin,
		-c.ScaleY * sin,
		c.ScaleY * cos,
		c.TX,
		c.TY,
	}
}

// Decompose recovers scale, rotation and translation from the matrix.
// Rotation comes out of atan2 of the rotation sub-block and is snapped to
// the nearest multiple of 90 degrees: the editor only ever produces quarter
// turns, so anything in between is floating point noise.
func (m Matrix) Decompose() Components {
	deg := SnapRotation(math.Atan2(m[1], m[0]) * 180 / math.Pi)
	sin, cos := math.Sincos(deg * math.Pi / 180)

	var sx, sy float64
	if math.Abs(cos) >= math.Abs(sin) {
		sx = m[0] / cos
		sy = m[3] / cos
	} else {
		sx = m[1] / sin
		sy = -m[2] / sin
	}
	return Components{ScaleX: sx, ScaleY: sy, Rotation: deg, TX: m[4], TY: m[5]}
}

// SnapRotation rounds deg to the nearest multiple of 90 in [0, 360).
func SnapRotation(deg float64) float64 {
	snapped := math.Mod(math.Round(deg/90)*90, 360)
	if snapped < 0 {
		snapped += 360
	}
	return snapped
}

// Apply maps the point (x, y) through the matrix.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Scaled returns the matrix with every entry multiplied by ratio. Scaling
// all six entries rescales the scale factors and the translation together
// while leaving rotation untouched.
func (m Matrix) Scaled(ratio float64) Matrix {
	return Matrix{m[0] * ratio, m[1] * ratio, m[2] * ratio, m[3] * ratio, m[4] * ratio, m[5] * ratio}
}
