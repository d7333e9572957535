package transform

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestComposeDecompose(t *testing.T) {
	cases := []struct {
		name string
		c    Components
	}{
		{"no rotation", Components{ScaleX: 0.5, ScaleY: 0.5, Rotation: 0, TX: 150, TY: 210}},
		{"quarter turn", Components{ScaleX: 0.1071, ScaleY: 0.1071, Rotation: 90, TX: 150, TY: 214.28}},
		{"half turn", Components{ScaleX: 2, ScaleY: 2, Rotation: 180, TX: -20, TY: 35}},
		{"three quarters", Components{ScaleX: 1.25, ScaleY: 1.25, Rotation: 270, TX: 0, TY: 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Compose(tc.c).Decompose()
			if got.Rotation != tc.c.Rotation {
				t.Fatalf("rotation = %v, want %v", got.Rotation, tc.c.Rotation)
			}
			if !almostEqual(got.ScaleX, tc.c.ScaleX) || !almostEqual(got.ScaleY, tc.c.ScaleY) {
				t.Fatalf("scale = (%v, %v), want (%v, %v)", got.ScaleX, got.ScaleY, tc.c.ScaleX, tc.c.ScaleY)
			}
			if !almostEqual(got.TX, tc.c.TX) || !almostEqual(got.TY, tc.c.TY) {
				t.Fatalf("translation = (%v, %v), want (%v, %v)", got.TX, got.TY, tc.c.TX, tc.c.TY)
			}
		})
	}
}

func TestDecomposeSnapsNoisyRotation(t *testing.T) {
	// A matrix composed at 90° plus float drift must still decompose to 90°.
	noisy := Compose(Components{ScaleX: 1, ScaleY: 1, Rotation: 89.9999999, TX: 10, TY: 20})
	got := noisy.Decompose()
	if got.Rotation != 90 {
		t.Fatalf("rotation = %v, want snapped 90", got.Rotation)
	}
}

func TestSnapRotation(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0}, {44, 0}, {46, 90}, {90.0000001, 90},
		{179.5, 180}, {-90, 270}, {-179.9, 180}, {359, 0}, {360, 0},
	}
	for _, tc := range cases {
		if got := SnapRotation(tc.in); got != tc.want {
			t.Errorf("SnapRotation(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestApply(t *testing.T) {
	// 90° turn at scale 2 maps the image-space point (10, 0) to (0, 20)
	// relative to the translated center.
	m := Compose(Components{ScaleX: 2, ScaleY: 2, Rotation: 90, TX: 100, TY: 100})
	x, y := m.Apply(10, 0)
	if !almostEqual(x, 100) || !almostEqual(y, 120) {
		t.Fatalf("Apply = (%v, %v), want (100, 120)", x, y)
	}
}

func TestRescaleRoundTrip(t *testing.T) {
	start := New(Components{ScaleX: 0.1071, ScaleY: 0.1071, Rotation: 90, TX: 150, TY: 214.28}, 300, 428.57)

	for _, w2 := range []float64{1, 120, 300, 1080, 4000, 12800} {
		back := start.Rescale(w2).Rescale(start.ReferenceWidth)
		for i := range back.Matrix {
			if !almostEqual(back.Matrix[i], start.Matrix[i]) {
				t.Fatalf("w2=%v: matrix[%d] = %v, want %v", w2, i, back.Matrix[i], start.Matrix[i])
			}
		}
		if !almostEqual(back.ReferenceWidth, start.ReferenceWidth) ||
			!almostEqual(back.ReferenceHeight, start.ReferenceHeight) {
			t.Fatalf("w2=%v: reference = %vx%v, want %vx%v",
				w2, back.ReferenceWidth, back.ReferenceHeight, start.ReferenceWidth, start.ReferenceHeight)
		}
	}
}

func TestRescaleToCompositorCanvas(t *testing.T) {
	// A transform captured at a 300px-wide editor moves to a 4000px-wide
	// canvas: translation and scale multiply by 13.33…, rotation stays 90.
	captured := New(Components{ScaleX: 0.12, ScaleY: 0.12, Rotation: 90, TX: 150, TY: 210}, 300, 428.5714285714286)
	ratio := 4000.0 / 300.0

	got := captured.Rescale(4000).Components()
	if got.Rotation != 90 {
		t.Fatalf("rotation = %v, want 90", got.Rotation)
	}
	if !almostEqual(got.ScaleX, 0.12*ratio) {
		t.Fatalf("scale = %v, want %v", got.ScaleX, 0.12*ratio)
	}
	if !almostEqual(got.TX, 150*ratio) || !almostEqual(got.TY, 210*ratio) {
		t.Fatalf("translation = (%v, %v), want (%v, %v)", got.TX, got.TY, 150*ratio, 210*ratio)
	}
}

func TestRescaleSameWidthIsNoop(t *testing.T) {
	start := New(Components{ScaleX: 1, ScaleY: 1, Rotation: 0, TX: 5, TY: 5}, 300, 400)
	if got := start.Rescale(300); got != start {
		t.Fatalf("Rescale to the same width changed the transform: %+v", got)
	}
}
