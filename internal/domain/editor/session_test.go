package editor

import (
	"math"
	"testing"

	"github.com/printlab/printlab-engine/internal/domain/layout"
	"github.com/printlab/printlab-engine/internal/domain/photo"
	"github.com/printlab/printlab-engine/internal/domain/transform"
)

// The 300x400 viewport against a 4000x3000 source gives round numbers:
// auto-rotation turns the box to 3000x4000, so cover fit is exactly 0.1.
var (
	testViewport = layout.Size{Width: 300, Height: 400}
	coverStyle   = layout.Cover(0.75)
)

func landscapePhoto() *photo.Photo {
	p := photo.New("landscape.jpg")
	p.SourceWidth = 4000
	p.SourceHeight = 3000
	p.AutoRotated = true
	return p
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestOpenDefaults(t *testing.T) {
	e := New(testViewport, coverStyle)
	s := e.Open(landscapePhoto())

	if got := s.Rotation(); got != 90 {
		t.Fatalf("auto-rotated default rotation = %g, want 90", got)
	}
	if got := s.Scale(); !almostEqual(got, 0.1) {
		t.Fatalf("default scale = %g, want 0.1", got)
	}
	tr := s.Transform()
	c := tr.Components()
	if !almostEqual(c.TX, 150) || !almostEqual(c.TY, 200) {
		t.Fatalf("default position = (%g, %g), want viewport center (150, 200)", c.TX, c.TY)
	}
	if tr.ReferenceWidth != testViewport.Width {
		t.Fatalf("reference width = %g, want %g", tr.ReferenceWidth, testViewport.Width)
	}
}

func TestOpenReloadsStoredTransform(t *testing.T) {
	p := landscapePhoto()
	stored := transform.New(transform.Components{
		ScaleX: 0.2, ScaleY: 0.2, Rotation: 90, TX: 300, TY: 400,
	}, 600, 800)
	p.SetTransform(stored)

	s := New(testViewport, coverStyle).Open(p)

	// Half the stored reference width, so everything halves.
	if got := s.Scale(); !almostEqual(got, 0.1) {
		t.Fatalf("reloaded scale = %g, want 0.1", got)
	}
	c := s.Transform().Components()
	if !almostEqual(c.TX, 150) || !almostEqual(c.TY, 200) {
		t.Fatalf("reloaded position = (%g, %g), want (150, 200)", c.TX, c.TY)
	}
	if got := s.Rotation(); got != 90 {
		t.Fatalf("reloaded rotation = %g, want 90", got)
	}
}

func TestWheelZoom(t *testing.T) {
	t.Run("zooms in by one notch", func(t *testing.T) {
		s := New(testViewport, coverStyle).Open(landscapePhoto())
		s.Wheel(1)
		if got := s.Scale(); !almostEqual(got, 0.11) {
			t.Fatalf("scale after wheel = %g, want 0.11", got)
		}
	})

	t.Run("cannot zoom below the fit scale", func(t *testing.T) {
		s := New(testViewport, coverStyle).Open(landscapePhoto())
		s.Wheel(-3)
		if got := s.Scale(); got != s.Constraints().MinScale {
			t.Fatalf("scale after wheel out = %g, want min %g", got, s.Constraints().MinScale)
		}
	})

	t.Run("cannot zoom past the ceiling", func(t *testing.T) {
		s := New(testViewport, coverStyle).Open(landscapePhoto())
		for i := 0; i < 100; i++ {
			s.Wheel(1)
		}
		if got := s.Scale(); got != s.Constraints().MaxScale {
			t.Fatalf("scale after wheel storm = %g, want max %g", got, s.Constraints().MaxScale)
		}
	})
}

func TestDragClampsToCoveredArea(t *testing.T) {
	s := New(testViewport, coverStyle).Open(landscapePhoto())
	s.Wheel(1) // scale 0.11: box 330x440, slack 15 in x and 20 in y

	s.PointerDown(150, 200)
	s.PointerMove(1000, 1000)
	if !s.Frame() {
		t.Fatal("Frame() = false after a pending drag sample")
	}
	s.PointerUp()

	c := s.Transform().Components()
	if !almostEqual(c.TX, 165) || !almostEqual(c.TY, 220) {
		t.Fatalf("dragged position = (%g, %g), want clamped (165, 220)", c.TX, c.TY)
	}
	if s.State() != StateIdle {
		t.Fatalf("state after PointerUp = %q, want idle", s.State())
	}
}

func TestDragLockedAtExactFit(t *testing.T) {
	// At the fit scale the box covers the viewport exactly, so there is
	// nowhere to drag to.
	s := New(testViewport, coverStyle).Open(landscapePhoto())

	s.PointerDown(150, 200)
	s.PointerMove(500, 500)
	if s.Frame() {
		t.Fatal("Frame() = true, want no movement at exact fit")
	}
	s.PointerUp()

	c := s.Transform().Components()
	if !almostEqual(c.TX, 150) || !almostEqual(c.TY, 200) {
		t.Fatalf("position = (%g, %g), want unchanged (150, 200)", c.TX, c.TY)
	}
}

func TestFrameCoalescesPointerSamples(t *testing.T) {
	s := New(testViewport, coverStyle).Open(landscapePhoto())
	s.Wheel(1)

	s.PointerDown(150, 200)
	s.PointerMove(140, 190)
	s.PointerMove(160, 210) // only this one should land

	if !s.Frame() {
		t.Fatal("first Frame() = false, want applied sample")
	}
	c := s.Transform().Components()
	if !almostEqual(c.TX, 160) || !almostEqual(c.TY, 210) {
		t.Fatalf("coalesced position = (%g, %g), want latest sample (160, 210)", c.TX, c.TY)
	}

	if s.Frame() {
		t.Fatal("second Frame() = true, want nothing pending")
	}
}

func TestPinchZoom(t *testing.T) {
	s := New(testViewport, coverStyle).Open(landscapePhoto())

	s.PinchStart(100)
	s.PinchMove(120)
	s.PinchMove(150) // coalesced over the 120 sample
	s.Frame()
	s.PinchEnd()

	if got := s.Scale(); !almostEqual(got, 0.15) {
		t.Fatalf("pinched scale = %g, want 0.15", got)
	}
	if s.State() != StateIdle {
		t.Fatalf("state after PinchEnd = %q, want idle", s.State())
	}
}

func TestRotateRaisesScaleToNewFloor(t *testing.T) {
	s := New(testViewport, coverStyle).Open(landscapePhoto())
	if got := s.Scale(); !almostEqual(got, 0.1) {
		t.Fatalf("scale before rotate = %g, want 0.1", got)
	}

	// 90 -> 180 puts the long side horizontal again; covering a portrait
	// frame then needs a larger scale, so the floor rises.
	s.Rotate()

	if got := s.Rotation(); got != 180 {
		t.Fatalf("rotation = %g, want 180", got)
	}
	want := s.Constraints().MinScale
	if !almostEqual(want, 400.0/3000.0) {
		t.Fatalf("new floor = %g, want %g", want, 400.0/3000.0)
	}
	if got := s.Scale(); got != want {
		t.Fatalf("scale after rotate = %g, want raised to floor %g", got, want)
	}
}

func TestRotateFourTimesReturns(t *testing.T) {
	s := New(testViewport, coverStyle).Open(landscapePhoto())
	for i := 0; i < 4; i++ {
		s.Rotate()
	}
	if got := s.Rotation(); got != 90 {
		t.Fatalf("rotation after four turns = %g, want 90 again", got)
	}
}

func TestReset(t *testing.T) {
	s := New(testViewport, coverStyle).Open(landscapePhoto())
	s.Wheel(3)
	s.PointerDown(150, 200)
	s.PointerMove(120, 180)
	s.PointerUp()
	s.Rotate()

	s.Reset()

	if got := s.Rotation(); got != 90 {
		t.Fatalf("rotation after reset = %g, want auto-rotated default 90", got)
	}
	if got := s.Scale(); !almostEqual(got, 0.1) {
		t.Fatalf("scale after reset = %g, want 0.1", got)
	}
	if s.Dirty() {
		t.Fatal("session dirty after reset to an uncommitted default")
	}
}

func TestCommit(t *testing.T) {
	t.Run("untouched session commits nothing", func(t *testing.T) {
		p := landscapePhoto()
		s := New(testViewport, coverStyle).Open(p)
		if s.Commit() {
			t.Fatal("Commit() = true on an untouched session")
		}
		if _, ok := p.Transform(); ok {
			t.Fatal("untouched commit wrote a transform")
		}
	})

	t.Run("edited session persists once", func(t *testing.T) {
		p := landscapePhoto()
		s := New(testViewport, coverStyle).Open(p)
		s.Wheel(1)
		if !s.Commit() {
			t.Fatal("Commit() = false after an edit")
		}
		tr, ok := p.Transform()
		if !ok {
			t.Fatal("commit did not store the transform")
		}
		if got := tr.Components().ScaleX; !almostEqual(got, 0.11) {
			t.Fatalf("stored scale = %g, want 0.11", got)
		}
		if s.Commit() {
			t.Fatal("second Commit() = true with no further edits")
		}
	})
}

func TestOpenCommitsOutgoingSession(t *testing.T) {
	p1 := landscapePhoto()
	p2 := landscapePhoto()
	e := New(testViewport, coverStyle)

	s1 := e.Open(p1)
	s1.Wheel(2)

	e.Open(p2)

	tr, ok := p1.Transform()
	if !ok {
		t.Fatal("navigating away did not commit the outgoing session")
	}
	if got := tr.Components().ScaleX; !almostEqual(got, 0.1*1.2) {
		t.Fatalf("committed scale = %g, want %g", got, 0.1*1.2)
	}
}

func TestGestureGuards(t *testing.T) {
	s := New(testViewport, coverStyle).Open(landscapePhoto())
	s.Wheel(1)
	before := s.Transform().Components()

	t.Run("move without down is ignored", func(t *testing.T) {
		s.PointerMove(10, 10)
		if s.Frame() {
			t.Fatal("Frame() applied a move with no active drag")
		}
	})

	t.Run("wheel during drag is ignored", func(t *testing.T) {
		s.PointerDown(150, 200)
		s.Wheel(5)
		if got := s.Scale(); got != before.ScaleX {
			t.Fatalf("scale changed to %g during a drag", got)
		}
		s.PointerUp()
	})

	t.Run("rotate during pinch is ignored", func(t *testing.T) {
		s.PinchStart(100)
		s.Rotate()
		if got := s.Rotation(); got != before.Rotation {
			t.Fatalf("rotation changed to %g during a pinch", got)
		}
		s.PinchEnd()
	})
}

func TestSafeAreaAndImageBox(t *testing.T) {
	contain := layout.Contain(0.75, 5)
	s := New(testViewport, contain).Open(landscapePhoto())

	area := s.SafeArea()
	if !almostEqual(area.X, 15) || !almostEqual(area.Y, 20) {
		t.Fatalf("safe area origin = (%g, %g), want margins (15, 20)", area.X, area.Y)
	}
	if !almostEqual(area.W, 270) || !almostEqual(area.H, 360) {
		t.Fatalf("safe area size = %gx%g, want 270x360", area.W, area.H)
	}

	box := s.ImageBox()
	if box.W <= 0 || box.H <= 0 {
		t.Fatalf("image box = %+v, want positive size", box)
	}
	// Contain keeps the photo inside the safe area.
	if box.X < area.X-1e-9 || box.MaxX() > area.MaxX()+1e-9 {
		t.Fatalf("image box x span [%g, %g] outside safe area [%g, %g]",
			box.X, box.MaxX(), area.X, area.MaxX())
	}
}
