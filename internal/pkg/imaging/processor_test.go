package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"
)

func fixture(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestMakePassesSmallOriginalsThrough(t *testing.T) {
	p := NewProcessor(Config{MaxSide: 1080, Quality: 90})
	src := fixture(t, 800, 600)

	thumb, err := p.Make(src)
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	if thumb.Downscaled {
		t.Fatal("800x600 under a 1080 limit must not be downscaled")
	}
	if !bytes.Equal(thumb.Data, src) {
		t.Fatal("pass-through must keep the original bytes")
	}
	if thumb.Width != 800 || thumb.Height != 600 {
		t.Fatalf("dimensions = %dx%d, want 800x600", thumb.Width, thumb.Height)
	}
}

func TestMakeDownscalesLargeOriginals(t *testing.T) {
	p := NewProcessor(Config{MaxSide: 200, Quality: 90})

	thumb, err := p.Make(fixture(t, 800, 600))
	if err != nil {
		t.Fatalf("Make: %v", err)
	}
	if !thumb.Downscaled {
		t.Fatal("800x600 over a 200 limit must be downscaled")
	}
	if thumb.Width != 200 || thumb.Height != 150 {
		t.Fatalf("dimensions = %dx%d, want 200x150", thumb.Width, thumb.Height)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(thumb.Data))
	if err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if cfg.Width != 200 || cfg.Height != 150 {
		t.Fatalf("encoded dimensions = %dx%d, want 200x150", cfg.Width, cfg.Height)
	}
}

func TestMakeRejectsGarbage(t *testing.T) {
	p := NewProcessor(DefaultConfig())
	if _, err := p.Make([]byte("not an image")); err == nil {
		t.Fatal("expected an error for undecodable bytes")
	}
}

func TestValidateType(t *testing.T) {
	for _, name := range []string{"a.jpg", "b.JPEG", "c.png", "d.heic"} {
		if !ValidateType(name) {
			t.Errorf("ValidateType(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"a.txt", "b.pdf", "noext"} {
		if ValidateType(name) {
			t.Errorf("ValidateType(%q) = true, want false", name)
		}
	}
}
