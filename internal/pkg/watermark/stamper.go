package watermark

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Stamper renders a date stamp onto print canvases. Faces are cached per
// pixel size since every canvas of the same print dimensions reuses them.
type Stamper struct {
	font *sfnt.Font

	mu    sync.Mutex
	faces map[int]font.Face
}

// NewStamper loads the bundled Go Regular face.
func NewStamper() (*Stamper, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse stamp font: %w", err)
	}
	return &Stamper{font: f, faces: make(map[int]font.Face)}, nil
}

// Stamp draws the formatted date onto dst according to cfg. The text size
// follows the shorter canvas side, so the stamp reads the same on a
// thumbnail preview and on a full print canvas.
func (s *Stamper) Stamp(dst draw.Image, cfg Config, date time.Time) error {
	if !cfg.Enabled {
		return nil
	}

	bounds := dst.Bounds()
	shorter := bounds.Dx()
	if bounds.Dy() < shorter {
		shorter = bounds.Dy()
	}
	px := int(math.Round(float64(shorter) * cfg.SizeTier.percent()))
	if px < 1 {
		px = 1
	}

	face, err := s.face(px)
	if err != nil {
		return fmt.Errorf("stamp face %dpx: %w", px, err)
	}

	alpha := uint8(cfg.opacity() * 255 / 100)
	fill, err := parseHex(cfg.Color, alpha)
	if err != nil {
		return err
	}
	halo := haloFor(cfg.Color, alpha)

	text := date.Format(cfg.layout())
	textW := font.MeasureString(face, text).Ceil()
	metrics := face.Metrics()
	margin := px

	var x, y int
	switch cfg.anchor() {
	case TopLeft, BottomLeft:
		x = bounds.Min.X + margin
	case TopCenter, BottomCenter:
		x = bounds.Min.X + (bounds.Dx()-textW)/2
	default:
		x = bounds.Max.X - margin - textW
	}
	switch cfg.anchor() {
	case TopLeft, TopCenter, TopRight:
		y = bounds.Min.Y + margin + metrics.Ascent.Ceil()
	default:
		y = bounds.Max.Y - margin - metrics.Descent.Ceil()
	}

	d := font.Drawer{Dst: dst, Face: face}

	// Outline first: the text in the opposite tone at eight offsets, then
	// the fill on top.
	r := px / 24
	if r < 1 {
		r = 1
	}
	d.Src = image.NewUniform(halo)
	for _, off := range [][2]int{
		{-r, -r}, {0, -r}, {r, -r},
		{-r, 0}, {r, 0},
		{-r, r}, {0, r}, {r, r},
	} {
		d.Dot = fixed.P(x+off[0], y+off[1])
		d.DrawString(text)
	}

	d.Src = image.NewUniform(fill)
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
	return nil
}

func (s *Stamper) face(px int) (font.Face, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if face, ok := s.faces[px]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(s.font, &opentype.FaceOptions{
		Size:    float64(px),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	s.faces[px] = face
	return face, nil
}

// parseHex turns "#RRGGBB" into an NRGBA with the given alpha.
func parseHex(hex string, alpha uint8) (color.NRGBA, error) {
	raw := strings.TrimPrefix(hex, "#")
	if raw == "" {
		return color.NRGBA{A: alpha}, nil
	}
	if len(raw) != 6 {
		return color.NRGBA{}, fmt.Errorf("stamp color %q: want #RRGGBB", hex)
	}
	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("stamp color %q: %w", hex, err)
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: alpha,
	}, nil
}

// haloFor picks the outline tone opposite to the fill. Colors outside the
// offered palette fall back to a luminance estimate.
func haloFor(hex string, alpha uint8) color.NRGBA {
	light, ok := lightPalette[strings.ToUpper(hex)]
	if !ok {
		if c, err := parseHex(hex, 255); err == nil {
			light = (299*int(c.R)+587*int(c.G)+114*int(c.B))/1000 >= 128
		}
	}
	if light {
		return color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: alpha}
	}
	return color.NRGBA{R: 0xF0, G: 0xF0, B: 0xF0, A: alpha}
}
