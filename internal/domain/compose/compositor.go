package compose

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/printlab/printlab-engine/internal/domain/layout"
	"github.com/printlab/printlab-engine/internal/domain/transform"
	"github.com/printlab/printlab-engine/internal/pkg/watermark"
)

// Prints keep every pixel the lab can use; size tradeoffs happen at the
// thumbnail stage, not here.
const maxQuality = 100

// MetadataSplicer moves a metadata segment from a source JPEG into a
// rendered one. Splicing is always best effort.
type MetadataSplicer interface {
	ExtractSegment(jpg []byte) ([]byte, bool)
	InjectSegment(jpg, segment []byte) ([]byte, error)
}

// Result is one finished print master.
type Result struct {
	Data    []byte
	Width   int
	Height  int
	DataURL string
}

// Compositor renders print masters from source photos and their committed
// transforms.
type Compositor struct {
	style   layout.Style
	stamper *watermark.Stamper
	splicer MetadataSplicer
}

// New builds a compositor for one print style. stamper and splicer may be
// nil, disabling date stamps and metadata carry-over respectively.
func New(style layout.Style, stamper *watermark.Stamper, splicer MetadataSplicer) *Compositor {
	return &Compositor{style: style, stamper: stamper, splicer: splicer}
}

// Composite renders one print master. The canvas derives from the source's
// longest side and the print aspect, the transform is rescaled from its
// editing viewport onto that canvas, and the photo is resampled exactly
// once on the way in.
func (c *Compositor) Composite(source []byte, tr transform.Transform, wm watermark.Config, captureDate *time.Time) (*Result, error) {
	img, err := imaging.Decode(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	srcW := img.Bounds().Dx()
	srcH := img.Bounds().Dy()

	cw, ch := canvasSize(srcW, srcH, c.style.AspectRatio)
	canvas := image.NewRGBA(image.Rect(0, 0, cw, ch))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	comps := tr.Rescale(float64(cw)).Components()
	comps = c.reclamp(comps, layout.Size{Width: float64(srcW), Height: float64(srcH)}, layout.Size{Width: float64(cw), Height: float64(ch)})

	rotated := rotateQuarter(img, comps.Rotation)
	rw := float64(rotated.Bounds().Dx())
	rh := float64(rotated.Bounds().Dy())

	boxW := rw * comps.ScaleX
	boxH := rh * comps.ScaleY
	aff := f64.Aff3{
		boxW / rw, 0, comps.TX - boxW/2,
		0, boxH / rh, comps.TY - boxH/2,
	}
	draw.CatmullRom.Transform(canvas, aff, rotated, rotated.Bounds(), draw.Over, nil)

	if c.style.Kind == layout.KindContain {
		paintMargins(canvas, c.style.DrawableArea(layout.Size{Width: float64(cw), Height: float64(ch)}))
	}

	if c.stamper != nil && wm.Enabled && captureDate != nil {
		if err := c.stamper.Stamp(canvas, wm, *captureDate); err != nil {
			log.Warn().Err(err).Msg("date stamp skipped")
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(maxQuality)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	data := buf.Bytes()

	if c.splicer != nil {
		if seg, ok := c.splicer.ExtractSegment(source); ok {
			spliced, err := c.splicer.InjectSegment(data, seg)
			if err != nil {
				log.Warn().Err(err).Msg("metadata carry-over skipped")
			} else {
				data = spliced
			}
		}
	}

	return &Result{
		Data:    data,
		Width:   cw,
		Height:  ch,
		DataURL: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}

// reclamp settles a rescaled transform against the canvas constraints.
// Editing sessions never produce an out-of-bounds transform, but older
// stored ones can; printing what the frame would crop away is worse than
// adjusting, so adjust and say so.
func (c *Compositor) reclamp(comps transform.Components, source, canvas layout.Size) transform.Components {
	cons, err := layout.Compute(source, canvas, c.style, comps.Rotation)
	if err != nil || cons.Degraded() {
		log.Warn().Err(err).Msg("composite constraints degraded, transform used as stored")
		return comps
	}
	if comps.ScaleX < cons.MinScale {
		log.Warn().
			Float64("scale", comps.ScaleX).
			Float64("fit", cons.MinScale).
			Msg("stored transform below fit scale, raising")
		comps.ScaleX, comps.ScaleY = cons.MinScale, cons.MinScale
	} else if comps.ScaleX > cons.MaxScale {
		comps.ScaleX, comps.ScaleY = cons.MaxScale, cons.MaxScale
	}
	comps.TX, comps.TY = cons.ClampPosition(comps.TX, comps.TY, comps.ScaleX)
	return comps
}

// canvasSize derives print canvas dimensions: the longest side equals the
// source's longest side, the other follows the print aspect.
func canvasSize(srcW, srcH int, aspect float64) (int, int) {
	maxDim := srcW
	if srcH > maxDim {
		maxDim = srcH
	}
	if aspect <= 0 {
		aspect = 1
	}
	if aspect <= 1 {
		return int(math.Round(float64(maxDim) * aspect)), maxDim
	}
	return maxDim, int(math.Round(float64(maxDim) / aspect))
}

// rotateQuarter bakes the quarter turn into pixels so the affine draw only
// scales and translates. Quarter turns swap dimensions exactly, no
// resampling involved.
func rotateQuarter(img image.Image, deg float64) image.Image {
	switch math.Mod(math.Mod(deg, 360)+360, 360) {
	case 90:
		return imaging.Rotate270(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// paintMargins re-asserts the frame after the photo is drawn, so resampling
// bleed never reaches the margins.
func paintMargins(canvas *image.RGBA, drawable layout.Rect) {
	b := canvas.Bounds()
	left := int(math.Round(drawable.X))
	top := int(math.Round(drawable.Y))
	right := int(math.Round(drawable.MaxX()))
	bottom := int(math.Round(drawable.MaxY()))

	white := image.NewUniform(color.White)
	for _, band := range []image.Rectangle{
		image.Rect(b.Min.X, b.Min.Y, b.Max.X, top),
		image.Rect(b.Min.X, bottom, b.Max.X, b.Max.Y),
		image.Rect(b.Min.X, top, left, bottom),
		image.Rect(right, top, b.Max.X, bottom),
	} {
		draw.Draw(canvas, band, white, image.Point{}, draw.Src)
	}
}
