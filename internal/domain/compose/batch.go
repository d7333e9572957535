package compose

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/printlab/printlab-engine/internal/domain/layout"
	"github.com/printlab/printlab-engine/internal/domain/photo"
	"github.com/printlab/printlab-engine/internal/domain/transform"
	"github.com/printlab/printlab-engine/internal/pkg/watermark"
)

// LoadFunc fetches the original bytes for a photo.
type LoadFunc func(ctx context.Context, p *photo.Photo) ([]byte, error)

// ItemFunc receives each finished or failed print master.
type ItemFunc func(p *photo.Photo, res *Result, err error)

// Batch renders print masters for every photo in order. One photo failing
// never stops the rest; the per-item callback reports each outcome and the
// return values summarize the run.
func (c *Compositor) Batch(ctx context.Context, photos []*photo.Photo, wm watermark.Config, load LoadFunc, onItem ItemFunc) (done, failed int) {
	for _, p := range photos {
		start := time.Now()

		res, err := c.compositeOne(ctx, p, wm, load)
		if err != nil {
			failed++
			log.Error().Err(err).
				Str("photo_id", p.ID.String()).
				Str("source", p.SourceRef).
				Msg("composite failed")
		} else {
			done++
			log.Debug().
				Str("photo_id", p.ID.String()).
				Int("width", res.Width).
				Int("height", res.Height).
				Dur("took", time.Since(start)).
				Msg("composite done")
		}
		if onItem != nil {
			onItem(p, res, err)
		}
	}
	return done, failed
}

func (c *Compositor) compositeOne(ctx context.Context, p *photo.Photo, wm watermark.Config, load LoadFunc) (*Result, error) {
	data, err := load(ctx, p)
	if err != nil {
		return nil, err
	}

	tr, ok := p.Transform()
	if !ok {
		tr = c.defaultTransform(p)
	}
	return c.Composite(data, tr, wm, p.CaptureDate)
}

// defaultTransform renders untouched photos exactly as the editor would
// first show them, sized straight to the print canvas.
func (c *Compositor) defaultTransform(p *photo.Photo) transform.Transform {
	cw, ch := canvasSize(p.SourceWidth, p.SourceHeight, c.style.AspectRatio)
	source := layout.Size{Width: float64(p.SourceWidth), Height: float64(p.SourceHeight)}
	canvas := layout.Size{Width: float64(cw), Height: float64(ch)}
	return layout.DefaultTransform(source, canvas, c.style, p.AutoRotated)
}
