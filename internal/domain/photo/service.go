package photo

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog/log"

	"github.com/printlab/printlab-engine/internal/pkg/imaging"
)

// Thumbnailer downscales an original into its preview. Originals at or
// under the configured side limit pass through untouched.
type Thumbnailer interface {
	Make(data []byte) (*imaging.Thumbnail, error)
}

// DateExtractor pulls the capture date out of encoded image bytes.
type DateExtractor interface {
	CaptureDate(data []byte) (time.Time, bool)
}

// Converter turns container formats the engine cannot decode (HEIC) into
// JPEG. The engine ships no implementation; callers plug one in.
type Converter interface {
	Convert(ctx context.Context, data []byte) ([]byte, error)
}

// Config tunes ingestion.
type Config struct {
	// PrintAspectRatio is the frame the photos are destined for. Landscape
	// sources are auto-rotated a quarter turn when the frame is portrait.
	PrintAspectRatio float64
}

// Ingestor builds Photo entities from raw files: it reads dimensions once,
// produces the preview, extracts the capture date and applies the
// auto-rotate policy. It holds no per-photo state and is safe to reuse.
type Ingestor struct {
	thumbs  Thumbnailer
	dates   DateExtractor
	convert Converter // optional
	cfg     Config
}

// NewIngestor wires an ingestor. convert may be nil when HEIC input is not
// expected.
func NewIngestor(thumbs Thumbnailer, dates DateExtractor, convert Converter, cfg Config) *Ingestor {
	return &Ingestor{thumbs: thumbs, dates: dates, convert: convert, cfg: cfg}
}

// Ingest builds a Photo from one original. data is the complete encoded
// source; only the dimensions, the preview and the capture date are
// retained, never the full-resolution pixels.
func (s *Ingestor) Ingest(ctx context.Context, sourceRef string, data []byte) (*Photo, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", sourceRef, ErrEmptySource)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if s.convert == nil {
			return nil, fmt.Errorf("%s: %w: %v", sourceRef, ErrUnsupportedFormat, err)
		}
		converted, cErr := s.convert.Convert(ctx, data)
		if cErr != nil {
			return nil, fmt.Errorf("%s: convert: %w: %v", sourceRef, ErrDecode, cErr)
		}
		data = converted
		if cfg, _, err = image.DecodeConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("%s: %w: %v", sourceRef, ErrDecode, err)
		}
	}

	p := New(sourceRef)
	p.SourceWidth = cfg.Width
	p.SourceHeight = cfg.Height
	p.AutoRotated = s.cfg.PrintAspectRatio <= 1 && cfg.Width > cfg.Height

	thumb, err := s.thumbs.Make(data)
	if err != nil {
		return nil, fmt.Errorf("%s: preview: %w: %v", sourceRef, ErrDecode, err)
	}
	p.SetPreview(&Preview{Data: thumb.Data, Width: thumb.Width, Height: thumb.Height})

	if taken, ok := s.dates.CaptureDate(data); ok {
		p.CaptureDate = &taken
	}

	log.Debug().
		Str("photo_id", p.ID.String()).
		Str("source", sourceRef).
		Int("width", p.SourceWidth).
		Int("height", p.SourceHeight).
		Bool("auto_rotated", p.AutoRotated).
		Msg("photo ingested")

	return p, nil
}

// Input is one file handed to IngestAll.
type Input struct {
	SourceRef string
	Data      []byte
}

// IngestAll ingests every input, reporting each result through onItem. One
// unreadable file never aborts the rest of the batch.
func (s *Ingestor) IngestAll(ctx context.Context, inputs []Input, onItem func(*Photo, error)) []*Photo {
	photos := make([]*Photo, 0, len(inputs))
	for _, in := range inputs {
		p, err := s.Ingest(ctx, in.SourceRef, in.Data)
		if err != nil {
			log.Warn().Err(err).Str("source", in.SourceRef).Msg("photo skipped")
		} else {
			photos = append(photos, p)
		}
		if onItem != nil {
			onItem(p, err)
		}
	}
	return photos
}
