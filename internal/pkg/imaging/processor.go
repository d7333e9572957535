package imaging

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Thumbnail is a downscaled stand-in for an original, plus its pixel size.
type Thumbnail struct {
	Data       []byte
	Width      int
	Height     int
	Downscaled bool // false when the original passed through untouched
}

// Config for preview generation
type Config struct {
	MaxSide int // longest allowed side before downscaling (default 1080)
	Quality int // JPEG quality 1-100 (default 90)
}

// DefaultConfig returns default preview config
func DefaultConfig() Config {
	return Config{
		MaxSide: 1080,
		Quality: 90,
	}
}

// Processor builds previews. Downscale only: originals whose longest side
// is at or under MaxSide pass through byte for byte, larger ones are fitted
// with Lanczos and re-encoded as JPEG.
type Processor struct {
	config Config
}

// NewProcessor creates preview processor
func NewProcessor(config Config) *Processor {
	if config.MaxSide <= 0 {
		config.MaxSide = DefaultConfig().MaxSide
	}
	if config.Quality <= 0 || config.Quality > 100 {
		config.Quality = DefaultConfig().Quality
	}
	return &Processor{config: config}
}

// Make builds the preview for one encoded original.
func (p *Processor) Make(data []byte) (*Thumbnail, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}

	if cfg.Width <= p.config.MaxSide && cfg.Height <= p.config.MaxSide {
		return &Thumbnail{Data: data, Width: cfg.Width, Height: cfg.Height}, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	fitted := imaging.Fit(img, p.config.MaxSide, p.config.MaxSide, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.JPEG, imaging.JPEGQuality(p.config.Quality)); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	b := fitted.Bounds()
	return &Thumbnail{
		Data:       buf.Bytes(),
		Width:      b.Dx(),
		Height:     b.Dy(),
		Downscaled: true,
	}, nil
}

// ValidateType checks if file is a supported image type
func ValidateType(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".heic":
		return true
	default:
		return false
	}
}
