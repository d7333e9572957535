package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/printlab/printlab-engine/internal/config"
	"github.com/printlab/printlab-engine/internal/domain/compose"
	"github.com/printlab/printlab-engine/internal/domain/editor"
	"github.com/printlab/printlab-engine/internal/domain/layout"
	"github.com/printlab/printlab-engine/internal/domain/order"
	"github.com/printlab/printlab-engine/internal/domain/photo"
	"github.com/printlab/printlab-engine/internal/domain/uploadqueue"
	"github.com/printlab/printlab-engine/internal/pkg/exifmeta"
	"github.com/printlab/printlab-engine/internal/pkg/imaging"
	"github.com/printlab/printlab-engine/internal/pkg/logger"
	"github.com/printlab/printlab-engine/internal/pkg/storage"
	"github.com/printlab/printlab-engine/internal/pkg/validator"
	"github.com/printlab/printlab-engine/internal/pkg/watermark"
)

const defaultViewportWidth = 390

// manifest lists the photos of one print run. Quantity defaults to 1 and
// rotate counts clockwise quarter turns applied before rendering.
type manifest struct {
	OrderRef string          `json:"order_ref,omitempty"`
	Photos   []manifestPhoto `json:"photos"`
}

type manifestPhoto struct {
	Path     string `json:"path"`
	Quantity int    `json:"quantity,omitempty"`
	Rotate   int    `json:"rotate,omitempty"`
}

func main() {
	start := time.Now()
	cfg := config.Load()

	if err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		LogFile:     cfg.LogFile,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("manifest", cfg.ManifestPath).
		Str("output", cfg.OutputDir).
		Str("storage", cfg.StorageKind).
		Msg("Starting print-worker")

	style, err := printStyle(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid print configuration")
	}

	wm := watermark.Config{
		Enabled:        cfg.StampEnabled,
		Position:       watermark.Anchor(cfg.StampPosition),
		SizeTier:       watermark.Tier(cfg.StampSizeTier),
		Color:          cfg.StampColor,
		DateFormat:     cfg.StampDateFormat,
		OpacityPercent: cfg.StampOpacityPercent,
	}
	if errs := validator.Validate(wm); len(errs) > 0 {
		log.Fatal().Interface("errors", errs).Msg("Invalid date stamp configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigChan
		log.Info().Msg("Shutdown signal received")
		cancel()
	}()

	if err := run(ctx, cfg, style, wm); err != nil {
		log.Fatal().Err(err).Msg("print-worker failed")
	}

	log.Info().Dur("took", time.Since(start)).Msg("print-worker done")
}

func run(ctx context.Context, cfg *config.Config, style layout.Style, wm watermark.Config) error {
	man, err := readManifest(cfg.ManifestPath)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	if len(man.Photos) == 0 {
		return errors.New("manifest lists no photos")
	}

	meta := exifmeta.NewExtractor()
	ingestor := photo.NewIngestor(
		imaging.NewProcessor(imaging.Config{MaxSide: cfg.ThumbnailMaxSide, Quality: cfg.ThumbnailQuality}),
		meta,
		nil,
		photo.Config{PrintAspectRatio: cfg.PrintAspectRatio},
	)

	inputs := make([]photo.Input, 0, len(man.Photos))
	entries := make(map[string]manifestPhoto, len(man.Photos))
	for _, mp := range man.Photos {
		data, err := os.ReadFile(mp.Path)
		if err != nil {
			log.Warn().Err(err).Str("source", mp.Path).Msg("photo skipped")
			continue
		}
		inputs = append(inputs, photo.Input{SourceRef: mp.Path, Data: data})
		entries[mp.Path] = mp
	}

	photos := ingestor.IngestAll(ctx, inputs, nil)
	if len(photos) == 0 {
		return errors.New("no usable photos in manifest")
	}

	// Apply per-photo manifest settings through an editing session, the
	// same path an interactive client takes.
	ed := editor.New(viewportSize(cfg), style)
	for _, p := range photos {
		mp := entries[p.SourceRef]
		if mp.Quantity > 0 {
			p.Quantity = mp.Quantity
		}
		if turns := ((mp.Rotate % 4) + 4) % 4; turns > 0 {
			sess := ed.Open(p)
			for i := 0; i < turns; i++ {
				sess.Rotate()
			}
		}
	}
	ed.Close()

	provider, err := buildProvider(cfg)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	queue := uploadqueue.New(
		uploadqueue.NewStorageUploader(provider, readSource, int64(cfg.UploadMaxBytes)),
		cfg.UploadConcurrency,
	)
	for _, p := range photos {
		queue.Enqueue(ctx, p)
	}

	stamper, err := watermark.NewStamper()
	if err != nil {
		return fmt.Errorf("stamper: %w", err)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("output dir: %w", err)
	}

	comp := compose.New(style, stamper, meta)
	done, failed := comp.Batch(ctx, photos, wm,
		func(ctx context.Context, p *photo.Photo) ([]byte, error) {
			return readSource(ctx, p.SourceRef)
		},
		func(p *photo.Photo, res *compose.Result, err error) {
			if err != nil {
				return
			}
			out := outputPath(cfg.OutputDir, p)
			if werr := os.WriteFile(out, res.Data, 0644); werr != nil {
				log.Error().Err(werr).Str("photo_id", p.ID.String()).Msg("print master not written")
				return
			}
			log.Info().
				Str("file", out).
				Int("width", res.Width).
				Int("height", res.Height).
				Msg("print master written")
		})
	log.Info().Int("done", done).Int("failed", failed).Msg("composition finished")

	queue.Wait()

	var uploadFailures int
	for _, p := range photos {
		if p.UploadState() == photo.UploadFailed {
			uploadFailures++
		}
	}
	if uploadFailures > 0 {
		log.Warn().Int("count", uploadFailures).Msg("some uploads failed")
	}

	if !cfg.SubmitOrder {
		return nil
	}

	orderRef := cfg.OrderRef
	if man.OrderRef != "" {
		orderRef = man.OrderRef
	}
	if orderRef == "" {
		orderRef = uuid.New().String()
	}

	sub, err := order.BuildSubmission(orderRef, photos, style, wm)
	if err != nil {
		return fmt.Errorf("build order: %w", err)
	}
	receipt, err := order.NewClient(cfg.OrderBaseURL, cfg.OrderTimeout).Submit(ctx, sub)
	if err != nil {
		return fmt.Errorf("submit order: %w", err)
	}
	log.Info().
		Str("order_id", receipt.OrderID).
		Str("status", receipt.Status).
		Msg("order accepted")
	return nil
}

func readManifest(path string) (*manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func readSource(_ context.Context, sourceRef string) ([]byte, error) {
	return os.ReadFile(sourceRef)
}

func printStyle(cfg *config.Config) (layout.Style, error) {
	switch cfg.PrintStyle {
	case "cover":
		return layout.Cover(cfg.PrintAspectRatio), nil
	case "contain":
		return layout.Contain(cfg.PrintAspectRatio, cfg.PrintMarginPercent), nil
	default:
		return layout.Style{}, fmt.Errorf("unknown print style %q", cfg.PrintStyle)
	}
}

// viewportSize derives the editing viewport. An unset height follows the
// print aspect so defaults land exactly as an interactive client shows them.
func viewportSize(cfg *config.Config) layout.Size {
	w := cfg.ViewportWidth
	if w <= 0 {
		w = defaultViewportWidth
	}
	h := cfg.ViewportHeight
	if h <= 0 {
		if cfg.PrintAspectRatio > 0 {
			h = w / cfg.PrintAspectRatio
		} else {
			h = w
		}
	}
	return layout.Size{Width: w, Height: h}
}

func buildProvider(cfg *config.Config) (storage.Provider, error) {
	switch cfg.StorageKind {
	case "form":
		return storage.NewFormProvider(storage.FormConfig{
			AuthURL:       cfg.UploadAuthURL,
			PublicBaseURL: cfg.PublicBaseURL,
			AuthTTL:       cfg.UploadAuthTTL,
		}), nil
	case "s3":
		return storage.NewS3Provider(storage.S3Config{
			Endpoint:      cfg.S3Endpoint,
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.PublicBaseURL,
		})
	case "local":
		return storage.NewLocalProvider(cfg.StorageDir, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage kind %q", cfg.StorageKind)
	}
}

func outputPath(dir string, p *photo.Photo) string {
	stem := strings.TrimSuffix(filepath.Base(p.SourceRef), filepath.Ext(p.SourceRef))
	return filepath.Join(dir, fmt.Sprintf("%s_%s.jpg", stem, p.ID.String()[:8]))
}
