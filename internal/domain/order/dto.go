package order

import (
	"fmt"

	"github.com/printlab/printlab-engine/internal/domain/layout"
	"github.com/printlab/printlab-engine/internal/domain/photo"
	"github.com/printlab/printlab-engine/internal/pkg/watermark"
)

// ItemTransform is the committed crop in wire form. The matrix together
// with the reference dimensions lets the lab re-render at any resolution.
type ItemTransform struct {
	Matrix          [6]float64 `json:"matrix"`
	ReferenceWidth  float64    `json:"reference_width"`
	ReferenceHeight float64    `json:"reference_height"`
}

// Item is one photo position in the order.
type Item struct {
	PhotoID   string         `json:"photo_id" validate:"required,uuid"`
	RemoteURL string         `json:"remote_url" validate:"required,url"`
	Quantity  int            `json:"quantity" validate:"required,min=1"`
	Transform *ItemTransform `json:"transform,omitempty"`
}

// Product describes the print frame every item is rendered into.
type Product struct {
	AspectRatio   float64 `json:"aspect_ratio" validate:"required,gt=0"`
	Style         string  `json:"style" validate:"required,style"`
	MarginPercent float64 `json:"margin_percent" validate:"gte=0,lte=25"`
}

// Watermark mirrors the date stamp settings in wire form.
type Watermark struct {
	Enabled        bool   `json:"enabled"`
	Position       string `json:"position" validate:"omitempty,anchor"`
	SizeTier       string `json:"size_tier" validate:"omitempty,size_tier"`
	Color          string `json:"color" validate:"omitempty,hexcolor"`
	DateFormat     string `json:"date_format"`
	OpacityPercent int    `json:"opacity_percent" validate:"gte=0,lte=100"`
}

// Submission is the complete order payload.
type Submission struct {
	OrderRef  string    `json:"order_ref" validate:"required"`
	Product   Product   `json:"product" validate:"required"`
	Watermark Watermark `json:"watermark"`
	Items     []Item    `json:"items" validate:"required,min=1,dive"`
}

// Receipt is the backend's acknowledgement.
type Receipt struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// BuildSubmission assembles the order payload from uploaded photos. Every
// photo must already have a remote reference: the backend fetches originals
// itself, so a single missing upload blocks the whole submission before any
// request is made. Photos with a zero quantity are left out.
func BuildSubmission(orderRef string, photos []*photo.Photo, style layout.Style, wm watermark.Config) (*Submission, error) {
	items := make([]Item, 0, len(photos))
	for _, p := range photos {
		if p.Quantity <= 0 {
			continue
		}
		url := p.RemoteURL()
		if url == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingRemoteRef, p.SourceRef)
		}
		item := Item{
			PhotoID:   p.ID.String(),
			RemoteURL: url,
			Quantity:  p.Quantity,
		}
		if tr, ok := p.Transform(); ok {
			item.Transform = &ItemTransform{
				Matrix:          [6]float64(tr.Matrix),
				ReferenceWidth:  tr.ReferenceWidth,
				ReferenceHeight: tr.ReferenceHeight,
			}
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	return &Submission{
		OrderRef: orderRef,
		Product: Product{
			AspectRatio:   style.AspectRatio,
			Style:         string(style.Kind),
			MarginPercent: style.MarginPercent,
		},
		Watermark: Watermark{
			Enabled:        wm.Enabled,
			Position:       string(wm.Position),
			SizeTier:       string(wm.SizeTier),
			Color:          wm.Color,
			DateFormat:     wm.DateFormat,
			OpacityPercent: wm.OpacityPercent,
		},
		Items: items,
	}, nil
}
