package watermark

// Anchor names one of the six date stamp positions.
type Anchor string

const (
	TopLeft      Anchor = "top_left"
	TopCenter    Anchor = "top_center"
	TopRight     Anchor = "top_right"
	BottomLeft   Anchor = "bottom_left"
	BottomCenter Anchor = "bottom_center"
	BottomRight  Anchor = "bottom_right"
)

// Tier selects the stamp size as a share of the shorter canvas side.
type Tier string

const (
	TierSmall  Tier = "small"
	TierMedium Tier = "medium"
	TierLarge  Tier = "large"
)

func (t Tier) percent() float64 {
	switch t {
	case TierSmall:
		return 0.03
	case TierLarge:
		return 0.06
	default:
		return 0.045
	}
}

// Config controls how the capture date is stamped onto a print.
type Config struct {
	Enabled        bool   `json:"enabled"`
	Position       Anchor `json:"position" validate:"omitempty,oneof=top_left top_center top_right bottom_left bottom_center bottom_right"`
	SizeTier       Tier   `json:"size_tier" validate:"omitempty,oneof=small medium large"`
	Color          string `json:"color" validate:"omitempty,hexcolor"`
	DateFormat     string `json:"date_format"`
	OpacityPercent int    `json:"opacity_percent" validate:"min=0,max=100"`
}

// DefaultDateFormat renders like the date stamps of film-era compacts.
const DefaultDateFormat = "2006.01.02"

func (c Config) layout() string {
	if c.DateFormat == "" {
		return DefaultDateFormat
	}
	return c.DateFormat
}

func (c Config) anchor() Anchor {
	if c.Position == "" {
		return BottomRight
	}
	return c.Position
}

func (c Config) opacity() int {
	if c.OpacityPercent <= 0 || c.OpacityPercent > 100 {
		return 100
	}
	return c.OpacityPercent
}

// lightPalette maps the offered stamp colors to their tone. The halo is
// drawn in the opposite tone so the text reads on any background.
var lightPalette = map[string]bool{
	"#FFFFFF": true,
	"#F5E9D0": true,
	"#FFD700": true,
	"#000000": false,
	"#5C4A32": false,
	"#1F3A5F": false,
}
