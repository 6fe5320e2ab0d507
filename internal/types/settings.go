package types

import "fmt"

// FontFamily is one of the fonts the print stylesheet ships.
type FontFamily string

// Supported fonts.
const (
	FontArial         FontFamily = "Arial"
	FontTimesNewRoman FontFamily = "Times New Roman"
	FontCalibri       FontFamily = "Calibri"
)

// Valid reports whether the font is supported.
func (f FontFamily) Valid() bool {
	switch f {
	case FontArial, FontTimesNewRoman, FontCalibri:
		return true
	}
	return false
}

// FontSize is a preset base size; other text scales from it.
type FontSize string

// Font size presets.
const (
	FontSizeMinimal FontSize = "minimal"
	FontSizeSmall   FontSize = "small"
	FontSizeNormal  FontSize = "normal"
	FontSizeLarge   FontSize = "large"
)

// Points returns the base size in points. Unknown presets fall back to normal.
func (s FontSize) Points() float64 {
	switch s {
	case FontSizeMinimal:
		return 8
	case FontSizeSmall:
		return 9
	case FontSizeLarge:
		return 10.5
	default:
		return 9.5
	}
}

// Margins are page margins in centimetres.
type Margins struct {
	Top    float64 `json:"top" validate:"gte=0,lte=5"`
	Right  float64 `json:"right" validate:"gte=0,lte=5"`
	Bottom float64 `json:"bottom" validate:"gte=0,lte=5"`
	Left   float64 `json:"left" validate:"gte=0,lte=5"`
}

// Settings controls page layout of the rendered document.
type Settings struct {
	Font        FontFamily `json:"font" validate:"required"`
	FontSize    FontSize   `json:"fontSize" validate:"required,oneof=minimal small normal large"`
	Margins     Margins    `json:"margins"`
	LineSpacing float64    `json:"lineSpacing" validate:"gt=0,lte=3"`
}

// DefaultSettings returns the settings of a new CV.
func DefaultSettings() Settings {
	return Settings{
		Font:        FontTimesNewRoman,
		FontSize:    FontSizeNormal,
		Margins:     Margins{Top: 1.5, Right: 1.5, Bottom: 1, Left: 1.5},
		LineSpacing: 1.25,
	}
}

// Validate checks ranges and enumerations.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if !s.Font.Valid() {
		return fmt.Errorf("invalid settings: unsupported font %q", s.Font)
	}
	return nil
}

// SettingsPatch is a partial settings update; nil fields are left unchanged.
type SettingsPatch struct {
	Font        *FontFamily `json:"font,omitempty"`
	FontSize    *FontSize   `json:"fontSize,omitempty"`
	Margins     *Margins    `json:"margins,omitempty"`
	LineSpacing *float64    `json:"lineSpacing,omitempty"`
}

// Apply returns the settings with the patch applied.
func (s Settings) Apply(p SettingsPatch) Settings {
	if p.Font != nil {
		s.Font = *p.Font
	}
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
	if p.Margins != nil {
		s.Margins = *p.Margins
	}
	if p.LineSpacing != nil {
		s.LineSpacing = *p.LineSpacing
	}
	return s
}
