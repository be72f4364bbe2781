package card

import (
	"fmt"
	"image"
)

// Polarity says how a hole looks in the photograph. It drives both the
// Binarizer's mapping and the Classifier's comparison so the two can never
// disagree.
type Polarity int

const (
	// DarkIsPunched is a front-lit card on a dark backdrop: holes read dark.
	DarkIsPunched Polarity = iota
	// BrightIsPunched is a back-lit card: light shines through the holes.
	BrightIsPunched
)

func (p Polarity) String() string {
	switch p {
	case DarkIsPunched:
		return "dark"
	case BrightIsPunched:
		return "bright"
	default:
		return "unknown"
	}
}

// ParsePolarity accepts the names returned by Polarity.String.
func ParsePolarity(s string) (Polarity, error) {
	switch s {
	case "dark", "dark-is-punched":
		return DarkIsPunched, nil
	case "bright", "bright-is-punched":
		return BrightIsPunched, nil
	}
	return 0, fmt.Errorf("%w: unknown polarity %q", ErrInvalidParams, s)
}

// GrayMode selects how gray input, or RGB input with ForceGray, is reduced.
type GrayMode int

const (
	// GrayDither reduces to one bit with Floyd-Steinberg error diffusion.
	GrayDither GrayMode = iota
	// GrayThreshold applies the channel cutoff to the intensity.
	GrayThreshold
	// GrayDirect keeps the intensity unchanged.
	GrayDirect
	// GrayChannels splits each channel at the cutoff before taking the
	// intensity.
	GrayChannels
)

func (m GrayMode) String() string {
	switch m {
	case GrayDither:
		return "dither"
	case GrayThreshold:
		return "threshold"
	case GrayDirect:
		return "direct"
	case GrayChannels:
		return "channels"
	default:
		return "unknown"
	}
}

// ParseGrayMode accepts the names returned by GrayMode.String.
func ParseGrayMode(s string) (GrayMode, error) {
	switch s {
	case "dither":
		return GrayDither, nil
	case "threshold":
		return GrayThreshold, nil
	case "direct":
		return GrayDirect, nil
	case "channels":
		return GrayChannels, nil
	}
	return 0, fmt.Errorf("%w: unknown gray mode %q", ErrInvalidParams, s)
}

// Thresholder estimates a global binarization cutoff for an image.
type Thresholder interface {
	Threshold(gray *image.Gray) (uint8, error)
}

// Params holds the decoding configuration. Values are copied, never shared:
// the WithX methods return a modified copy.
type Params struct {
	// Grid geometry: punch rows and columns
	Rows int
	Cols int

	// Margin trim, as fractions of the cropped width
	LeftRatio  float64
	RightRatio float64

	// Binarization
	ChannelCutoff uint8    // RGB path: high iff every channel is above this
	GrayMode      GrayMode // How Gray input is reduced
	ForceGray     bool     // Send RGB input down the Gray path
	AutoThreshold bool     // Replace ChannelCutoff with a per-image Otsu estimate
	Thresholder   Thresholder

	// Normalized (0-1) line and cell thresholds
	BackgroundThreshold float64 // Crop: line mean must exceed this
	PunchThreshold      float64 // Classify: mean above this is unpunched

	Polarity Polarity

	// StrictContent turns the no-content fallback into ErrNoContent.
	StrictContent bool
}

// DefaultParams returns the parameters for a standard 8x10 card photographed
// front-lit on a dark surface.
func DefaultParams() Params {
	return Params{
		Rows: 8,
		Cols: 10,

		// The printed frame sits left of the punch field
		LeftRatio:  0.15,
		RightRatio: 0.03,

		ChannelCutoff: 80,
		GrayMode:      GrayThreshold,

		BackgroundThreshold: 0.2,
		PunchThreshold:      0.95,

		Polarity: DarkIsPunched,
	}
}

// PerChannelParams returns DefaultParams set up for the per-channel
// binarization: every channel is split at 130, the result is reduced to
// intensity, and the crop and punch thresholds are 25 and 240 on the 0-255
// scale.
func PerChannelParams() Params {
	p := DefaultParams()
	p.ChannelCutoff = 130
	p.GrayMode = GrayChannels
	p.ForceGray = true
	p.BackgroundThreshold = 25.0 / 255
	p.PunchThreshold = 240.0 / 255
	return p
}

// WithGrid returns a copy of params with a different grid geometry.
func (p Params) WithGrid(rows, cols int) Params {
	p.Rows = rows
	p.Cols = cols
	return p
}

// WithTrim returns a copy of params with custom margin trim ratios.
func (p Params) WithTrim(left, right float64) Params {
	p.LeftRatio = left
	p.RightRatio = right
	return p
}

// WithPolarity returns a copy of params with a different hole polarity.
func (p Params) WithPolarity(pol Polarity) Params {
	p.Polarity = pol
	return p
}

// WithThresholds returns a copy of params with custom crop and punch thresholds.
func (p Params) WithThresholds(background, punch float64) Params {
	p.BackgroundThreshold = background
	p.PunchThreshold = punch
	return p
}

// WithCutoff returns a copy of params with a fixed channel cutoff.
func (p Params) WithCutoff(cutoff uint8) Params {
	p.ChannelCutoff = cutoff
	p.AutoThreshold = false
	return p
}

// WithAutoThreshold returns a copy of params that estimates the cutoff per
// image. A nil thresholder uses the built-in Otsu estimator.
func (p Params) WithAutoThreshold(t Thresholder) Params {
	p.AutoThreshold = true
	p.Thresholder = t
	return p
}

// WithGrayMode returns a copy of params with a different gray reduction.
func (p Params) WithGrayMode(m GrayMode, force bool) Params {
	p.GrayMode = m
	p.ForceGray = force
	return p
}

// WithStrictContent returns a copy of params that fails on blank input.
func (p Params) WithStrictContent(strict bool) Params {
	p.StrictContent = strict
	return p
}

// Validate checks that the parameters describe a usable pipeline.
func (p Params) Validate() error {
	if p.Rows < 1 || p.Cols < 1 {
		return fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", ErrInvalidParams, p.Rows, p.Cols)
	}
	if p.LeftRatio < 0 || p.LeftRatio >= 1 || p.RightRatio < 0 || p.RightRatio >= 1 {
		return fmt.Errorf("%w: trim ratios must be in [0,1), got %.3f/%.3f", ErrInvalidParams, p.LeftRatio, p.RightRatio)
	}
	if p.LeftRatio+p.RightRatio >= 1 {
		return fmt.Errorf("%w: trim ratios %.3f+%.3f leave no width", ErrInvalidParams, p.LeftRatio, p.RightRatio)
	}
	if p.BackgroundThreshold < 0 || p.BackgroundThreshold > 1 {
		return fmt.Errorf("%w: background threshold must be in [0,1], got %.3f", ErrInvalidParams, p.BackgroundThreshold)
	}
	if p.PunchThreshold < 0 || p.PunchThreshold > 1 {
		return fmt.Errorf("%w: punch threshold must be in [0,1], got %.3f", ErrInvalidParams, p.PunchThreshold)
	}
	switch p.Polarity {
	case DarkIsPunched, BrightIsPunched:
	default:
		return fmt.Errorf("%w: unknown polarity %d", ErrInvalidParams, p.Polarity)
	}
	switch p.GrayMode {
	case GrayDither, GrayThreshold, GrayDirect, GrayChannels:
	default:
		return fmt.Errorf("%w: unknown gray mode %d", ErrInvalidParams, p.GrayMode)
	}
	return nil
}
