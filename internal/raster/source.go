// Package raster provides image loading and color-mode tagging for card photographs.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"punchcard/pkg/colorutil"
)

// Mode is the color mode of a source image.
type Mode int

const (
	ModeRGB    Mode = iota // Three 8-bit channels
	ModeGray               // Single 8-bit (or 16-bit) intensity channel
	ModeBinary             // Two-level image, 0 or 255
)

func (m Mode) String() string {
	switch m {
	case ModeRGB:
		return "RGB"
	case ModeGray:
		return "Gray"
	case ModeBinary:
		return "Binary"
	default:
		return "Unknown"
	}
}

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("image has zero width or height")

// InputError reports an image that could not be loaded or decoded.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// Pixel is one sample of a Source. For Gray and Binary sources all three
// channels hold the same intensity.
type Pixel struct {
	R, G, B uint8
}

// Y returns the intensity of a single-channel pixel (the red channel).
func (p Pixel) Y() uint8 {
	return p.R
}

// Source is a decoded image tagged with its color mode.
// Coordinates passed to PixelAt are relative to the top-left corner.
type Source struct {
	Path  string      // Original file path, empty for in-memory images
	Mode  Mode        // Color mode derived from the decoded type
	Image image.Image // Decoded pixel data
}

// FromImage tags an in-memory image with its color mode.
func FromImage(img image.Image) (Source, error) {
	if img == nil {
		return Source{}, ErrEmptyImage
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return Source{}, ErrEmptyImage
	}
	return Source{Mode: detectMode(img), Image: img}, nil
}

// Load opens and decodes the image at path. Any failure is an *InputError.
func Load(path string) (Source, error) {
	img, err := imaging.Open(path)
	if err != nil {
		if errors.Is(err, image.ErrFormat) && !IsSupportedFormat(path) {
			err = fmt.Errorf("%w (supported: %s)", err, strings.Join(SupportedFormats(), " "))
		}
		return Source{}, &InputError{Path: path, Err: err}
	}
	src, err := FromImage(img)
	if err != nil {
		return Source{}, &InputError{Path: path, Err: err}
	}
	src.Path = path
	return src, nil
}

// Width returns the image width in pixels.
func (s Source) Width() int {
	if s.Image == nil {
		return 0
	}
	return s.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (s Source) Height() int {
	if s.Image == nil {
		return 0
	}
	return s.Image.Bounds().Dy()
}

// PixelAt returns the sample at (x, y).
func (s Source) PixelAt(x, y int) Pixel {
	origin := s.Image.Bounds().Min
	x, y = x+origin.X, y+origin.Y

	switch img := s.Image.(type) {
	case *image.Gray:
		v := img.GrayAt(x, y).Y
		return Pixel{v, v, v}
	case *image.RGBA:
		c := img.RGBAAt(x, y)
		return Pixel{c.R, c.G, c.B}
	case *image.NRGBA:
		c := img.NRGBAAt(x, y)
		return Pixel{c.R, c.G, c.B}
	}

	c := s.Image.At(x, y)
	if s.Mode == ModeRGB {
		r, g, b := colorutil.RGB8(c)
		return Pixel{r, g, b}
	}
	v := color.GrayModel.Convert(c).(color.Gray).Y
	if s.Mode == ModeBinary {
		if v >= 128 {
			v = 255
		} else {
			v = 0
		}
	}
	return Pixel{v, v, v}
}

// detectMode maps the concrete decoded type to a Mode.
func detectMode(img image.Image) Mode {
	switch img := img.(type) {
	case *image.Gray, *image.Gray16:
		return ModeGray
	case *image.Paletted:
		if len(img.Palette) <= 2 && achromatic(img.Palette) {
			return ModeBinary
		}
	}
	return ModeRGB
}

func achromatic(p color.Palette) bool {
	for _, c := range p {
		r, g, b, _ := c.RGBA()
		if r != g || g != b {
			return false
		}
	}
	return true
}

// SupportedFormats returns the list of supported image formats.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
