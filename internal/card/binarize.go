package card

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"gocv.io/x/gocv"

	"punchcard/internal/raster"
	"punchcard/pkg/colorutil"
)

// bilevel is the palette used for error-diffusion dithering.
var bilevel = color.Palette{color.Gray{Y: colorutil.Low}, color.Gray{Y: colorutil.High}}

// Binarize converts a source image into the canonical grayscale form read by
// the later stages: card body high, holes and backdrop low. It returns the
// channel cutoff that was applied.
func Binarize(src raster.Source, p Params) (*image.Gray, uint8, error) {
	if src.Image == nil || src.Width() <= 0 || src.Height() <= 0 {
		return nil, 0, raster.ErrEmptyImage
	}

	cutoff := p.ChannelCutoff
	if p.AutoThreshold {
		var err error
		cutoff, err = estimateCutoff(src, p.Thresholder)
		if err != nil {
			return nil, 0, fmt.Errorf("estimate cutoff: %w", err)
		}
	}

	var (
		bw  gocv.Mat
		err error
	)
	switch {
	case src.Mode == raster.ModeBinary:
		bw, err = sourceToGray(src)
	case src.Mode == raster.ModeRGB && !p.ForceGray:
		bw, err = binarizeRGB(src, cutoff)
	default:
		bw, err = reduceGray(src, p.GrayMode, cutoff)
	}
	if err != nil {
		return nil, 0, err
	}
	defer bw.Close()

	if p.Polarity == BrightIsPunched {
		gocv.BitwiseNot(bw, &bw)
	}
	out, err := matToGray(bw)
	if err != nil {
		return nil, 0, err
	}
	return out, cutoff, nil
}

// Luminance converts any source to an 8-bit intensity image.
func Luminance(src raster.Source) (*image.Gray, error) {
	lum, err := luminanceMat(src)
	if err != nil {
		return nil, err
	}
	defer lum.Close()
	return matToGray(lum)
}

func luminanceMat(src raster.Source) (gocv.Mat, error) {
	if src.Mode != raster.ModeRGB {
		return sourceToGray(src)
	}
	bgr, err := sourceToBGR(src)
	if err != nil {
		return gocv.Mat{}, err
	}
	defer bgr.Close()

	gray := gocv.NewMat()
	gocv.CvtColor(bgr, &gray, gocv.ColorBGRToGray)
	return gray, nil
}

// binarizeRGB marks a pixel high only if all three channels clear the cutoff.
func binarizeRGB(src raster.Source, cutoff uint8) (gocv.Mat, error) {
	bgr, err := sourceToBGR(src)
	if err != nil {
		return gocv.Mat{}, err
	}
	defer bgr.Close()

	lo := float64(cutoff) + 1
	bw := gocv.NewMat()
	gocv.InRangeWithScalar(bgr, gocv.NewScalar(lo, lo, lo, 0), gocv.NewScalar(255, 255, 255, 0), &bw)
	return bw, nil
}

// reduceGray runs the single-channel path selected by mode.
func reduceGray(src raster.Source, mode GrayMode, cutoff uint8) (gocv.Mat, error) {
	if mode == GrayChannels {
		return binarizeChannels(src, cutoff)
	}

	lum, err := luminanceMat(src)
	if err != nil {
		return gocv.Mat{}, err
	}

	switch mode {
	case GrayDirect:
		return lum, nil
	case GrayThreshold:
		gocv.Threshold(lum, &lum, float32(cutoff), float32(colorutil.High), gocv.ThresholdBinary)
		return lum, nil
	}

	defer lum.Close()
	gray, err := matToGray(lum)
	if err != nil {
		return gocv.Mat{}, err
	}
	return grayToMat(dither(gray))
}

// binarizeChannels maps every channel to 0 below cutoff and 255 from cutoff
// up, then converts RGB to intensity.
func binarizeChannels(src raster.Source, cutoff uint8) (gocv.Mat, error) {
	thresh := float32(int(cutoff) - 1)
	if src.Mode != raster.ModeRGB {
		gray, err := sourceToGray(src)
		if err != nil {
			return gocv.Mat{}, err
		}
		gocv.Threshold(gray, &gray, thresh, float32(colorutil.High), gocv.ThresholdBinary)
		return gray, nil
	}

	bgr, err := sourceToBGR(src)
	if err != nil {
		return gocv.Mat{}, err
	}
	defer bgr.Close()
	gocv.Threshold(bgr, &bgr, thresh, float32(colorutil.High), gocv.ThresholdBinary)

	gray := gocv.NewMat()
	gocv.CvtColor(bgr, &gray, gocv.ColorBGRToGray)
	return gray, nil
}

// dither reduces lum to one bit with Floyd-Steinberg error diffusion.
func dither(lum *image.Gray) *image.Gray {
	b := lum.Bounds()
	pal := image.NewPaletted(b, bilevel)
	draw.FloydSteinberg.Draw(pal, b, lum, b.Min)
	out := image.NewGray(b)
	for i, idx := range pal.Pix {
		out.Pix[i] = bilevel[idx].(color.Gray).Y
	}
	return out
}

func estimateCutoff(src raster.Source, t Thresholder) (uint8, error) {
	if t == nil {
		t = Otsu{}
	}
	lum, err := Luminance(src)
	if err != nil {
		return 0, err
	}
	return t.Threshold(lum)
}

// Otsu picks the cutoff that maximizes between-class variance of the
// intensity histogram, using OpenCV's THRESH_OTSU. Pixels above the cutoff
// form the bright class.
type Otsu struct{}

// Threshold implements Thresholder.
func (Otsu) Threshold(gray *image.Gray) (uint8, error) {
	if gray.Bounds().Empty() {
		return 0, raster.ErrEmptyImage
	}
	mat, err := grayToMat(gray)
	if err != nil {
		return 0, err
	}
	defer mat.Close()

	binary := gocv.NewMat()
	defer binary.Close()
	t := gocv.Threshold(mat, &binary, 0, float32(colorutil.High), gocv.ThresholdBinary|gocv.ThresholdOtsu)
	if t < 0 || t > 255 {
		return 0, fmt.Errorf("otsu threshold out of range: %v", t)
	}
	return uint8(t), nil
}
