package card

import (
	"fmt"
	"image"
	"math"
	"runtime"

	"gocv.io/x/gocv"

	"punchcard/internal/raster"
	"punchcard/pkg/colorutil"
)

// grayToMat copies img into a new single-channel Mat.
func grayToMat(img *image.Gray) (gocv.Mat, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, w*h)
	for y := 0; y < h; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(pix[y*w:(y+1)*w], img.Pix[off:off+w])
	}

	view, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, pix)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("gray to mat: %w", err)
	}
	defer view.Close()
	mat := view.Clone()
	runtime.KeepAlive(pix)
	return mat, nil
}

// sourceToBGR converts an RGB source into a 3-channel BGR Mat.
func sourceToBGR(src raster.Source) (gocv.Mat, error) {
	w, h := src.Width(), src.Height()
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+4*w]
		for x := 0; x < w; x++ {
			px := src.PixelAt(x, y)
			row[4*x+0] = px.R
			row[4*x+1] = px.G
			row[4*x+2] = px.B
			row[4*x+3] = 255
		}
	}

	mat, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC4, rgba.Pix)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("rgb to mat: %w", err)
	}
	defer mat.Close()

	bgr := gocv.NewMat()
	gocv.CvtColor(mat, &bgr, gocv.ColorRGBAToBGR)
	runtime.KeepAlive(rgba)
	return bgr, nil
}

// sourceToGray converts a Gray or Binary source into a single-channel Mat.
func sourceToGray(src raster.Source) (gocv.Mat, error) {
	w, h := src.Width(), src.Height()
	gray := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for x := range row {
			row[x] = src.PixelAt(x, y).Y()
		}
	}
	return grayToMat(gray)
}

// matToGray copies a continuous 8-bit single-channel Mat into a new image.
func matToGray(mat gocv.Mat) (*image.Gray, error) {
	if mat.Type() != gocv.MatTypeCV8UC1 {
		return nil, fmt.Errorf("mat to gray: want 8-bit single channel, got type %v", mat.Type())
	}
	w, h := mat.Cols(), mat.Rows()
	data := mat.ToBytes()
	if len(data) != w*h {
		return nil, fmt.Errorf("mat to gray: %d bytes for %dx%d", len(data), w, h)
	}
	img := image.NewGray(image.Rect(0, 0, w, h))
	copy(img.Pix, data)
	return img, nil
}

// regionToGray copies the region r of mat into a new image.
func regionToGray(mat gocv.Mat, r image.Rectangle) (*image.Gray, error) {
	roi := mat.Region(r)
	defer roi.Close()
	cropped := roi.Clone()
	defer cropped.Close()
	return matToGray(cropped)
}

// regionMean returns the normalized (0-1) mean intensity of region r.
func regionMean(mat gocv.Mat, r image.Rectangle) float64 {
	n := r.Dx() * r.Dy()
	if n <= 0 {
		return 0
	}
	roi := mat.Region(r)
	defer roi.Close()

	// Mean scales by 1/n; rounding recovers the exact integer sum so equal
	// regions always compare equal.
	sum := math.Round(roi.Mean().Val1 * float64(n))
	return colorutil.Normalize(sum / float64(n))
}
