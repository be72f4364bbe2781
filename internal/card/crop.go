package card

import (
	"fmt"
	"image"

	"punchcard/pkg/geometry"
)

// Content is the outcome of the edge scan over a binarized image.
type Content struct {
	Box   geometry.BoundingBox
	Found bool // At least one scan line exceeded the threshold

	// Per-line normalized means, kept for diagnostics
	ColMeans []float64
	RowMeans []float64
}

// FindContent locates the card body. Each edge is scanned from its own side
// inward and stops at the first line whose mean exceeds threshold. Left and
// Top take that line's index; Right and Bottom take it as the exclusive
// bound, so the line itself is left out. An edge with no qualifying line
// falls back to the image border.
func FindContent(img *image.Gray, threshold float64) (Content, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	c := Content{
		Box:      geometry.FullBox(w, h),
		ColMeans: make([]float64, w),
		RowMeans: make([]float64, h),
	}
	if w == 0 || h == 0 {
		return c, nil
	}

	mat, err := grayToMat(img)
	if err != nil {
		return c, err
	}
	defer mat.Close()

	for x := range c.ColMeans {
		c.ColMeans[x] = regionMean(mat, image.Rect(x, 0, x+1, h))
	}
	for y := range c.RowMeans {
		c.RowMeans[y] = regionMean(mat, image.Rect(0, y, w, y+1))
	}

	if x, ok := firstAbove(c.ColMeans, threshold, false); ok {
		c.Box.Left = x
		c.Found = true
	}
	if x, ok := firstAbove(c.ColMeans, threshold, true); ok {
		c.Box.Right = x
		c.Found = true
	}
	if y, ok := firstAbove(c.RowMeans, threshold, false); ok {
		c.Box.Top = y
		c.Found = true
	}
	if y, ok := firstAbove(c.RowMeans, threshold, true); ok {
		c.Box.Bottom = y
		c.Found = true
	}
	return c, nil
}

// firstAbove returns the index of the first mean strictly above threshold,
// scanning from the end when reverse is set.
func firstAbove(means []float64, threshold float64, reverse bool) (int, bool) {
	n := len(means)
	for i := 0; i < n; i++ {
		j := i
		if reverse {
			j = n - 1 - i
		}
		if means[j] > threshold {
			return j, true
		}
	}
	return 0, false
}

// Crop copies the region inside box into a new image with origin (0,0).
func Crop(img *image.Gray, box geometry.BoundingBox) (*image.Gray, error) {
	b := img.Bounds()
	if box.Inverted() {
		return nil, fmt.Errorf("%w: inverted box %v", ErrDegenerateGeometry, box)
	}
	if box.Empty() || !box.Within(b.Dx(), b.Dy()) {
		return nil, fmt.Errorf("%w: crop %v of %dx%d image", ErrDegenerateGeometry, box, b.Dx(), b.Dy())
	}

	mat, err := grayToMat(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()
	return regionToGray(mat, box.Rect())
}
