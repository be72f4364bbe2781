package card

import (
	"fmt"
	"image"

	"punchcard/pkg/geometry"
)

// TrimBox returns the band kept by the margin trim: columns from
// int(w*left) up to, but not including, int(w - w*right). The full height
// is kept.
func TrimBox(w, h int, left, right float64) geometry.BoundingBox {
	fw := float64(w)
	return geometry.BoundingBox{
		Left:   int(fw * left),
		Top:    0,
		Right:  int(fw - fw*right),
		Bottom: h,
	}
}

// Trim removes the fixed-ratio left and right margins from img.
func Trim(img *image.Gray, left, right float64) (*image.Gray, geometry.BoundingBox, error) {
	b := img.Bounds()
	box := TrimBox(b.Dx(), b.Dy(), left, right)
	out, err := Crop(img, box)
	if err != nil {
		return nil, box, fmt.Errorf("trim: %w", err)
	}
	return out, box, nil
}
