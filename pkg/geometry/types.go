// Package geometry provides the integer box and band types shared by the card pipeline.
package geometry

import (
	"fmt"
	"image"
)

// BoundingBox is a crop region in pixel coordinates.
// Left and Top are inclusive, Right and Bottom are exclusive.
type BoundingBox struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// NewBoundingBox creates a new BoundingBox.
func NewBoundingBox(left, top, right, bottom int) BoundingBox {
	return BoundingBox{Left: left, Top: top, Right: right, Bottom: bottom}
}

// FullBox returns the box covering an entire w x h image.
func FullBox(w, h int) BoundingBox {
	return BoundingBox{Left: 0, Top: 0, Right: w, Bottom: h}
}

// Dx returns the width of the box. Negative for an inverted box.
func (b BoundingBox) Dx() int {
	return b.Right - b.Left
}

// Dy returns the height of the box. Negative for an inverted box.
func (b BoundingBox) Dy() int {
	return b.Bottom - b.Top
}

// Inverted reports whether either edge pair is out of order.
func (b BoundingBox) Inverted() bool {
	return b.Left > b.Right || b.Top > b.Bottom
}

// Empty reports whether the box contains no pixels.
func (b BoundingBox) Empty() bool {
	return b.Dx() <= 0 || b.Dy() <= 0
}

// Within reports whether the box lies inside a w x h image.
func (b BoundingBox) Within(w, h int) bool {
	return b.Left >= 0 && b.Top >= 0 && b.Right <= w && b.Bottom <= h
}

// Rect converts to an image.Rectangle. Inverted boxes are not canonicalized.
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rectangle{
		Min: image.Point{X: b.Left, Y: b.Top},
		Max: image.Point{X: b.Right, Y: b.Bottom},
	}
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", b.Left, b.Top, b.Right, b.Bottom)
}

// Band is a half-open interval [Start, End) along one axis.
type Band struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of pixels in the band.
func (b Band) Len() int {
	return b.End - b.Start
}

// Partition splits [0, length) into n contiguous bands whose sizes differ
// by at most one. The remainder of length/n goes to the leading bands, so
// band i starts at i*(length/n) + min(i, length%n).
func Partition(length, n int) []Band {
	if n <= 0 || length < 0 {
		return nil
	}
	bands := make([]Band, n)
	for i := range bands {
		bands[i] = Band{Start: partitionBound(length, n, i), End: partitionBound(length, n, i+1)}
	}
	return bands
}

func partitionBound(length, n, i int) int {
	q, r := length/n, length%n
	return i*q + min(i, r)
}
