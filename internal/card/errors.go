// Package card decodes a photographed punch card into its program text.
//
// The pipeline is a chain of pure stages over *image.Gray:
//
//	Binarize -> FindContent/Crop -> Trim -> SegmentRows/SegmentCells -> Classify -> Assemble
//
// Decode runs the whole chain and reports each intermediate image to an
// optional Tap; none of the stages perform I/O.
package card

import "errors"

var (
	// ErrInvalidParams is returned by Params.Validate and the parsers.
	ErrInvalidParams = errors.New("invalid parameters")

	// ErrDegenerateGeometry means a crop or segmentation step would produce
	// an empty or inverted region.
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrNoContent means no scan line exceeded the background threshold.
	// Only returned when Params.StrictContent is set.
	ErrNoContent = errors.New("no card content found")
)
