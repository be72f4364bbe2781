package card

import (
	"fmt"
	"image"

	"punchcard/pkg/geometry"
)

// Row is one horizontal band of the trimmed card.
type Row struct {
	Index int
	Band  geometry.Band // Vertical extent in trimmed-image coordinates
	Image *image.Gray
}

// Cell is the image region of one punch position.
type Cell struct {
	Row, Col int
	Bounds   image.Rectangle // In trimmed-image coordinates
	Image    *image.Gray
	Mean     float64 // Normalized mean intensity, set by Classify
	Symbol   Symbol
}

// SegmentRows splits img into n balanced horizontal bands.
func SegmentRows(img *image.Gray, n int) ([]Row, error) {
	b := img.Bounds()
	if n < 1 || b.Dy() < n {
		return nil, fmt.Errorf("%w: cannot split height %d into %d rows", ErrDegenerateGeometry, b.Dy(), n)
	}

	mat, err := grayToMat(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	bands := geometry.Partition(b.Dy(), n)
	rows := make([]Row, n)
	for i, band := range bands {
		sub, err := regionToGray(mat, image.Rect(0, band.Start, b.Dx(), band.End))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows[i] = Row{Index: i, Band: band, Image: sub}
	}
	return rows, nil
}

// SegmentCells splits a row into n balanced cells, left to right.
func SegmentCells(row Row, n int) ([]Cell, error) {
	b := row.Image.Bounds()
	if n < 1 || b.Dx() < n {
		return nil, fmt.Errorf("%w: cannot split row %d width %d into %d cells", ErrDegenerateGeometry, row.Index, b.Dx(), n)
	}

	mat, err := grayToMat(row.Image)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	bands := geometry.Partition(b.Dx(), n)
	cells := make([]Cell, n)
	for j, band := range bands {
		sub, err := regionToGray(mat, image.Rect(band.Start, 0, band.End, b.Dy()))
		if err != nil {
			return nil, fmt.Errorf("cell %d-%d: %w", row.Index, j, err)
		}
		cells[j] = Cell{
			Row:    row.Index,
			Col:    j,
			Bounds: image.Rect(band.Start, row.Band.Start, band.End, row.Band.End),
			Image:  sub,
		}
	}
	return cells, nil
}
