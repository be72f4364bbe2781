package card

import (
	"fmt"
	"image"

	"punchcard/internal/raster"
	"punchcard/pkg/geometry"
)

// Stage names reported to a Tap.
const (
	StageInput = "input"
	StageBW    = "bw"
	StageCrop  = "crop"
	StageTrim  = "trim"
)

// RowStage returns the Tap stage name for row i.
func RowStage(i int) string {
	return fmt.Sprintf("row-%d", i)
}

// CellStage returns the Tap stage name for the cell at row i, column j.
func CellStage(i, j int) string {
	return fmt.Sprintf("cell-%d-%d", i, j)
}

// Tap observes intermediate pipeline output. Implementations must not
// modify the images they are given.
type Tap interface {
	// Image is called once per stage, in pipeline order.
	Image(stage string, img image.Image)
	// Profile is called with the per-line means scanned by the cropper;
	// axis is "cols" or "rows".
	Profile(axis string, means []float64, threshold float64)
}

type nopTap struct{}

func (nopTap) Image(string, image.Image)          {}
func (nopTap) Profile(string, []float64, float64) {}

// Result is everything Decode learned about one card.
type Result struct {
	Program      *Program
	Cells        [][]Cell             // Rows x Cols, empty when no content was found
	Content      geometry.BoundingBox // Crop box in binarized-image coordinates
	Trim         geometry.BoundingBox // Trim box in cropped-image coordinates
	ContentFound bool
	Cutoff       uint8 // Channel cutoff applied by Binarize
}

// Decode runs the full pipeline on one image. tap may be nil.
func Decode(src raster.Source, p Params, tap Tap) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if tap == nil {
		tap = nopTap{}
	}

	tap.Image(StageInput, src.Image)

	bw, cutoff, err := Binarize(src, p)
	if err != nil {
		return nil, fmt.Errorf("binarize: %w", err)
	}
	tap.Image(StageBW, bw)

	content, err := FindContent(bw, p.BackgroundThreshold)
	if err != nil {
		return nil, fmt.Errorf("crop: %w", err)
	}
	tap.Profile("cols", content.ColMeans, p.BackgroundThreshold)
	tap.Profile("rows", content.RowMeans, p.BackgroundThreshold)

	res := &Result{
		Content:      content.Box,
		ContentFound: content.Found,
		Cutoff:       cutoff,
	}
	if !content.Found {
		if p.StrictContent {
			return nil, fmt.Errorf("crop: %w", ErrNoContent)
		}
		res.Program = BlankProgram(p.Rows, p.Cols)
		return res, nil
	}

	cropped, err := Crop(bw, content.Box)
	if err != nil {
		return nil, fmt.Errorf("crop: %w", err)
	}
	tap.Image(StageCrop, cropped)

	trimmed, trimBox, err := Trim(cropped, p.LeftRatio, p.RightRatio)
	if err != nil {
		return nil, err
	}
	res.Trim = trimBox
	tap.Image(StageTrim, trimmed)

	rows, err := SegmentRows(trimmed, p.Rows)
	if err != nil {
		return nil, fmt.Errorf("segment: %w", err)
	}

	res.Cells = make([][]Cell, len(rows))
	for _, row := range rows {
		tap.Image(RowStage(row.Index), row.Image)

		cells, err := SegmentCells(row, p.Cols)
		if err != nil {
			return nil, fmt.Errorf("segment: %w", err)
		}
		for j := range cells {
			if err := ClassifyCell(&cells[j], p); err != nil {
				return nil, fmt.Errorf("classify: %w", err)
			}
			tap.Image(CellStage(row.Index, j), cells[j].Image)
		}
		res.Cells[row.Index] = cells
	}

	res.Program = Assemble(res.Cells)
	return res, nil
}

// DecodeFile loads the image at path and decodes it.
func DecodeFile(path string, p Params, tap Tap) (*Result, error) {
	src, err := raster.Load(path)
	if err != nil {
		return nil, err
	}
	return Decode(src, p, tap)
}
