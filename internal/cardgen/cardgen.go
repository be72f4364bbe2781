// Package cardgen renders synthetic punch card photographs. The layout is
// the inverse of the decoder's geometry: after the crop and the margin trim
// the punch field lands exactly on the segmentation grid.
package cardgen

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math/rand"

	"punchcard/internal/card"
	"punchcard/pkg/colorutil"
)

// Options controls how a card is drawn.
type Options struct {
	CellWidth  int // Pixels per punch column
	CellHeight int // Pixels per punch row
	Border     int // Backdrop pixels around the card

	// HoleInset is the fraction of the cell left unpunched on each side.
	// Zero punches the whole cell.
	HoleInset float64

	Body color.RGBA // Card stock
	Hole color.RGBA // Seen through holes and around the card
	Gray bool       // Render an *image.Gray instead of RGBA
}

// DefaultOptions returns photo-like colors for the given polarity.
func DefaultOptions(pol card.Polarity) Options {
	o := Options{
		CellWidth:  24,
		CellHeight: 20,
		Border:     12,
		HoleInset:  0.2,
		Body:       colorutil.CardStock,
		Hole:       colorutil.Backdrop,
	}
	if pol == card.BrightIsPunched {
		o.Body = colorutil.Backdrop
		o.Hole = color.RGBA{R: 250, G: 250, B: 244, A: 255}
	}
	return o
}

// WithGray returns a copy of o that renders pure black and white grayscale.
func (o Options) WithGray(pol card.Polarity) Options {
	o.Gray = true
	o.Body, o.Hole = colorutil.White, colorutil.Black
	if pol == card.BrightIsPunched {
		o.Body, o.Hole = o.Hole, o.Body
	}
	return o
}

// Layout is the computed placement of the punch field.
type Layout struct {
	Width, Height int             // Whole image
	Body          image.Rectangle // Card stock, one extra column and row past the field
	Field         image.Rectangle // Punch field
}

// Plan computes where the card and punch field go so that the decoder with
// params p recovers exactly rows x cols cells of the given size.
func Plan(p card.Params, opts Options) (Layout, error) {
	if opts.CellWidth < 1 || opts.CellHeight < 1 {
		return Layout{}, fmt.Errorf("cell size must be positive, got %dx%d", opts.CellWidth, opts.CellHeight)
	}
	if opts.Border < 1 {
		return Layout{}, fmt.Errorf("border must be at least 1 pixel, got %d", opts.Border)
	}

	fieldW := p.Cols * opts.CellWidth
	fieldH := p.Rows * opts.CellHeight

	// Find a cropped width whose trim band is exactly the field.
	cropW := -1
	for w := fieldW; w <= 4*fieldW+16; w++ {
		box := card.TrimBox(w, fieldH, p.LeftRatio, p.RightRatio)
		if box.Dx() == fieldW {
			cropW = w
			break
		}
	}
	if cropW < 0 {
		return Layout{}, fmt.Errorf("no card width trims to a %d pixel field with ratios %.3f/%.3f",
			fieldW, p.LeftRatio, p.RightRatio)
	}
	left := card.TrimBox(cropW, fieldH, p.LeftRatio, p.RightRatio).Left

	// The crop drops the last qualifying column and row, so the body
	// extends one pixel further.
	b := opts.Border
	body := image.Rect(b, b, b+cropW+1, b+fieldH+1)
	field := image.Rect(b+left, b, b+left+fieldW, b+fieldH)
	return Layout{
		Width:  cropW + 1 + 2*b,
		Height: fieldH + 1 + 2*b,
		Body:   body,
		Field:  field,
	}, nil
}

// Render draws prog as a card photograph. The program must match the grid
// size in p.
func Render(prog *card.Program, p card.Params, opts Options) (image.Image, error) {
	if prog.Rows() != p.Rows || prog.Cols() != p.Cols {
		return nil, fmt.Errorf("program is %dx%d, params want %dx%d", prog.Rows(), prog.Cols(), p.Rows, p.Cols)
	}
	layout, err := Plan(p, opts)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, layout.Width, layout.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: opts.Hole}, image.Point{}, draw.Src)
	draw.Draw(img, layout.Body, &image.Uniform{C: opts.Body}, image.Point{}, draw.Src)

	insetX := int(float64(opts.CellWidth) * opts.HoleInset)
	insetY := int(float64(opts.CellHeight) * opts.HoleInset)
	for i := 0; i < prog.Rows(); i++ {
		for j := 0; j < prog.Cols(); j++ {
			if !prog.Punched(i, j) {
				continue
			}
			x := layout.Field.Min.X + j*opts.CellWidth
			y := layout.Field.Min.Y + i*opts.CellHeight
			hole := image.Rect(x+insetX, y+insetY, x+opts.CellWidth-insetX, y+opts.CellHeight-insetY)
			draw.Draw(img, hole, &image.Uniform{C: opts.Hole}, image.Point{}, draw.Src)
		}
	}

	if !opts.Gray {
		return img, nil
	}
	gray := image.NewGray(img.Bounds())
	for i := 0; i < len(gray.Pix); i++ {
		px := img.Pix[i*4 : i*4+3]
		gray.Pix[i] = colorutil.Luma(px[0], px[1], px[2])
	}
	return gray, nil
}

// RandomProgram returns a reproducible pseudo-random program. The first and
// last rows always keep at least one unpunched position.
func RandomProgram(rows, cols int, seed int64) *card.Program {
	rng := rand.New(rand.NewSource(seed))
	lines := make([]byte, 0, rows*(cols+1))
	for i := 0; i < rows; i++ {
		if i > 0 {
			lines = append(lines, '\n')
		}
		keep := -1
		if i == 0 || i == rows-1 {
			keep = rng.Intn(cols)
		}
		for j := 0; j < cols; j++ {
			if j != keep && rng.Intn(2) == 1 {
				lines = append(lines, byte(card.Punched))
			} else {
				lines = append(lines, byte(card.Unpunched))
			}
		}
	}
	prog, err := card.ParseProgram(string(lines))
	if err != nil {
		panic(err)
	}
	return prog
}
