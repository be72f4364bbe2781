package cardgen

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"punchcard/internal/card"
	"punchcard/internal/raster"
)

func decode(t *testing.T, img image.Image, p card.Params) *card.Result {
	t.Helper()
	src, err := raster.FromImage(img)
	require.NoError(t, err)
	res, err := card.Decode(src, p, nil)
	require.NoError(t, err)
	return res
}

func TestPlanDefaults(t *testing.T) {
	layout, err := Plan(card.DefaultParams(), DefaultOptions(card.DarkIsPunched))
	require.NoError(t, err)

	assert.Equal(t, 317, layout.Width)
	assert.Equal(t, 185, layout.Height)
	assert.Equal(t, image.Rect(12, 12, 305, 173), layout.Body)
	assert.Equal(t, image.Rect(55, 12, 295, 172), layout.Field)
}

func TestPlanRejectsBadOptions(t *testing.T) {
	opts := DefaultOptions(card.DarkIsPunched)
	opts.CellWidth = 0
	_, err := Plan(card.DefaultParams(), opts)
	assert.Error(t, err)

	opts = DefaultOptions(card.DarkIsPunched)
	opts.Border = 0
	_, err = Plan(card.DefaultParams(), opts)
	assert.Error(t, err)
}

func TestRenderRejectsMismatchedProgram(t *testing.T) {
	_, err := Render(card.BlankProgram(3, 3), card.DefaultParams(), DefaultOptions(card.DarkIsPunched))
	assert.Error(t, err)
}

func photoGray(pol card.Polarity) Options {
	o := DefaultOptions(pol)
	o.Gray = true
	return o
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		params card.Params
		opts   func(card.Polarity) Options
	}{
		{"dark rgb", card.DefaultParams(), DefaultOptions},
		{"bright rgb", card.DefaultParams().WithPolarity(card.BrightIsPunched), DefaultOptions},
		{"dark gray", card.DefaultParams(), func(pol card.Polarity) Options {
			return DefaultOptions(pol).WithGray(pol)
		}},
		{"bright gray", card.DefaultParams().WithPolarity(card.BrightIsPunched), func(pol card.Polarity) Options {
			return DefaultOptions(pol).WithGray(pol)
		}},
		// Luma of the photo colors rather than pure black and white.
		{"dark photo gray", card.DefaultParams(), photoGray},
		{"bright photo gray", card.DefaultParams().WithPolarity(card.BrightIsPunched), photoGray},
		{"per channel", card.PerChannelParams(), DefaultOptions},
		{"per channel gray", card.PerChannelParams(), photoGray},
		{"wide grid", card.DefaultParams().WithGrid(12, 40), DefaultOptions},
		{"no trim", card.DefaultParams().WithTrim(0, 0).WithGrid(4, 6), DefaultOptions},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			for seed := int64(1); seed <= 4; seed++ {
				prog := RandomProgram(c.params.Rows, c.params.Cols, seed)
				img, err := Render(prog, c.params, c.opts(c.params.Polarity))
				require.NoError(t, err)

				res := decode(t, img, c.params)
				require.True(t, res.ContentFound)
				if diff := cmp.Diff(prog.String(), res.Program.String()); diff != "" {
					t.Fatalf("seed %d: program mismatch (-want +got):\n%s", seed, diff)
				}
			}
		})
	}
}

func TestRoundTripFullHoles(t *testing.T) {
	p := card.DefaultParams().WithPolarity(card.BrightIsPunched)
	opts := DefaultOptions(card.BrightIsPunched)
	opts.HoleInset = 0

	prog := RandomProgram(p.Rows, p.Cols, 42)
	img, err := Render(prog, p, opts)
	require.NoError(t, err)

	res := decode(t, img, p)
	assert.True(t, prog.Equal(res.Program), "got\n%s", res.Program)
	for _, row := range res.Cells {
		for _, cell := range row {
			if cell.Symbol == card.Punched {
				assert.Equal(t, 0.0, cell.Mean)
			} else {
				assert.Equal(t, 1.0, cell.Mean)
			}
		}
	}
}

func TestRenderGrayIsGray(t *testing.T) {
	pol := card.DarkIsPunched
	img, err := Render(card.BlankProgram(8, 10), card.DefaultParams(), DefaultOptions(pol).WithGray(pol))
	require.NoError(t, err)
	_, ok := img.(*image.Gray)
	assert.True(t, ok)
}

func TestPhotoGrayLevels(t *testing.T) {
	img, err := Render(card.BlankProgram(8, 10), card.DefaultParams(), photoGray(card.DarkIsPunched))
	require.NoError(t, err)
	gray := img.(*image.Gray)

	layout, err := Plan(card.DefaultParams(), photoGray(card.DarkIsPunched))
	require.NoError(t, err)
	body := gray.GrayAt(layout.Body.Min.X+1, layout.Body.Min.Y+1).Y
	backdrop := gray.GrayAt(0, 0).Y
	assert.InDelta(t, 227, body, 1)
	assert.InDelta(t, 23, backdrop, 1)
}

func TestRandomProgram(t *testing.T) {
	a := RandomProgram(8, 10, 7)
	b := RandomProgram(8, 10, 7)
	assert.True(t, a.Equal(b))
	assert.Equal(t, 8, a.Rows())
	assert.Equal(t, 10, a.Cols())

	for _, seed := range []int64{1, 2, 3, 99} {
		p := RandomProgram(3, 2, seed)
		first, last := p.Lines()[0], p.Lines()[2]
		assert.Contains(t, first, "-")
		assert.Contains(t, last, "-")
	}
}
