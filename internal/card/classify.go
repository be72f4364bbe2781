package card

import (
	"fmt"
	"image"
)

// Symbol is one decoded punch position.
type Symbol byte

const (
	Punched   Symbol = '1'
	Unpunched Symbol = '-'
)

func (s Symbol) String() string {
	return string(rune(s))
}

// MeanIntensity returns the normalized (0-1) mean of all pixels in img.
func MeanIntensity(img *image.Gray) (float64, error) {
	b := img.Bounds()
	if b.Empty() {
		return 0, nil
	}
	mat, err := grayToMat(img)
	if err != nil {
		return 0, err
	}
	defer mat.Close()
	return regionMean(mat, image.Rect(0, 0, b.Dx(), b.Dy())), nil
}

// Classify maps a mean intensity to a symbol. Binarize has already put the
// card body on the high side under either polarity, so a hole always pulls
// the mean down: anything at or below the punch threshold is punched.
func (p Params) Classify(mean float64) Symbol {
	if mean > p.PunchThreshold {
		return Unpunched
	}
	return Punched
}

// ClassifyCell sets the cell's mean and symbol.
func ClassifyCell(c *Cell, p Params) error {
	mean, err := MeanIntensity(c.Image)
	if err != nil {
		return fmt.Errorf("cell %d-%d: %w", c.Row, c.Col, err)
	}
	c.Mean = mean
	c.Symbol = p.Classify(mean)
	return nil
}
