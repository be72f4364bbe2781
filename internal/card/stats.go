package card

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes how cleanly a card's cells separated.
type Summary struct {
	Cells     int
	Punched   int
	Unpunched int

	Mean, StdDev float64 // Of the cell means
	Min, Max     float64

	// Margin is the smallest distance between any cell mean and the punch
	// threshold. Small margins mean a slight lighting change could flip a cell.
	Margin  float64
	WeakRow int // Position of the cell with the smallest margin
	WeakCol int
}

// Summarize computes statistics over classified cells. It returns a zero
// Summary when there are no cells.
func Summarize(cells [][]Cell, p Params) Summary {
	var means, margins []float64
	var pos [][2]int
	s := Summary{}
	for _, row := range cells {
		for _, c := range row {
			means = append(means, c.Mean)
			margins = append(margins, math.Abs(c.Mean-p.PunchThreshold))
			pos = append(pos, [2]int{c.Row, c.Col})
			if c.Symbol == Punched {
				s.Punched++
			} else {
				s.Unpunched++
			}
		}
	}
	s.Cells = len(means)
	if s.Cells == 0 {
		return s
	}

	if s.Cells > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(means, nil)
	} else {
		s.Mean = means[0]
	}
	s.Min = floats.Min(means)
	s.Max = floats.Max(means)

	weak := floats.MinIdx(margins)
	s.Margin = margins[weak]
	s.WeakRow, s.WeakCol = pos[weak][0], pos[weak][1]
	return s
}

// MeanMatrix returns the cell means as a rows x cols matrix.
func MeanMatrix(cells [][]Cell) [][]float64 {
	m := make([][]float64, len(cells))
	for i, row := range cells {
		m[i] = make([]float64, len(row))
		for j, c := range row {
			m[i][j] = c.Mean
		}
	}
	return m
}
