package diag

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	profileColor   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	thresholdColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// ProfileName returns the file name of the plot for axis.
func ProfileName(axis string) string {
	return "profile-" + axis + ".png"
}

func (r *Recorder) writeProfile(axis string, means []float64, threshold float64) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Crop profile (%s)", axis)
	p.X.Label.Text = "Line"
	p.Y.Label.Text = "Mean intensity"
	p.Y.Min = 0
	p.Y.Max = 1

	pts := make(plotter.XYs, len(means))
	for i, m := range means {
		pts[i] = plotter.XY{X: float64(i), Y: m}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = profileColor
	line.Width = vg.Points(1)

	last := float64(len(means) - 1)
	cut, err := plotter.NewLine(plotter.XYs{{X: 0, Y: threshold}, {X: last, Y: threshold}})
	if err != nil {
		return err
	}
	cut.Color = thresholdColor
	cut.Width = vg.Points(1)
	cut.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(line, cut)
	p.Legend.Add("mean", line)
	p.Legend.Add(fmt.Sprintf("threshold %.2f", threshold), cut)

	wt, err := p.WriterTo(8*vg.Inch, 3*vg.Inch, "png")
	if err != nil {
		return err
	}
	f, err := r.fs.Create(filepath.Join(r.dir, ProfileName(axis)))
	if err != nil {
		return err
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	r.Logf("%s %d lines", ProfileName(axis), len(means))
	return f.Close()
}
