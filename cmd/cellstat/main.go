// Command cellstat decodes a card image and prints the mean intensity of
// every cell next to its classification, to help choose thresholds for a
// new camera or lighting setup.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"punchcard/internal/card"
	"punchcard/internal/config"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := flag.String("config", "", "JSON decode config")
	weakest := flag.Int("weakest", 5, "list this many cells closest to the punch threshold")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: cellstat [-config file.json] [-weakest n] image")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	p := card.DefaultParams()
	if *configPath != "" {
		f, err := config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		if p, err = f.Apply(p); err != nil {
			log.Fatal(err)
		}
	}

	res, err := card.DecodeFile(flag.Arg(0), p, nil)
	if err != nil {
		log.Fatalf("decode %s: %v", flag.Arg(0), err)
	}
	printReport(os.Stdout, res, p, *weakest)
}

func printReport(w io.Writer, res *card.Result, p card.Params, weakest int) {
	fmt.Fprintf(w, "Cutoff %d, polarity %s, punch threshold %.3f\n", res.Cutoff, p.Polarity, p.PunchThreshold)
	if !res.ContentFound {
		fmt.Fprintf(w, "No card content above background threshold %.2f\n", p.BackgroundThreshold)
		return
	}
	fmt.Fprintf(w, "Crop %s, trim %s\n\n", res.Content, res.Trim)

	means := card.MeanMatrix(res.Cells)
	fmt.Fprintf(w, "%4s", "")
	for j := 0; j < p.Cols; j++ {
		fmt.Fprintf(w, " %6d", j)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", 4+7*p.Cols))
	for i, row := range means {
		fmt.Fprintf(w, "%3d|", i)
		for j, m := range row {
			mark := " "
			if res.Cells[i][j].Symbol == card.Punched {
				mark = "*"
			}
			fmt.Fprintf(w, " %5.3f%s", m, mark)
		}
		fmt.Fprintln(w)
	}

	s := card.Summarize(res.Cells, p)
	fmt.Fprintln(w, "(* punched)")
	fmt.Fprintf(w, "\n%d cells: %d punched, %d unpunched\n", s.Cells, s.Punched, s.Unpunched)
	fmt.Fprintf(w, "Mean %.3f, stddev %.3f, min %.3f, max %.3f\n", s.Mean, s.StdDev, s.Min, s.Max)

	if weakest <= 0 {
		return
	}
	var cells []card.Cell
	for _, row := range res.Cells {
		cells = append(cells, row...)
	}
	margin := func(c card.Cell) float64 {
		d := c.Mean - p.PunchThreshold
		if d < 0 {
			return -d
		}
		return d
	}
	sort.SliceStable(cells, func(a, b int) bool { return margin(cells[a]) < margin(cells[b]) })
	if weakest > len(cells) {
		weakest = len(cells)
	}

	fmt.Fprintf(w, "\nWeakest %d cells:\n", weakest)
	fmt.Fprintf(w, "%-8s %8s %8s %6s\n", "Cell", "Mean", "Margin", "Symbol")
	for _, c := range cells[:weakest] {
		fmt.Fprintf(w, "%-8s %8.3f %8.3f %6s\n", fmt.Sprintf("%d,%d", c.Row, c.Col), c.Mean, margin(c), c.Symbol)
	}
}
