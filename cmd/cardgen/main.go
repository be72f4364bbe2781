// Command cardgen renders a synthetic punch card photograph from a text
// program, for exercising punchcard without a camera.
//
//	cardgen [flags] pattern.txt out.png
//	cardgen -random 7 [flags] out.png
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/disintegration/imaging"

	"punchcard/internal/card"
	"punchcard/internal/cardgen"
	"punchcard/internal/fsutil"
	"punchcard/internal/version"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	rows := flag.Int("rows", 8, "punch rows")
	cols := flag.Int("cols", 10, "punch columns")
	cell := flag.Int("cell", 24, "cell width in pixels; height is 5/6 of it")
	inset := flag.Float64("inset", 0.2, "unpunched fraction on each side of a hole")
	border := flag.Int("border", 12, "backdrop pixels around the card")
	polarity := flag.String("polarity", "dark", "dark: holes show a dark backdrop; bright: holes are lit from behind")
	gray := flag.Bool("gray", false, "write pure black and white grayscale")
	random := flag.Int64("random", 0, "ignore the pattern file and punch randomly with this seed")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: cardgen [flags] pattern.txt out.png")
		fmt.Fprintln(os.Stderr, "       cardgen -random seed [flags] out.png")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("cardgen"))
		return
	}

	pol, err := card.ParsePolarity(*polarity)
	if err != nil {
		log.Fatal(err)
	}
	p := card.DefaultParams().WithGrid(*rows, *cols).WithPolarity(pol)
	if err := p.Validate(); err != nil {
		log.Fatal(err)
	}

	var prog *card.Program
	var out string
	switch {
	case *random != 0 && flag.NArg() == 1:
		prog = cardgen.RandomProgram(p.Rows, p.Cols, *random)
		out = flag.Arg(0)
	case *random == 0 && flag.NArg() == 2:
		prog, err = readProgram(fsutil.OSFileSystem{}, flag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
		out = flag.Arg(1)
	default:
		flag.Usage()
		os.Exit(2)
	}

	opts := cardgen.DefaultOptions(pol)
	opts.CellWidth = *cell
	opts.CellHeight = *cell * 5 / 6
	opts.HoleInset = *inset
	opts.Border = *border
	if *gray {
		opts = opts.WithGray(pol)
	}

	img, err := cardgen.Render(prog, p, opts)
	if err != nil {
		log.Fatal(err)
	}
	if err := imaging.Save(img, out); err != nil {
		log.Fatalf("save %s: %v", out, err)
	}
	b := img.Bounds()
	fmt.Printf("wrote %s (%dx%d, %d of %d positions punched)\n", out, b.Dx(), b.Dy(), prog.Count(), p.Rows*p.Cols)
}

func readProgram(fs fsutil.FileSystem, path string) (*card.Program, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	prog, err := card.ParseProgram(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}
