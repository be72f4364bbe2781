// Command punchcard reads the punch pattern from a photograph of a punch
// card and prints it as text: one line per row, '1' for a punched position
// and '-' for an unpunched one.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"punchcard/internal/card"
	"punchcard/internal/config"
	"punchcard/internal/diag"
	"punchcard/internal/fsutil"
	"punchcard/internal/raster"
	"punchcard/internal/version"
	"punchcard/internal/watch"
)

// defaultConfigPath is read when -config is not given.
var defaultConfigPath = config.DefaultPath

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath  string
	logDir      string
	polarity    string
	rows, cols  int
	auto        bool
	strict      bool
	verbose     bool
	showVersion bool
	printConfig bool
	saveConfig  bool
	watch       time.Duration
	image       string
}

func parseFlags(args []string, stderr io.Writer) (options, map[string]bool, error) {
	var o options
	fs := flag.NewFlagSet("punchcard", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "JSON decode config (see -print-config)")
	fs.StringVar(&o.logDir, "log", "", "write per-stage diagnostics to this directory")
	fs.StringVar(&o.polarity, "polarity", "", "which side of the threshold is a hole: dark or bright")
	fs.IntVar(&o.rows, "rows", 0, "punch rows (default 8)")
	fs.IntVar(&o.cols, "cols", 0, "punch columns (default 10)")
	fs.BoolVar(&o.auto, "auto", false, "estimate the binarization cutoff per image (Otsu)")
	fs.BoolVar(&o.strict, "strict", false, "fail instead of printing a blank card when no card is found")
	fs.BoolVar(&o.verbose, "v", false, "log crop, trim and cell statistics to stderr")
	fs.BoolVar(&o.showVersion, "version", false, "print version and exit")
	fs.BoolVar(&o.printConfig, "print-config", false, "print the effective config as JSON and exit")
	fs.BoolVar(&o.saveConfig, "save-config", false, "write the effective config to -config (or the per-user file) and exit")
	fs.DurationVar(&o.watch, "watch", 0, "poll the image at this interval and decode it again on change")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: punchcard [flags] image")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return o, nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if o.showVersion || o.printConfig || o.saveConfig {
		return o, set, nil
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return o, set, errors.New("expected exactly one image path")
	}
	o.image = fs.Arg(0)
	return o, set, nil
}

// configFile returns the config path in effect and whether it must exist.
// An explicit -config must exist unless it is about to be written.
func (o options) configFile() (string, bool) {
	if o.configPath != "" {
		return o.configPath, !o.saveConfig
	}
	return defaultConfigPath(), false
}

// params layers defaults, the config file and explicit flags, in that order.
func (o options) params(set map[string]bool) (card.Params, error) {
	p := card.DefaultParams()

	var f *config.File
	var err error
	path, required := o.configFile()
	if required {
		f, err = config.Load(path)
	} else {
		f, err = config.LoadOptional(fsutil.OSFileSystem{}, path)
	}
	if err != nil {
		return p, err
	}
	if p, err = f.Apply(p); err != nil {
		return p, err
	}

	if set["rows"] || set["cols"] {
		rows, cols := p.Rows, p.Cols
		if set["rows"] {
			rows = o.rows
		}
		if set["cols"] {
			cols = o.cols
		}
		p = p.WithGrid(rows, cols)
	}
	if set["polarity"] {
		pol, err := card.ParsePolarity(o.polarity)
		if err != nil {
			return p, err
		}
		p = p.WithPolarity(pol)
	}
	if set["auto"] {
		if o.auto {
			p = p.WithAutoThreshold(nil)
		} else {
			p.AutoThreshold = false
		}
	}
	if set["strict"] {
		p = p.WithStrictContent(o.strict)
	}
	return p, p.Validate()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "", log.LstdFlags)

	o, set, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "punchcard: %v\n", err)
		return 2
	}
	if o.showVersion {
		fmt.Fprintln(stdout, version.String("punchcard"))
		return 0
	}

	p, err := o.params(set)
	if err != nil {
		fmt.Fprintf(stderr, "punchcard: %v\n", err)
		return 2
	}
	if o.printConfig {
		data, err := config.FromParams(p).Marshal()
		if err != nil {
			fmt.Fprintf(stderr, "punchcard: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, string(data))
		return 0
	}
	if o.saveConfig {
		path, _ := o.configFile()
		if err := config.FromParams(p).Save(fsutil.OSFileSystem{}, path); err != nil {
			fmt.Fprintf(stderr, "punchcard: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "saved %s\n", path)
		return 0
	}

	if err := decodeOnce(o, p, stdout, logger); err != nil {
		fmt.Fprintf(stderr, "punchcard: %v\n", err)
		if o.watch == 0 {
			return 1
		}
	}
	if o.watch == 0 {
		return 0
	}

	w, err := watch.New(fsutil.OSFileSystem{}, o.image, o.watch)
	if err != nil {
		fmt.Fprintf(stderr, "punchcard: %v\n", err)
		return 1
	}
	logger.Printf("watching %s every %s", w.Path(), o.watch)
	err = w.Run(ctx, func() {
		fmt.Fprintln(stdout)
		if err := decodeOnce(o, p, stdout, logger); err != nil {
			fmt.Fprintf(stderr, "punchcard: %v\n", err)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "punchcard: %v\n", err)
		return 1
	}
	return 0
}

// decodeOnce decodes the image and prints the program. Diagnostics
// failures are logged but do not fail the decode.
func decodeOnce(o options, p card.Params, stdout io.Writer, logger *log.Logger) error {
	src, err := raster.Load(o.image)
	if err != nil {
		return err
	}

	var tap card.Tap
	var rec *diag.Recorder
	if o.logDir != "" {
		rec, err = diag.New(o.logDir)
		if err != nil {
			logger.Printf("diagnostics disabled: %v", err)
		} else {
			tap = rec
			if o.verbose {
				logger.Printf("diagnostics in %s (run %s)", rec.Dir(), rec.RunID())
			}
		}
	}

	res, err := card.Decode(src, p, tap)
	if rec != nil {
		if res != nil {
			for _, line := range res.Program.Lines() {
				rec.Logf("program %s", line)
			}
		}
		if cerr := rec.Close(); cerr != nil {
			logger.Printf("diagnostics incomplete: %v", cerr)
		}
	}
	if err != nil {
		return err
	}

	if o.verbose {
		report(logger, src, res, p)
	}
	fmt.Fprintln(stdout, res.Program)
	return nil
}

func report(logger *log.Logger, src raster.Source, res *card.Result, p card.Params) {
	logger.Printf("input %dx%d %s, cutoff %d, polarity %s", src.Width(), src.Height(), src.Mode, res.Cutoff, p.Polarity)
	if !res.ContentFound {
		logger.Printf("no card content above background threshold %.2f", p.BackgroundThreshold)
		return
	}
	logger.Printf("crop %s, trim %s", res.Content, res.Trim)
	s := card.Summarize(res.Cells, p)
	logger.Printf("%d punched, %d unpunched; cell means %.3f±%.3f in [%.3f, %.3f]",
		s.Punched, s.Unpunched, s.Mean, s.StdDev, s.Min, s.Max)
	logger.Printf("weakest cell %d,%d is %.3f from the punch threshold", s.WeakRow, s.WeakCol, s.Margin)
}
