package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/gogpu/mandelbrot"
	"github.com/gogpu/mandelbrot/viewer"
)

// cliOptions holds the flags that are not part of viewer.Config.
type cliOptions struct {
	verbose bool
}

func parseFlags(args []string, stderr io.Writer) (viewer.Config, cliOptions, error) {
	def := viewer.DefaultConfig()
	fs := flag.NewFlagSet("mandelview", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		width   = fs.Int("width", def.Width, "window width")
		height  = fs.Int("height", def.Height, "window height")
		iter    = fs.Int("iter", def.MaxIterations, "escape-time iteration limit")
		cpu     = fs.Bool("cpu", false, "start on the CPU renderer")
		workers = fs.Int("workers", 0, "CPU renderer goroutines (0 = GOMAXPROCS)")
		overlay = fs.Bool("overlay", def.Overlay, "draw the status line")
		region  = fs.String("region", "", "fixed region: "+strings.Join(mandelbrot.ViewportNames(), ", "))
		verbose = fs.Bool("v", false, "log per-frame details")
	)
	if err := fs.Parse(args); err != nil {
		return viewer.Config{}, cliOptions{}, err
	}

	cfg := def.
		WithSize(*width, *height).
		WithMaxIterations(*iter).
		WithGPU(!*cpu).
		WithWorkers(*workers).
		WithOverlay(*overlay)
	if *region != "" {
		v, ok := mandelbrot.LookupViewport(*region)
		if !ok {
			return viewer.Config{}, cliOptions{}, fmt.Errorf("unknown region %q", *region)
		}
		cfg = cfg.WithViewport(v)
	}
	if err := cfg.Validate(); err != nil {
		return viewer.Config{}, cliOptions{}, err
	}
	return cfg, cliOptions{verbose: *verbose}, nil
}
