// Command fractalpad replays a pan/zoom session over the Mandelbrot set
// and saves the resulting frames as PNG files.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/colonwq/fractalpad"
	"github.com/colonwq/fractalpad/backend"
	"github.com/colonwq/fractalpad/input"

	// Enable GPU evaluation when a device is available.
	_ "github.com/colonwq/fractalpad/gpu"
)

func main() {
	var (
		width   = flag.Int("width", backend.DefaultViewWidth, "view width")
		height  = flag.Int("height", backend.DefaultViewHeight, "view height")
		maxIter = flag.Int("maxiter", 30, "iteration budget per pixel")
		zooms   = flag.Int("zoom", 3, "zoom-in steps to replay")
		pans    = flag.Int("pan", 12, "pan-right steps to replay")
		scale   = flag.Int("scale", 3, "output upscale factor")
		outDir  = flag.String("out", ".", "output directory")
		every   = flag.Int("every", 0, "save a frame every N ticks (0: final frame only)")
		verbose = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if *verbose {
		fractalpad.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	cfg := fractalpad.DefaultConfig(*width, *height)
	cfg.MaxIter = *maxIter
	vp, err := fractalpad.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create viewport: %v", err)
	}

	surface := backend.NewImageSurface(*width, *height)
	surface.SetScale(*scale)
	if err := surface.Init(); err != nil {
		log.Fatalf("Failed to init surface: %v", err)
	}
	defer surface.Close()

	script := buildScript(*zooms, *pans)
	loop, err := fractalpad.NewLoop(vp, script, surface)
	if err != nil {
		log.Fatalf("Failed to create loop: %v", err)
	}
	loop.TickDelay = 0

	frame := 0
	for tick := 0; !script.Done(); tick++ {
		if err := loop.Tick(); err != nil {
			log.Fatalf("Tick %d failed: %v", tick, err)
		}
		if *every > 0 && tick%*every == 0 {
			path := filepath.Join(*outDir, fmt.Sprintf("frame%04d.png", frame))
			if err := surface.SavePNG(path); err != nil {
				log.Fatalf("Failed to save %s: %v", path, err)
			}
			frame++
		}
	}

	final := filepath.Join(*outDir, "fractal.png")
	if err := surface.SavePNG(final); err != nil {
		log.Fatalf("Failed to save %s: %v", final, err)
	}
	re, im := vp.Center()
	log.Printf("Saved %s (center %.6f%+.6fi, generation %d)\n", final, re, im, vp.Generation())

	fractalpad.CloseAccelerator()
}

// buildScript produces the replayed input: zoom in, then pan right along
// the seahorse valley, then back out one step.
func buildScript(zooms, pans int) *input.Script {
	var steps []input.Sample
	for i := 0; i < zooms; i++ {
		steps = append(steps, input.Press(input.ZoomIn))
	}
	for i := 0; i < pans; i++ {
		steps = append(steps, input.Move(1, 0))
	}
	steps = append(steps, input.Press(input.ZoomOut))
	return input.NewScript(steps...)
}
