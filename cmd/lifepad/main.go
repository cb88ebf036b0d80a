// Command lifepad runs the Game of Life and saves the resulting frames
// as PNG files.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/colonwq/fractalpad"
	"github.com/colonwq/fractalpad/life"
)

func main() {
	var (
		width    = flag.Int("width", 160, "display width")
		height   = flag.Int("height", 128, "display height")
		cellSize = flag.Int("cell", life.DefaultCellSize, "cell edge length in pixels")
		gens     = flag.Int("gens", 300, "generations to run")
		seed     = flag.Int64("seed", 0, "random seed (0: time-based)")
		outDir   = flag.String("out", ".", "output directory")
		every    = flag.Int("every", 0, "save a frame every N generations (0: final frame only)")
		verbose  = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if *verbose {
		fractalpad.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	cfg := life.SimConfig{
		DisplayWidth:  *width,
		DisplayHeight: *height,
		CellSize:      *cellSize,
	}
	if *seed != 0 {
		cfg.Rand = rand.New(rand.NewSource(*seed))
	}
	sim, err := life.NewSim(cfg)
	if err != nil {
		log.Fatalf("Failed to create simulation: %v", err)
	}

	frame := 0
	for g := 0; g < *gens; g++ {
		sim.Tick()
		if *every > 0 && g%*every == 0 {
			path := filepath.Join(*outDir, fmt.Sprintf("life%04d.png", frame))
			if err := savePNG(sim, path); err != nil {
				log.Fatalf("Failed to save %s: %v", path, err)
			}
			frame++
		}
	}

	final := filepath.Join(*outDir, "life.png")
	if err := savePNG(sim, final); err != nil {
		log.Fatalf("Failed to save %s: %v", final, err)
	}
	log.Printf("Saved %s after %d generations\n", final, *gens)
}

func savePNG(sim *life.Sim, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bmp := sim.Bitmap()
	img := bmp.RGBA(sim.Palette(), bmp.Bounds())
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
