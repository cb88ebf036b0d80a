package life

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/colonwq/fractalpad"
)

// SimConfig holds the simulation's tunable constants. Zero-valued fields
// take their defaults.
type SimConfig struct {
	// DisplayWidth, DisplayHeight are the output dimensions in pixels.
	DisplayWidth, DisplayHeight int

	// CellSize is the pixel edge length of a logical cell; the logical
	// grid is the display divided by it. Default DefaultCellSize.
	CellSize int

	// Density is the live fraction used for (re)seeding. Default
	// DefaultDensity.
	Density float64

	// ReseedInterval is the generation count between reinitializations.
	// Default DefaultReseedInterval.
	ReseedInterval int

	// Rand is the random source for seeding and colors. Nil uses a
	// time-seeded source.
	Rand *rand.Rand
}

// Sim runs the Game of Life against an indexed bitmap, owning the grid,
// the two-entry palette, the generation counter, and the speed setting.
type Sim struct {
	cfg      SimConfig
	grid     *Grid
	bmp      *fractalpad.Bitmap
	pal      fractalpad.Palette
	rnd      *rand.Rand
	delay    time.Duration
	gen      int
	reseeded bool
}

// NewSim creates a simulation, seeds the grid, and draws the first
// frame.
func NewSim(cfg SimConfig) (*Sim, error) {
	if cfg.DisplayWidth <= 0 || cfg.DisplayHeight <= 0 {
		return nil, fmt.Errorf("life: invalid display dimensions %dx%d",
			cfg.DisplayWidth, cfg.DisplayHeight)
	}
	if cfg.CellSize <= 0 {
		cfg.CellSize = DefaultCellSize
	}
	if cfg.Density <= 0 {
		cfg.Density = DefaultDensity
	}
	if cfg.ReseedInterval <= 0 {
		cfg.ReseedInterval = DefaultReseedInterval
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	grid, err := NewGrid(cfg.DisplayWidth/cfg.CellSize, cfg.DisplayHeight/cfg.CellSize)
	if err != nil {
		return nil, err
	}
	bmp, err := fractalpad.NewBitmap(cfg.DisplayWidth, cfg.DisplayHeight)
	if err != nil {
		return nil, err
	}

	s := &Sim{
		cfg:   cfg,
		grid:  grid,
		bmp:   bmp,
		rnd:   cfg.Rand,
		delay: DefaultDelay,
	}
	s.reseed()
	s.grid.Draw(s.bmp, s.cfg.CellSize)
	return s, nil
}

// Bitmap returns the rendered frame buffer.
func (s *Sim) Bitmap() *fractalpad.Bitmap {
	return s.bmp
}

// Palette returns the current two-entry palette. It changes on every
// reseed, so presentation layers must re-read it after Tick reports a
// reseed.
func (s *Sim) Palette() fractalpad.Palette {
	return s.pal
}

// Generation returns the generation counter since the last reseed.
func (s *Sim) Generation() int {
	return s.gen
}

// Delay returns the current inter-generation delay.
func (s *Sim) Delay() time.Duration {
	return s.delay
}

// SpeedUp decreases the delay by one step, bounded by MinDelay.
func (s *Sim) SpeedUp() {
	s.delay -= DelayStep
	if s.delay < MinDelay {
		s.delay = MinDelay
	}
}

// SlowDown increases the delay by one step, bounded by MaxDelay.
func (s *Sim) SlowDown() {
	s.delay += DelayStep
	if s.delay > MaxDelay {
		s.delay = MaxDelay
	}
}

// Tick advances one generation and redraws the frame. It reports whether
// the grid was reseeded, in which case the palette changed too.
func (s *Sim) Tick() (reseeded bool) {
	s.grid = s.grid.Step()
	s.gen++
	if s.gen >= s.cfg.ReseedInterval {
		s.reseed()
		reseeded = true
	}
	s.grid.Draw(s.bmp, s.cfg.CellSize)
	return reseeded
}

// reseed reinitializes the grid with a fresh random pattern and a fresh
// live-cell color, and resets the generation counter.
func (s *Sim) reseed() {
	s.pal = fractalpad.LifePalette(fractalpad.RandomBright(s.rnd))
	s.grid.Seed(s.rnd, s.cfg.Density)
	s.gen = 0
	fractalpad.Logger().Info("life grid reseeded",
		"cells", s.grid.Width()*s.grid.Height(),
		"population", s.grid.Population())
}
