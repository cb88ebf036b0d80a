// Package life implements the Conway's Game of Life companion program:
// a toroidal cellular automaton whose logical cells are drawn as pixel
// blocks into the shared indexed bitmap, with the original device's
// speed buttons and periodic reseeding.
package life

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/colonwq/fractalpad"
)

// Simulation defaults from the original device program.
const (
	// DefaultCellSize is the pixel edge length of one logical cell.
	DefaultCellSize = 4

	// DefaultDensity is the initial fraction of live cells.
	DefaultDensity = 0.25

	// DefaultReseedInterval is the generation count after which the grid
	// reinitializes with a fresh color.
	DefaultReseedInterval = 150

	// MinDelay and MaxDelay bound the simulation speed.
	MinDelay = 50 * time.Millisecond
	MaxDelay = 1 * time.Second

	// DelayStep is the speed change per button press.
	DelayStep = 50 * time.Millisecond

	// DefaultDelay is the initial generation delay.
	DefaultDelay = 200 * time.Millisecond
)

// Grid is a toroidal Game of Life board. Cells on an edge neighbor the
// cells on the opposite edge.
type Grid struct {
	width  int
	height int
	cells  []uint8
}

// NewGrid creates an empty width×height grid.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("life: invalid grid dimensions %dx%d", width, height)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]uint8, width*height),
	}, nil
}

// Width returns the logical grid width.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the logical grid height.
func (g *Grid) Height() int {
	return g.height
}

// Alive reports whether the cell at (x, y) is live.
func (g *Grid) Alive(x, y int) bool {
	return g.cells[y*g.width+x] == 1
}

// Set marks the cell at (x, y) live or dead.
func (g *Grid) Set(x, y int, alive bool) {
	var v uint8
	if alive {
		v = 1
	}
	g.cells[y*g.width+x] = v
}

// Population returns the number of live cells.
func (g *Grid) Population() int {
	n := 0
	for _, c := range g.cells {
		n += int(c)
	}
	return n
}

// Seed randomizes the grid, making each cell live with probability
// density. If nothing came up live, one random cell is forced live so
// the board never starts completely dead.
func (g *Grid) Seed(rnd *rand.Rand, density float64) {
	live := 0
	for i := range g.cells {
		if rnd.Float64() < density {
			g.cells[i] = 1
			live++
		} else {
			g.cells[i] = 0
		}
	}
	if live == 0 {
		g.cells[rnd.Intn(len(g.cells))] = 1
	}
}

// liveNeighbors counts the live cells in the 3×3 neighborhood of (x, y),
// excluding the cell itself, with toroidal wraparound.
func (g *Grid) liveNeighbors(x, y int) int {
	count := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx := (x + dx + g.width) % g.width
			ny := (y + dy + g.height) % g.height
			count += int(g.cells[ny*g.width+nx])
		}
	}
	return count
}

// Step computes the next generation into a fresh grid. All updates read
// the current generation simultaneously, so the receiver is never
// mutated in place.
func (g *Grid) Step() *Grid {
	next := &Grid{
		width:  g.width,
		height: g.height,
		cells:  make([]uint8, len(g.cells)),
	}
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			n := g.liveNeighbors(x, y)
			if g.Alive(x, y) {
				if n == 2 || n == 3 {
					next.cells[y*g.width+x] = 1
				}
			} else if n == 3 {
				next.cells[y*g.width+x] = 1
			}
		}
	}
	return next
}

// Draw renders the grid into dst, each logical cell as a cellSize×
// cellSize block of palette index 1 (live) or 0 (dead).
func (g *Grid) Draw(dst *fractalpad.Bitmap, cellSize int) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			v := g.cells[y*g.width+x]
			px := x * cellSize
			py := y * cellSize
			for dy := 0; dy < cellSize; dy++ {
				for dx := 0; dx < cellSize; dx++ {
					dst.Set(px+dx, py+dy, v)
				}
			}
		}
	}
}
