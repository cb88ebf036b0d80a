package fractalpad

import (
	"testing"
)

func TestMandelbrot_KnownPoints(t *testing.T) {
	tests := []struct {
		name    string
		cr, ci  float64
		maxIter int
		want    int
	}{
		{"origin never escapes", 0, 0, 30, 30},
		{"main cardioid center", -0.5, 0, 30, 30},
		{"period-2 bulb", -1, 0, 30, 30},
		{"far outside escapes on first check", 3, 0, 30, 1},
		{"far imaginary escapes on first check", 0, 3, 30, 1},
		{"two escapes after squaring", 2, 0, 30, 2},
		{"half escapes after five", 0.5, 0, 30, 5},
		{"budget of one", 0, 0, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Mandelbrot(tt.cr, tt.ci, tt.maxIter)
			if got != tt.want {
				t.Errorf("Mandelbrot(%v, %v, %d) = %d, want %d",
					tt.cr, tt.ci, tt.maxIter, got, tt.want)
			}
		})
	}
}

func TestMandelbrot_Symmetry(t *testing.T) {
	// The set is symmetric about the real axis.
	points := []struct{ cr, ci float64 }{
		{-0.5, 0.3}, {0.1, 0.7}, {-1.2, 0.2}, {0.25, 0.5},
	}
	for _, p := range points {
		above := Mandelbrot(p.cr, p.ci, 50)
		below := Mandelbrot(p.cr, -p.ci, 50)
		if above != below {
			t.Errorf("Mandelbrot(%v, ±%v) asymmetric: %d vs %d", p.cr, p.ci, above, below)
		}
	}
}

func TestMandelbrot_BudgetBounds(t *testing.T) {
	for _, maxIter := range []int{1, 10, 30, 255} {
		got := Mandelbrot(0, 0, maxIter)
		if got != maxIter {
			t.Errorf("interior point with budget %d = %d, want %d", maxIter, got, maxIter)
		}
	}
}

func BenchmarkMandelbrot_Interior(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Mandelbrot(-0.5, 0, 30)
	}
}

func BenchmarkMandelbrot_Escaping(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Mandelbrot(0.3, 0.6, 30)
	}
}
