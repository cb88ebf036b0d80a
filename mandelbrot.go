package fractalpad

// Mandelbrot returns the escape iteration of c = cr + ci·i under the
// iteration z ← z² + c starting at z = 0, or maxIter when the point does
// not escape within the budget (treated as inside the set).
//
// The magnitude test compares |z|² against 4.0, avoiding the square root,
// and the state is kept as separate real/imaginary scalars so the inner
// loop allocates nothing. The function is pure and deterministic, safe to
// call from any number of goroutines at once.
func Mandelbrot(cr, ci float64, maxIter int) int {
	var zr, zi float64
	for i := 0; i < maxIter; i++ {
		zr2 := zr * zr
		zi2 := zi * zi
		if zr2+zi2 > 4.0 {
			return i
		}
		zr, zi = zr2-zi2+cr, 2*zr*zi+ci
	}
	return maxIter
}
