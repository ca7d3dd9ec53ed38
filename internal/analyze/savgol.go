package analyze

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SavitzkyGolay smooths a series with a least-squares polynomial filter,
// the same smoothing the polarity-by-year curve uses. Interior points use
// the centered convolution; the first and last half-windows are evaluated
// from polynomials fitted to the edge windows.
//
// The window is shrunk (keeping it odd) when the series is shorter than
// the requested window. A series too short to fit the polynomial at all
// is returned unchanged.
func SavitzkyGolay(y []float64, window, order int) ([]float64, error) {
	if window < 3 || window%2 == 0 {
		return nil, fmt.Errorf("window must be odd and >= 3, got %d", window)
	}
	if order < 1 {
		return nil, fmt.Errorf("order must be >= 1, got %d", order)
	}
	if order >= window {
		return nil, fmt.Errorf("order %d must be smaller than window %d", order, window)
	}

	n := len(y)
	if window > n {
		window = n
		if window%2 == 0 {
			window--
		}
	}
	if window < order+2 {
		out := make([]float64, n)
		copy(out, y)
		return out, nil
	}

	half := window / 2

	// Design matrix over offsets -half..half.
	a := mat.NewDense(window, order+1, nil)
	for row := 0; row < window; row++ {
		t := float64(row - half)
		v := 1.0
		for col := 0; col <= order; col++ {
			a.Set(row, col, v)
			v *= t
		}
	}

	// pinv = (AᵀA)⁻¹Aᵀ maps a window of samples to polynomial coefficients.
	var ata, inv, pinv mat.Dense
	ata.Mul(a.T(), a)
	if err := inv.Inverse(&ata); err != nil {
		return nil, fmt.Errorf("singular design matrix: %w", err)
	}
	pinv.Mul(&inv, a.T())

	out := make([]float64, n)

	// Interior: the smoothed value is the fitted polynomial at t=0, i.e.
	// the first coefficient row applied to the window.
	coeffs := mat.Row(nil, 0, &pinv)
	for i := half; i < n-half; i++ {
		var sum float64
		for j, c := range coeffs {
			sum += c * y[i-half+j]
		}
		out[i] = sum
	}

	// Edges: fit the first/last window once and evaluate off-center.
	evalEdge := func(windowStart int, t float64) float64 {
		var sum float64
		for col := 0; col <= order; col++ {
			var c float64
			for j := 0; j < window; j++ {
				c += pinv.At(col, j) * y[windowStart+j]
			}
			sum += c * pow(t, col)
		}
		return sum
	}

	for i := 0; i < half; i++ {
		out[i] = evalEdge(0, float64(i-half))
	}
	for i := n - half; i < n; i++ {
		out[i] = evalEdge(n-window, float64(i-(n-1-half)))
	}

	return out, nil
}

func pow(t float64, k int) float64 {
	v := 1.0
	for ; k > 0; k-- {
		v *= t
	}
	return v
}
