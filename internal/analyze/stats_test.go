package analyze

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestWelchTTest(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{2, 3, 4, 5, 6}

	result, err := WelchTTest(a, b)
	if err != nil {
		t.Fatalf("WelchTTest() error = %v", err)
	}

	// Equal variances and sizes: t = -1, df = 8.
	if !almostEqual(result.T, -1.0, 1e-9) {
		t.Errorf("T = %v, want -1", result.T)
	}
	if !almostEqual(result.DF, 8.0, 1e-9) {
		t.Errorf("DF = %v, want 8", result.DF)
	}
	if !almostEqual(result.PValue, 0.3466, 1e-3) {
		t.Errorf("PValue = %v, want ~0.3466", result.PValue)
	}
}

func TestWelchTTest_Symmetry(t *testing.T) {
	a := []float64{0.1, 0.3, 0.2, 0.5}
	b := []float64{-0.2, -0.1, 0.0, -0.3, -0.4}

	ab, err := WelchTTest(a, b)
	if err != nil {
		t.Fatalf("WelchTTest(a, b) error = %v", err)
	}
	ba, err := WelchTTest(b, a)
	if err != nil {
		t.Fatalf("WelchTTest(b, a) error = %v", err)
	}

	if !almostEqual(ab.T, -ba.T, 1e-12) {
		t.Errorf("t statistics not symmetric: %v vs %v", ab.T, ba.T)
	}
	if !almostEqual(ab.PValue, ba.PValue, 1e-12) {
		t.Errorf("p-values not symmetric: %v vs %v", ab.PValue, ba.PValue)
	}
	if ab.PValue > 0.05 {
		t.Errorf("PValue = %v, expected clearly separated samples to be significant", ab.PValue)
	}
}

func TestWelchTTest_TooFewSamples(t *testing.T) {
	if _, err := WelchTTest([]float64{1}, []float64{2, 3}); !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("error = %v, want ErrTooFewSamples", err)
	}
	if _, err := WelchTTest([]float64{1, 1}, []float64{2, 2}); !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("zero variance error = %v, want ErrTooFewSamples", err)
	}
}

func TestOneWayANOVA(t *testing.T) {
	result, err := OneWayANOVA(
		[]float64{1, 2, 3},
		[]float64{2, 3, 4},
		[]float64{3, 4, 5},
	)
	if err != nil {
		t.Fatalf("OneWayANOVA() error = %v", err)
	}

	if !almostEqual(result.F, 3.0, 1e-9) {
		t.Errorf("F = %v, want 3", result.F)
	}
	if result.DFB != 2 || result.DFW != 6 {
		t.Errorf("df = (%d, %d), want (2, 6)", result.DFB, result.DFW)
	}
	if result.Groups != 3 {
		t.Errorf("Groups = %d, want 3", result.Groups)
	}
	if !almostEqual(result.PValue, 0.125, 1e-3) {
		t.Errorf("PValue = %v, want ~0.125", result.PValue)
	}
}

func TestOneWayANOVA_DropsEmptyGroups(t *testing.T) {
	result, err := OneWayANOVA(
		[]float64{1, 2, 3},
		nil,
		[]float64{4, 5, 6},
	)
	if err != nil {
		t.Fatalf("OneWayANOVA() error = %v", err)
	}
	if result.Groups != 2 {
		t.Errorf("Groups = %d, want 2", result.Groups)
	}
}

func TestOneWayANOVA_TooFewGroups(t *testing.T) {
	if _, err := OneWayANOVA([]float64{1, 2, 3}); !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("error = %v, want ErrTooFewSamples", err)
	}
	if _, err := OneWayANOVA([]float64{1, 2}, nil, nil); !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("error = %v, want ErrTooFewSamples", err)
	}
}

func TestWeightedMean(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		weights []float64
		want    float64
	}{
		{"uniform weights", []float64{1, 2, 3}, []float64{1, 1, 1}, 2},
		{"skewed weights", []float64{0, 10}, []float64{3, 1}, 2.5},
		{"zero weights", []float64{5, 5}, []float64{0, 0}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeightedMean(tt.values, tt.weights); !almostEqual(got, tt.want, 1e-12) {
				t.Errorf("WeightedMean() = %v, want %v", got, tt.want)
			}
		})
	}
}
