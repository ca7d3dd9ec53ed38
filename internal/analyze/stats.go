package analyze

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrTooFewSamples is returned when a test needs more data than a group has.
var ErrTooFewSamples = errors.New("too few samples")

// WelchT holds a Welch (unequal variance) two-sample t-test result.
type WelchT struct {
	T      float64
	DF     float64 // Welch-Satterthwaite degrees of freedom
	PValue float64 // two-sided
}

// WelchTTest runs a two-sided Welch t-test. Both samples need at least
// two observations.
func WelchTTest(a, b []float64) (WelchT, error) {
	if len(a) < 2 || len(b) < 2 {
		return WelchT{}, ErrTooFewSamples
	}

	n1, n2 := float64(len(a)), float64(len(b))
	m1, m2 := stat.Mean(a, nil), stat.Mean(b, nil)
	v1, v2 := stat.Variance(a, nil), stat.Variance(b, nil)

	se1, se2 := v1/n1, v2/n2
	se := se1 + se2
	if se == 0 {
		return WelchT{}, ErrTooFewSamples
	}

	t := (m1 - m2) / math.Sqrt(se)
	df := se * se / (se1*se1/(n1-1) + se2*se2/(n2-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.Survival(math.Abs(t))

	return WelchT{T: t, DF: df, PValue: p}, nil
}

// ANOVA holds a one-way ANOVA result.
type ANOVA struct {
	F      float64
	PValue float64
	DFB    int // between groups
	DFW    int // within groups
	Groups int
}

// OneWayANOVA tests whether the group means differ. Empty groups are
// dropped first; at least two non-empty groups and one within-group
// degree of freedom are required.
func OneWayANOVA(groups ...[]float64) (ANOVA, error) {
	var kept [][]float64
	total := 0
	for _, g := range groups {
		if len(g) > 0 {
			kept = append(kept, g)
			total += len(g)
		}
	}

	k := len(kept)
	if k < 2 || total-k < 1 {
		return ANOVA{}, ErrTooFewSamples
	}

	var grandSum float64
	for _, g := range kept {
		for _, x := range g {
			grandSum += x
		}
	}
	grandMean := grandSum / float64(total)

	var ssb, ssw float64
	for _, g := range kept {
		mean := stat.Mean(g, nil)
		ssb += float64(len(g)) * (mean - grandMean) * (mean - grandMean)
		for _, x := range g {
			ssw += (x - mean) * (x - mean)
		}
	}

	dfb := k - 1
	dfw := total - k
	if ssw == 0 {
		return ANOVA{}, ErrTooFewSamples
	}

	f := (ssb / float64(dfb)) / (ssw / float64(dfw))
	dist := distuv.F{D1: float64(dfb), D2: float64(dfw)}
	p := dist.Survival(f)

	return ANOVA{F: f, PValue: p, DFB: dfb, DFW: dfw, Groups: k}, nil
}

// WeightedMean computes a weighted average; weights must sum to a
// positive value.
func WeightedMean(values, weights []float64) float64 {
	var sum, wsum float64
	for i, v := range values {
		sum += v * weights[i]
		wsum += weights[i]
	}
	if wsum == 0 {
		return 0
	}
	return sum / wsum
}
