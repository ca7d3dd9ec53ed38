// Package analyze runs the descriptive and inferential statistics over
// the scored dataset: publication histograms, polarity-by-year curves,
// and the Pre-War/War/Post-War comparison the study is about.
package analyze

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/ppiankov/gutensent/internal/model"
)

// Period names.
const (
	PeriodPreWar  = "Pre-War"
	PeriodWar     = "War"
	PeriodPostWar = "Post-War"
)

// Analyzer computes the report for a scored dataset.
type Analyzer struct {
	cfg model.AnalysisConfig
	now func() time.Time
}

// NewAnalyzer creates an analyzer with the given study parameters.
func NewAnalyzer(cfg model.AnalysisConfig) *Analyzer {
	return &Analyzer{cfg: cfg, now: time.Now}
}

// Run builds the full report from scored books. Books outside the study
// window (centered on the war start, half-width equal to the distance
// from the war start to today) are dropped first.
func (a *Analyzer) Run(books []*model.Book) (*model.Report, error) {
	window := a.studyWindow()

	type point struct {
		year     int
		polarity float64
	}
	var points []point
	for _, b := range books {
		if !b.HasYear() || b.Polarity == nil {
			continue
		}
		year := *b.Year
		if abs(year-a.cfg.WarStart) > window {
			continue
		}
		points = append(points, point{year: year, polarity: *b.Polarity})
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("no scored books inside the study window")
	}

	report := &model.Report{
		GeneratedAt: a.now().UTC(),
		Books:       len(points),
	}

	// Histogram and per-year aggregation.
	yearCounts := make(map[int]int)
	yearPolarities := make(map[int][]float64)
	for _, p := range points {
		yearCounts[p.year]++
		yearPolarities[p.year] = append(yearPolarities[p.year], p.polarity)
	}

	report.YearHistogram = binYears(yearCounts, a.cfg.BinWidth)
	report.DecadeMeans = decadeMeans(yearPolarities)

	years := make([]int, 0, len(yearPolarities))
	for year := range yearPolarities {
		years = append(years, year)
	}
	sort.Ints(years)

	means := make([]float64, len(years))
	for i, year := range years {
		means[i] = stat.Mean(yearPolarities[year], nil)
	}

	smoothed, err := SavitzkyGolay(means, a.cfg.SmoothingWindow, a.cfg.SmoothingOrder)
	if err != nil {
		return nil, fmt.Errorf("smooth polarity curve: %w", err)
	}

	report.YearlyMeans = make([]model.YearlyMean, len(years))
	for i, year := range years {
		report.YearlyMeans[i] = model.YearlyMean{
			Year:     year,
			Mean:     means[i],
			Smoothed: smoothed[i],
			Count:    yearCounts[year],
		}
	}

	// Period grouping with proximity weights.
	groups := map[string][]float64{}
	weights := map[string][]float64{}
	for _, p := range points {
		name, center := a.period(p.year)
		weight := 1.0 / (1.0 + float64(abs(p.year-center)))
		groups[name] = append(groups[name], p.polarity)
		weights[name] = append(weights[name], weight)
	}

	for _, name := range []string{PeriodPreWar, PeriodWar, PeriodPostWar} {
		values := groups[name]
		summary := model.PeriodSummary{
			Name:       name,
			Books:      len(values),
			CenterYear: a.periodCenter(name),
		}
		if len(values) > 0 {
			summary.Mean = stat.Mean(values, nil)
			summary.WeightedMean = WeightedMean(values, weights[name])
		}
		if len(values) > 1 {
			summary.Variance = stat.Variance(values, nil)
		}
		report.Periods = append(report.Periods, summary)
	}

	// Inference. Underpowered groups disable a test, never the report.
	if anova, err := OneWayANOVA(groups[PeriodPreWar], groups[PeriodWar], groups[PeriodPostWar]); err == nil {
		report.ANOVA = &model.ANOVAResult{
			F:      anova.F,
			PValue: anova.PValue,
			DFB:    anova.DFB,
			DFW:    anova.DFW,
			Groups: anova.Groups,
		}
	}

	pairs := [][2]string{
		{PeriodPreWar, PeriodWar},
		{PeriodWar, PeriodPostWar},
	}
	for _, pair := range pairs {
		welch, err := WelchTTest(groups[pair[0]], groups[pair[1]])
		if err != nil {
			continue
		}
		report.TTests = append(report.TTests, model.TTestResult{
			A:      pair[0],
			B:      pair[1],
			T:      welch.T,
			DF:     welch.DF,
			PValue: welch.PValue,
		})
	}

	return report, nil
}

// studyWindow is the half-width of the year window around the war start.
func (a *Analyzer) studyWindow() int {
	return a.now().Year() - a.cfg.WarStart
}

func (a *Analyzer) period(year int) (string, int) {
	switch {
	case year < a.cfg.WarStart:
		return PeriodPreWar, a.cfg.WarStart - 1
	case year <= a.cfg.WarEnd:
		return PeriodWar, (a.cfg.WarStart + a.cfg.WarEnd) / 2
	default:
		return PeriodPostWar, a.cfg.WarEnd + 1
	}
}

func (a *Analyzer) periodCenter(name string) int {
	switch name {
	case PeriodPreWar:
		return a.cfg.WarStart - 1
	case PeriodWar:
		return (a.cfg.WarStart + a.cfg.WarEnd) / 2
	default:
		return a.cfg.WarEnd + 1
	}
}

func binYears(yearCounts map[int]int, binWidth int) []model.YearBin {
	if binWidth <= 0 {
		binWidth = 10
	}

	bins := make(map[int]int)
	for year, count := range yearCounts {
		bins[(year/binWidth)*binWidth] += count
	}

	edges := make([]int, 0, len(bins))
	for edge := range bins {
		edges = append(edges, edge)
	}
	sort.Ints(edges)

	out := make([]model.YearBin, len(edges))
	for i, edge := range edges {
		out[i] = model.YearBin{Year: edge, Count: bins[edge]}
	}
	return out
}

func decadeMeans(yearPolarities map[int][]float64) []model.DecadeMean {
	decades := make(map[int][]float64)
	for year, values := range yearPolarities {
		decade := (year / 10) * 10
		decades[decade] = append(decades[decade], values...)
	}

	keys := make([]int, 0, len(decades))
	for decade := range decades {
		keys = append(keys, decade)
	}
	sort.Ints(keys)

	out := make([]model.DecadeMean, len(keys))
	for i, decade := range keys {
		out[i] = model.DecadeMean{
			Decade: decade,
			Mean:   stat.Mean(decades[decade], nil),
			Count:  len(decades[decade]),
		}
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
