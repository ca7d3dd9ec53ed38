package model

import "time"

// Report is the complete output of the analyze stage.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Books       int       `json:"books"` // scored books inside the study window

	YearHistogram []YearBin    `json:"year_histogram"`
	YearlyMeans   []YearlyMean `json:"yearly_means"`
	DecadeMeans   []DecadeMean `json:"decade_means"`

	Periods []PeriodSummary `json:"periods"`

	ANOVA  *ANOVAResult  `json:"anova,omitempty"`
	TTests []TTestResult `json:"t_tests,omitempty"`

	Summary *NarrativeSummary `json:"summary,omitempty"` // optional, never affects the statistics
}

// YearBin is one bar of the publication-count histogram.
type YearBin struct {
	Year  int `json:"year"` // lower edge of the bin
	Count int `json:"count"`
}

// YearlyMean is the mean polarity for a single publication year.
type YearlyMean struct {
	Year     int     `json:"year"`
	Mean     float64 `json:"mean"`
	Smoothed float64 `json:"smoothed"`
	Count    int     `json:"count"`
}

// DecadeMean is the mean polarity across a decade.
type DecadeMean struct {
	Decade int     `json:"decade"`
	Mean   float64 `json:"mean"`
	Count  int     `json:"count"`
}

// PeriodSummary describes one of the Pre-War/War/Post-War groups.
type PeriodSummary struct {
	Name         string  `json:"name"`
	Books        int     `json:"books"`
	Mean         float64 `json:"mean"`
	WeightedMean float64 `json:"weighted_mean"` // weights 1/(1+|year-center|)
	Variance     float64 `json:"variance"`
	CenterYear   int     `json:"center_year"`
}

// ANOVAResult is a one-way ANOVA across the period groups.
type ANOVAResult struct {
	F      float64 `json:"f"`
	PValue float64 `json:"p_value"`
	DFB    int     `json:"df_between"`
	DFW    int     `json:"df_within"`
	Groups int     `json:"groups"`
}

// TTestResult is a Welch two-sample t-test between two periods.
type TTestResult struct {
	A      string  `json:"a"`
	B      string  `json:"b"`
	T      float64 `json:"t"`
	DF     float64 `json:"df"` // Welch-Satterthwaite, fractional
	PValue float64 `json:"p_value"`
}

// NarrativeSummary is the optional LLM-generated prose restatement of the
// report. It is generated after the statistics and can never change them.
type NarrativeSummary struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Text     string `json:"text"`
}
