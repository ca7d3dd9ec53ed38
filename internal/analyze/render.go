package analyze

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ppiankov/gutensent/internal/model"
)

// Render writes the report as terminal tables.
func Render(w io.Writer, report *model.Report) {
	fmt.Fprintf(w, "Scored books in study window: %d\n\n", report.Books)

	periods := newTable(w, "Period", "Books", "Center", "Mean", "Weighted mean", "Variance")
	for _, p := range report.Periods {
		periods.AppendRow(table.Row{
			p.Name,
			p.Books,
			p.CenterYear,
			fmt.Sprintf("%.4f", p.Mean),
			fmt.Sprintf("%.4f", p.WeightedMean),
			fmt.Sprintf("%.4f", p.Variance),
		})
	}
	periods.Render()
	fmt.Fprintln(w)

	if report.ANOVA != nil {
		anova := newTable(w, "Test", "F", "df", "p-value")
		anova.AppendRow(table.Row{
			"One-way ANOVA",
			fmt.Sprintf("%.4f", report.ANOVA.F),
			fmt.Sprintf("(%d, %d)", report.ANOVA.DFB, report.ANOVA.DFW),
			formatP(report.ANOVA.PValue),
		})
		anova.Render()
		fmt.Fprintln(w)
	}

	if len(report.TTests) > 0 {
		ttests := newTable(w, "Comparison", "t", "df", "p-value")
		for _, tt := range report.TTests {
			ttests.AppendRow(table.Row{
				fmt.Sprintf("%s vs %s", tt.A, tt.B),
				fmt.Sprintf("%.4f", tt.T),
				fmt.Sprintf("%.1f", tt.DF),
				formatP(tt.PValue),
			})
		}
		ttests.Render()
		fmt.Fprintln(w)
	}

	decades := newTable(w, "Decade", "Books", "Mean polarity")
	for _, d := range report.DecadeMeans {
		decades.AppendRow(table.Row{
			fmt.Sprintf("%ds", d.Decade),
			d.Count,
			fmt.Sprintf("%.4f", d.Mean),
		})
	}
	decades.Render()

	if report.Summary != nil {
		fmt.Fprintf(w, "\nSummary (%s/%s):\n%s\n", report.Summary.Provider, report.Summary.Model, report.Summary.Text)
	}
}

// WriteJSON saves the report next to the exported dataset.
func WriteJSON(path string, report *model.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func newTable(w io.Writer, headers ...string) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	configs := make([]table.ColumnConfig, 0, len(headers))
	for i, h := range headers {
		header[i] = h
		align := text.AlignRight
		if i == 0 {
			align = text.AlignLeft
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)
	return tw
}

func formatP(p float64) string {
	if p < 0.0001 {
		return "<0.0001"
	}
	return fmt.Sprintf("%.4f", p)
}
