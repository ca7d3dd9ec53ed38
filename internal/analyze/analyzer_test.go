package analyze

import (
	"testing"
	"time"

	"github.com/ppiankov/gutensent/internal/model"
)

func scored(year int, polarity float64) *model.Book {
	return &model.Book{
		Kind:     "Text",
		Language: "en",
		Year:     &year,
		Polarity: &polarity,
	}
}

func testAnalyzer() *Analyzer {
	a := NewAnalyzer(model.AnalysisConfig{
		WarStart:        1914,
		WarEnd:          1918,
		BinWidth:        10,
		SmoothingWindow: 21,
		SmoothingOrder:  2,
	})
	a.now = func() time.Time {
		return time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	}
	return a
}

func TestAnalyzer_Run(t *testing.T) {
	var books []*model.Book
	// Three per period, distinct means.
	for _, y := range []int{1905, 1908, 1911} {
		books = append(books, scored(y, 0.4), scored(y, 0.5))
	}
	for _, y := range []int{1914, 1916, 1918} {
		books = append(books, scored(y, -0.2), scored(y, -0.1))
	}
	for _, y := range []int{1920, 1923, 1926} {
		books = append(books, scored(y, 0.1), scored(y, 0.2))
	}

	report, err := testAnalyzer().Run(books)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Books != 18 {
		t.Errorf("Books = %d, want 18", report.Books)
	}
	if len(report.Periods) != 3 {
		t.Fatalf("Periods = %d, want 3", len(report.Periods))
	}

	pre, war, post := report.Periods[0], report.Periods[1], report.Periods[2]
	if pre.Name != PeriodPreWar || war.Name != PeriodWar || post.Name != PeriodPostWar {
		t.Fatalf("period order = %s, %s, %s", pre.Name, war.Name, post.Name)
	}
	if pre.Books != 6 || war.Books != 6 || post.Books != 6 {
		t.Errorf("period sizes = %d, %d, %d, want 6 each", pre.Books, war.Books, post.Books)
	}
	if pre.CenterYear != 1913 || war.CenterYear != 1916 || post.CenterYear != 1919 {
		t.Errorf("centers = %d, %d, %d, want 1913, 1916, 1919", pre.CenterYear, war.CenterYear, post.CenterYear)
	}
	if !almostEqual(pre.Mean, 0.45, 1e-9) {
		t.Errorf("Pre-War mean = %v, want 0.45", pre.Mean)
	}
	if !almostEqual(war.Mean, -0.15, 1e-9) {
		t.Errorf("War mean = %v, want -0.15", war.Mean)
	}

	if report.ANOVA == nil {
		t.Fatal("ANOVA = nil, want result")
	}
	if report.ANOVA.Groups != 3 {
		t.Errorf("ANOVA.Groups = %d, want 3", report.ANOVA.Groups)
	}
	if report.ANOVA.PValue > 0.01 {
		t.Errorf("ANOVA.PValue = %v, want separated groups to be significant", report.ANOVA.PValue)
	}

	if len(report.TTests) != 2 {
		t.Fatalf("TTests = %d, want 2", len(report.TTests))
	}
	if report.TTests[0].A != PeriodPreWar || report.TTests[0].B != PeriodWar {
		t.Errorf("first comparison = %s vs %s", report.TTests[0].A, report.TTests[0].B)
	}
	if report.TTests[1].A != PeriodWar || report.TTests[1].B != PeriodPostWar {
		t.Errorf("second comparison = %s vs %s", report.TTests[1].A, report.TTests[1].B)
	}
	// Pre-War mean is higher, so t is positive.
	if report.TTests[0].T <= 0 {
		t.Errorf("TTests[0].T = %v, want > 0", report.TTests[0].T)
	}
}

func TestAnalyzer_Run_StudyWindow(t *testing.T) {
	books := []*model.Book{
		scored(1700, 0.5), // outside the window around 1914
		scored(1910, 0.2),
		scored(1920, 0.3),
	}

	report, err := testAnalyzer().Run(books)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Books != 2 {
		t.Errorf("Books = %d, want 2 after window filtering", report.Books)
	}
}

func TestAnalyzer_Run_SkipsUnscored(t *testing.T) {
	year := 1915
	books := []*model.Book{
		{Year: &year},               // no polarity
		scored(1915, 0.1),
		scored(1916, 0.2),
	}

	report, err := testAnalyzer().Run(books)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Books != 2 {
		t.Errorf("Books = %d, want 2", report.Books)
	}
}

func TestAnalyzer_Run_Empty(t *testing.T) {
	if _, err := testAnalyzer().Run(nil); err == nil {
		t.Error("expected error for empty dataset")
	}
}

func TestAnalyzer_Run_SmallGroupsSkipTests(t *testing.T) {
	// One book per period: every test is underpowered but the report
	// still carries descriptive statistics.
	books := []*model.Book{
		scored(1910, 0.3),
		scored(1915, -0.1),
		scored(1925, 0.2),
	}

	report, err := testAnalyzer().Run(books)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(report.TTests) != 0 {
		t.Errorf("TTests = %d, want 0", len(report.TTests))
	}
	if len(report.Periods) != 3 {
		t.Errorf("Periods = %d, want 3", len(report.Periods))
	}
}

func TestAnalyzer_Run_Binning(t *testing.T) {
	books := []*model.Book{
		scored(1901, 0.1),
		scored(1909, 0.1),
		scored(1911, 0.1),
	}

	report, err := testAnalyzer().Run(books)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(report.YearHistogram) != 2 {
		t.Fatalf("YearHistogram = %d bins, want 2", len(report.YearHistogram))
	}
	if report.YearHistogram[0].Year != 1900 || report.YearHistogram[0].Count != 2 {
		t.Errorf("first bin = %+v, want 1900 with 2", report.YearHistogram[0])
	}
	if report.YearHistogram[1].Year != 1910 || report.YearHistogram[1].Count != 1 {
		t.Errorf("second bin = %+v, want 1910 with 1", report.YearHistogram[1])
	}
}

func TestAnalyzer_Run_YearlyMeansSorted(t *testing.T) {
	books := []*model.Book{
		scored(1920, 0.2),
		scored(1910, 0.1),
		scored(1915, 0.3),
		scored(1915, 0.5),
	}

	report, err := testAnalyzer().Run(books)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(report.YearlyMeans) != 3 {
		t.Fatalf("YearlyMeans = %d, want 3", len(report.YearlyMeans))
	}
	for i := 1; i < len(report.YearlyMeans); i++ {
		if report.YearlyMeans[i].Year <= report.YearlyMeans[i-1].Year {
			t.Fatalf("YearlyMeans not sorted: %+v", report.YearlyMeans)
		}
	}

	mid := report.YearlyMeans[1]
	if mid.Year != 1915 || !almostEqual(mid.Mean, 0.4, 1e-9) || mid.Count != 2 {
		t.Errorf("1915 mean = %+v, want mean 0.4 over 2 books", mid)
	}
}
