package sentiment

import (
	"errors"
	"strings"
	"testing"
)

func TestPreprocess_ModernMarkers(t *testing.T) {
	raw := "The Project Gutenberg eBook of Example\n" +
		"*** START OF THE PROJECT GUTENBERG EBOOK EXAMPLE ***\n\n" +
		"Chapter I.\n\nIt was a dark and stormy night.\n\n" +
		"*** END OF THE PROJECT GUTENBERG EBOOK EXAMPLE ***\n" +
		"Donation information follows."

	text, err := Preprocess(raw)
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	if !strings.HasPrefix(text, "Chapter I.") {
		t.Errorf("header not stripped: %q", text[:40])
	}
	if strings.Contains(text, "Donation") || strings.Contains(text, "***") {
		t.Errorf("footer not stripped: %q", text)
	}
}

func TestPreprocess_ThisVariant(t *testing.T) {
	raw := "***START OF THIS PROJECT GUTENBERG EBOOK EXAMPLE***\n" +
		"Body text.\n" +
		"***END OF THIS PROJECT GUTENBERG EBOOK EXAMPLE***"

	text, err := Preprocess(raw)
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	if text != "Body text." {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestPreprocess_ProducedFromImagesLine(t *testing.T) {
	raw := "*** START OF THE PROJECT GUTENBERG EBOOK EXAMPLE ***\n" +
		"This file was produced from images generously made available\n\n" +
		"Actual opening line.\n" +
		"*** END OF THE PROJECT GUTENBERG EBOOK EXAMPLE ***"

	text, err := Preprocess(raw)
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	if !strings.HasPrefix(text, "Actual opening line.") {
		t.Errorf("transcription credit not stripped: %q", text)
	}
}

func TestPreprocess_LegacyEnding(t *testing.T) {
	raw := "*** START OF THE PROJECT GUTENBERG EBOOK EXAMPLE ***\n" +
		"The story.\n\n" +
		"End of the Project Gutenberg EBook of Example, by Nobody\n" +
		"*** END OF THE PROJECT GUTENBERG EBOOK EXAMPLE ***"

	text, err := Preprocess(raw)
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	if text != "The story." {
		t.Errorf("legacy ending not stripped: %q", text)
	}
}

func TestPreprocess_MissingMarkers(t *testing.T) {
	text, err := Preprocess("Just some text with no markers at all.")
	if !errors.Is(err, ErrNoMarkers) {
		t.Errorf("expected ErrNoMarkers, got %v", err)
	}
	if text != "Just some text with no markers at all." {
		t.Errorf("marker-less text not preserved: %q", text)
	}
}

func TestPreprocess_MissingMarkersLegacyEnding(t *testing.T) {
	raw := "The story itself.\n\n" +
		"End of the Project Gutenberg EBook of Example, by Nobody\n" +
		"Donation boilerplate follows."

	text, err := Preprocess(raw)
	if !errors.Is(err, ErrNoMarkers) {
		t.Fatalf("expected ErrNoMarkers, got %v", err)
	}
	if text != "The story itself." {
		t.Errorf("legacy ending survived in marker-less text: %q", text)
	}
}

func TestPreprocess_MissingMarkersSmallPrint(t *testing.T) {
	raw := "THE SMALL PRINT legal block.\n" +
		"*END*THE SMALL PRINT! FOR PUBLIC DOMAIN ETEXTS*Ver.04.29.93*END*\n" +
		"The etext body.\n" +
		"End of Project Gutenberg's Example"

	text, err := Preprocess(raw)
	if !errors.Is(err, ErrNoMarkers) {
		t.Fatalf("expected ErrNoMarkers, got %v", err)
	}
	if text != "The etext body." {
		t.Errorf("small print survived in marker-less text: %q", text)
	}
}

func TestPreprocess_EndBeforeStart(t *testing.T) {
	raw := "*** END OF THE PROJECT GUTENBERG EBOOK EXAMPLE ***\n" +
		"*** START OF THE PROJECT GUTENBERG EBOOK EXAMPLE ***"

	_, err := Preprocess(raw)
	if !errors.Is(err, ErrNoMarkers) {
		t.Errorf("expected ErrNoMarkers for inverted markers, got %v", err)
	}
}
