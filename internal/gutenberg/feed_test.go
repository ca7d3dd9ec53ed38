package gutenberg

import (
	"strings"
	"testing"
)

func TestParseFeed(t *testing.T) {
	const feed = `Text#,Type,Issued,Title,Language,Authors,Subjects,LoCC,Bookshelves
1342,Text,1998-06-01,Pride and Prejudice,en,"Austen, Jane, 1775-1817",England -- Fiction,PR,Best Books Ever
19,Sound,2003-11-01,The Star-Spangled Banner,en,"Key, Francis Scott",Songs,M,Music
2701,Text,2001-07-01,Moby Dick,en,"Melville, Herman, 1819-1891",Whaling -- Fiction,PS,Best Books Ever
bogus,Text,2001-01-01,Not a book,en,Nobody,None,ZZ,None
`

	rows, err := parseFeed(strings.NewReader(feed))
	if err != nil {
		t.Fatalf("parseFeed failed: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows (bogus ID skipped), got %d", len(rows))
	}

	first := rows[0]
	if first.GutenbergID != 1342 || first.Kind != "Text" || first.Language != "en" {
		t.Errorf("unexpected first row: %+v", first)
	}
	if first.Title != "Pride and Prejudice" {
		t.Errorf("unexpected title: %q", first.Title)
	}

	if rows[1].Kind != "Sound" {
		t.Errorf("expected Sound row preserved for filtering downstream, got %+v", rows[1])
	}
}

func TestParseFeed_MissingColumn(t *testing.T) {
	const feed = "Title,Language\nSomething,en\n"

	_, err := parseFeed(strings.NewReader(feed))
	if err == nil {
		t.Fatal("expected error for feed without Text# column")
	}
}
