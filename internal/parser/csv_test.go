package parser_test

import (
	"errors"
	"testing"

	"github.com/KaramelBytes/shirtstats/internal/parser"
)

func TestExtractFileCSV(t *testing.T) {
	content := "day,colours\n" +
		"MONDAY,\"green, Yellow ,green\"\n" +
		"TUESDAY\n" +
		"WEDNESDAY,\"red,\"\n"
	p := writeFile(t, "week.csv", content)
	ex, err := parser.ExtractFile(p)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	got := ex.Labels.Strings()
	want := []string{"GREEN", "YELLOW", "GREEN", "RED"}
	if len(got) != len(want) {
		t.Fatalf("labels=%v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("labels[%d]=%q want %q", i, got[i], want[i])
		}
	}
	if ex.Skipped != 1 {
		t.Fatalf("skipped=%d want 1", ex.Skipped)
	}
}

func TestExtractFileTSV(t *testing.T) {
	p := writeFile(t, "week.tsv", "day\tcolours\nMON\tblue, white\n")
	ex, err := parser.ExtractFile(p)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got := ex.Labels.Strings(); len(got) != 2 || got[0] != "BLUE" || got[1] != "WHITE" {
		t.Fatalf("unexpected labels: %v", got)
	}
}

func TestExtractFileCSV_Empty(t *testing.T) {
	p := writeFile(t, "empty.csv", "")
	if _, err := parser.ExtractFile(p); !errors.Is(err, parser.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}
