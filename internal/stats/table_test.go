package stats

import (
	"bytes"
	"testing"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Name", "WPM", "Accuracy"}
	rows := [][]string{
		{"You", "62", "97%"},
		{"Alexandra", "8", "100%"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Name      WPM Accuracy" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "You        62      97%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Alexandra   8     100%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Key", "N"}, [][]string{{"日", "1"}, {"a", "2"}}, nil)
	if lines[1] != "日  1" {
		t.Fatalf("expected wide rune to take two cells, got %q", lines[1])
	}
	if lines[2] != "a   2" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTablePadsShortRows(t *testing.T) {
	lines := formatTable([]string{"Key", "Errors"}, [][]string{{"q"}}, map[int]bool{1: true})
	if lines[1] != "q         " {
		t.Fatalf("expected empty padded cell, got %q", lines[1])
	}
}

func TestWriteTableEndsWithBlankLine(t *testing.T) {
	var buf bytes.Buffer
	if err := writeTable(&buf, []string{"Key", "Errors"}, [][]string{{"e", "4"}}, map[int]bool{1: true}); err != nil {
		t.Fatalf("write table: %v", err)
	}
	if got := buf.String(); got != "Key Errors\ne        4\n\n" {
		t.Fatalf("unexpected output %q", got)
	}
}
