package core

import (
	"strings"
	"testing"
)

func TestNewTag(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tag := NewTag()
		if len(tag) != 6 {
			t.Fatalf("tag %q has length %d, want 6", tag, len(tag))
		}
		for _, r := range tag {
			if !strings.ContainsRune(tagAlphabet, r) {
				t.Fatalf("tag %q contains invalid rune %q", tag, r)
			}
		}
		seen[tag] = true
	}
	// 100 draws from a 36^6 space colliding down to a handful would mean a
	// broken generator.
	if len(seen) < 90 {
		t.Errorf("only %d distinct tags out of 100", len(seen))
	}
}

func TestFormatMetric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{0.9, "0.9000"},
		{0.12345, "0.1235"},
		{12, "12.0000"},
		{-0.5, "-0.5000"},
	}
	for _, tt := range tests {
		if got := formatMetric(tt.in); got != tt.want {
			t.Errorf("formatMetric(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMetricsTable(t *testing.T) {
	t.Parallel()

	got := metricsTable([]string{"loss", "accuracy"}, []float64{0.5, 0.91})

	if !strings.HasPrefix(got, "```\n") || !strings.HasSuffix(got, "\n```") {
		t.Fatalf("table not fenced: %q", got)
	}

	lines := strings.Split(strings.Trim(got, "`\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("table has %d lines, want 2: %q", len(lines), got)
	}

	header, row := lines[0], lines[1]
	if len(header) != len(row) {
		t.Errorf("header and row widths differ: %q vs %q", header, row)
	}
	if !strings.Contains(header, "loss") || !strings.Contains(header, "accuracy") {
		t.Errorf("header missing column names: %q", header)
	}
	if !strings.Contains(row, "0.5000") || !strings.Contains(row, "0.9100") {
		t.Errorf("row missing values: %q", row)
	}

	// Values line up right-aligned under their column names.
	if strings.Index(header, "loss")+len("loss") != strings.Index(row, "0.5000")+len("0.5000") {
		t.Errorf("loss column misaligned:\n%s\n%s", header, row)
	}
}

func TestMetricsTableEmpty(t *testing.T) {
	t.Parallel()

	if got := metricsTable(nil, nil); got != "" {
		t.Errorf("empty table = %q, want empty string", got)
	}
}

func TestMetricsTableMissingValues(t *testing.T) {
	t.Parallel()

	got := metricsTable([]string{"loss", "accuracy"}, []float64{0.5})
	if !strings.Contains(got, "accuracy") {
		t.Errorf("table dropped column with missing value: %q", got)
	}
}
