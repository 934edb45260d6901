package core

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

const tagAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewTag creates a short random string to uniquely identify a training run
// inside notification messages.
func NewTag() string {
	var b [6]byte
	for i := range b {
		b[i] = tagAlphabet[rand.IntN(len(tagAlphabet))]
	}
	return string(b[:])
}

// formatMetric renders a metric value with 4 digits after the point.
func formatMetric(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// metricsTable renders metric names and values as a fixed-width two-line
// table inside a code fence, one column per metric, values right-aligned
// under their names.
func metricsTable(names []string, values []float64) string {
	cols := len(names)
	if len(values) > cols {
		cols = len(values)
	}
	if cols == 0 {
		return ""
	}

	headers := make([]string, cols)
	cells := make([]string, cols)
	for i := 0; i < cols; i++ {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		cell := ""
		if i < len(values) {
			cell = formatMetric(values[i])
		}

		width := len(name)
		if len(cell) > width {
			width = len(cell)
		}
		headers[i] = fmt.Sprintf("%*s", width, name)
		cells[i] = fmt.Sprintf("%*s", width, cell)
	}

	return "```\n" + strings.Join(headers, "  ") + "\n" + strings.Join(cells, "  ") + "\n```"
}
