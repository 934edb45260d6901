package trainer

import (
	"encoding/json"
	"strings"
)

// Event names emitted by instrumented training processes.
const (
	EventTrainBegin  = "train_begin"
	EventEpochEnd    = "epoch_end"
	EventTrainEnd    = "train_end"
	EventTrainFailed = "train_failed"
)

// Event is a structured lifecycle record emitted by the training process on
// stdout, one JSON object per line.
type Event struct {
	Event   string    `json:"event"`
	Epochs  int       `json:"epochs,omitempty"`
	Metrics []string  `json:"metrics,omitempty"`
	Epoch   int       `json:"epoch,omitempty"`
	Loss    float64   `json:"loss,omitempty"`
	Values  []float64 `json:"values,omitempty"`
	Error   string    `json:"error,omitempty"`
	Stack   string    `json:"stack,omitempty"`
}

// ParseEventLine parses a stdout line as a lifecycle event. The second
// return value is false for ordinary output lines, which pass through
// untouched.
func ParseEventLine(line string) (*Event, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return nil, false
	}

	var ev Event
	if err := json.Unmarshal([]byte(trimmed), &ev); err != nil {
		return nil, false
	}
	if ev.Event == "" {
		return nil, false
	}
	return &ev, true
}
