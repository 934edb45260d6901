package trainer

import "testing"

func TestParseEventLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		line   string
		wantOK bool
		check  func(*testing.T, *Event)
	}{
		{
			name:   "train begin",
			line:   `{"event":"train_begin","epochs":5,"metrics":["accuracy"]}`,
			wantOK: true,
			check: func(t *testing.T, ev *Event) {
				if ev.Event != EventTrainBegin || ev.Epochs != 5 {
					t.Errorf("parsed %+v", ev)
				}
				if len(ev.Metrics) != 1 || ev.Metrics[0] != "accuracy" {
					t.Errorf("metrics = %v", ev.Metrics)
				}
			},
		},
		{
			name:   "epoch end",
			line:   `  {"event":"epoch_end","epoch":2,"loss":0.7,"values":[0.91]}  `,
			wantOK: true,
			check: func(t *testing.T, ev *Event) {
				if ev.Epoch != 2 || ev.Loss != 0.7 || len(ev.Values) != 1 {
					t.Errorf("parsed %+v", ev)
				}
			},
		},
		{
			name:   "train failed",
			line:   `{"event":"train_failed","error":"ValueError: x","stack":"tb"}`,
			wantOK: true,
			check: func(t *testing.T, ev *Event) {
				if ev.Error != "ValueError: x" || ev.Stack != "tb" {
					t.Errorf("parsed %+v", ev)
				}
			},
		},
		{name: "plain output", line: "epoch 1 done, loss 0.9", wantOK: false},
		{name: "json without event field", line: `{"loss":0.9}`, wantOK: false},
		{name: "malformed json", line: `{"event":`, wantOK: false},
		{name: "empty line", line: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := ParseEventLine(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("ParseEventLine(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if tt.check != nil && ok {
				tt.check(t, ev)
			}
		})
	}
}
