package metrics

import (
	"time"

	"github.com/trainwatch/trainwatch/internal/core"
)

// Summary aggregates training run outcomes over the last 30 days.
type Summary struct {
	TotalRuns      int           `json:"total_runs"`
	Completed      int           `json:"completed"`
	Failed         int           `json:"failed"`
	InFlight       int           `json:"in_flight"`
	CompletionRate float64       `json:"completion_rate"`
	FailureRate    float64       `json:"failure_rate"`
	RunsPerDay     float64       `json:"runs_per_day"`
	MeanDuration   time.Duration `json:"mean_duration"`
	MeanEpochs     float64       `json:"mean_epochs"`
}

// Summarize computes run statistics from runs started in the last 30 days.
func Summarize(runs []core.Run) Summary {
	now := time.Now().UTC()
	since := now.Add(-30 * 24 * time.Hour)

	window := make([]core.Run, 0, len(runs))
	for _, run := range runs {
		if run.CreatedAt.After(since) {
			window = append(window, run)
		}
	}

	if len(window) == 0 {
		return Summary{}
	}

	summary := Summary{TotalRuns: len(window)}

	var totalDuration time.Duration
	durations := 0
	totalEpochs := 0
	epochRuns := 0

	for _, run := range window {
		switch run.Phase {
		case core.PhaseCompleted:
			summary.Completed++
		case core.PhaseFailed:
			summary.Failed++
		case core.PhaseTraining:
			summary.InFlight++
		}

		if run.CompletedAt != nil {
			totalDuration += run.CompletedAt.Sub(run.CreatedAt)
			durations++
		}
		if run.Phase.Terminal() {
			totalEpochs += run.EpochsDone
			epochRuns++
		}
	}

	terminal := summary.Completed + summary.Failed
	if terminal > 0 {
		summary.CompletionRate = (float64(summary.Completed) / float64(terminal)) * 100.0
		summary.FailureRate = (float64(summary.Failed) / float64(terminal)) * 100.0
	}

	summary.RunsPerDay = float64(len(window)) / 30.0
	if durations > 0 {
		summary.MeanDuration = totalDuration / time.Duration(durations)
	}
	if epochRuns > 0 {
		summary.MeanEpochs = float64(totalEpochs) / float64(epochRuns)
	}

	return summary
}
