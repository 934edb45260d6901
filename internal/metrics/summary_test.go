package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/trainwatch/trainwatch/internal/core"
)

func testRun(name string, phase core.RunPhase, age, duration time.Duration, epochs int) core.Run {
	created := time.Now().UTC().Add(-age)
	run := core.Run{
		ID:         name,
		Name:       name,
		Phase:      phase,
		EpochsDone: epochs,
		CreatedAt:  created,
	}
	if phase.Terminal() {
		completed := created.Add(duration)
		run.CompletedAt = &completed
	}
	return run
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	got := Summarize(nil)
	if got != (Summary{}) {
		t.Errorf("Summarize(nil) = %+v, want zero value", got)
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	runs := []core.Run{
		testRun("a", core.PhaseCompleted, 24*time.Hour, time.Hour, 10),
		testRun("b", core.PhaseCompleted, 48*time.Hour, 3*time.Hour, 20),
		testRun("c", core.PhaseFailed, 2*time.Hour, time.Hour, 3),
		testRun("d", core.PhaseTraining, time.Hour, 0, 1),
	}

	got := Summarize(runs)

	if got.TotalRuns != 4 {
		t.Errorf("TotalRuns = %d, want 4", got.TotalRuns)
	}
	if got.Completed != 2 || got.Failed != 1 || got.InFlight != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1", got.Completed, got.Failed, got.InFlight)
	}
	if math.Abs(got.CompletionRate-66.666) > 0.01 {
		t.Errorf("CompletionRate = %.3f, want ~66.666", got.CompletionRate)
	}
	if math.Abs(got.FailureRate-33.333) > 0.01 {
		t.Errorf("FailureRate = %.3f, want ~33.333", got.FailureRate)
	}

	// Mean of 1h, 3h and 1h across the three terminal runs.
	wantDuration := 5 * time.Hour / 3
	if got.MeanDuration != wantDuration {
		t.Errorf("MeanDuration = %s, want %s", got.MeanDuration, wantDuration)
	}

	// Epochs only count for terminal runs: (10+20+3)/3.
	if got.MeanEpochs != 11 {
		t.Errorf("MeanEpochs = %.2f, want 11", got.MeanEpochs)
	}

	if math.Abs(got.RunsPerDay-4.0/30.0) > 1e-9 {
		t.Errorf("RunsPerDay = %f", got.RunsPerDay)
	}
}

func TestSummarizeWindowExcludesOldRuns(t *testing.T) {
	t.Parallel()

	runs := []core.Run{
		testRun("recent", core.PhaseCompleted, 24*time.Hour, time.Hour, 5),
		testRun("ancient", core.PhaseFailed, 40*24*time.Hour, time.Hour, 5),
	}

	got := Summarize(runs)
	if got.TotalRuns != 1 {
		t.Errorf("TotalRuns = %d, want 1 (old runs excluded)", got.TotalRuns)
	}
	if got.Failed != 0 {
		t.Errorf("Failed = %d, want 0", got.Failed)
	}
	if got.CompletionRate != 100.0 {
		t.Errorf("CompletionRate = %.1f, want 100", got.CompletionRate)
	}
}
