package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunPhase represents the lifecycle phase of a training run.
type RunPhase string

const (
	PhaseIdle      RunPhase = "idle"
	PhaseTraining  RunPhase = "training"
	PhaseCompleted RunPhase = "completed"
	PhaseFailed    RunPhase = "failed"
)

// terminalPhases are phases from which no transition is allowed.
var terminalPhases = map[RunPhase]bool{
	PhaseCompleted: true,
	PhaseFailed:    true,
}

// validTransitions defines the allowed from→to phase transitions.
// idle → failed covers a training process that dies before emitting its
// first lifecycle event.
var validTransitions = map[RunPhase]map[RunPhase]bool{
	PhaseIdle:     {PhaseTraining: true, PhaseFailed: true},
	PhaseTraining: {PhaseCompleted: true, PhaseFailed: true},
	// PhaseCompleted and PhaseFailed have no outgoing transitions (terminal).
}

// ErrInvalidTransition is returned when a phase transition is not allowed.
var ErrInvalidTransition = errors.New("invalid phase transition")

// Run records a single training run observed by a callback.
type Run struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Tag          string     `json:"tag"`
	Phase        RunPhase   `json:"phase"`
	EpochsDone   int        `json:"epochs_done"`
	TotalEpochs  int        `json:"total_epochs"`
	MetricNames  []string   `json:"metric_names,omitempty"`
	FailureCause string     `json:"failure_cause,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// NewRun creates a fresh idle run for the given job name.
func NewRun(name string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Name:      name,
		Phase:     PhaseIdle,
		CreatedAt: time.Now().UTC(),
	}
}

// InFlight reports whether the run has started but not reached a terminal phase.
func (r *Run) InFlight() bool {
	return r.Phase == PhaseTraining
}

// Terminal reports whether the phase allows no further transitions.
func (p RunPhase) Terminal() bool {
	return terminalPhases[p]
}

// Transition validates and applies a phase transition on a run.
// Returns ErrInvalidTransition if the transition is not allowed.
func Transition(run *Run, to RunPhase) error {
	from := run.Phase

	if terminalPhases[from] {
		return fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, from)
	}

	allowed, ok := validTransitions[from]
	if !ok || !allowed[to] {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	run.Phase = to

	// Mark completion timestamp for terminal states.
	if terminalPhases[to] {
		now := time.Now().UTC()
		run.CompletedAt = &now
	}

	return nil
}
