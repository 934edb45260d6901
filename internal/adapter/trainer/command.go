package trainer

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"time"

	"github.com/trainwatch/trainwatch/internal/config"
	"github.com/trainwatch/trainwatch/internal/core"
)

// stderrTailBytes bounds how much captured stderr rides on a failure notification.
const stderrTailBytes = 2000

// Trainer runs a local training command via shell and drives a Callback
// from the lifecycle events on the command's stdout. Ordinary output lines
// pass through unchanged.
type Trainer struct {
	cfg      config.TrainerConfig
	callback *core.Callback
	out      io.Writer
}

// New creates a Trainer for the given command configuration.
func New(cfg config.TrainerConfig, callback *core.Callback) *Trainer {
	return &Trainer{
		cfg:      cfg,
		callback: callback,
		out:      os.Stdout,
	}
}

// SetOutput redirects pass-through output (default os.Stdout).
func (t *Trainer) SetOutput(w io.Writer) {
	t.out = w
}

// Run executes the training command to completion. A non-zero exit produces
// a best-effort failure notification and the exec error is returned
// unchanged; the notification never alters the outcome.
func (t *Trainer) Run(ctx context.Context) error {
	if t.cfg.Command == "" {
		return errors.New("trainer: command is required")
	}

	if t.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", t.cfg.Command)
	cmd.Cancel = func() error { return cmd.Process.Kill() }
	cmd.WaitDelay = 3 * time.Second
	cmd.Dir = t.cfg.Workdir

	cmd.Env = os.Environ()
	for k, v := range t.cfg.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("trainer: stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("trainer: start command: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if ev, ok := ParseEventLine(line); ok {
			t.dispatch(ctx, ev)
			continue
		}
		fmt.Fprintln(t.out, line)
	}
	if err := scanner.Err(); err != nil {
		log.Printf("[trainer] reading command output: %v", err)
	}

	waitErr := cmd.Wait()
	if waitErr != nil {
		// The process may already have reported its own failure event.
		if !t.callback.Phase().Terminal() {
			t.callback.OnFailure(ctx, waitErr, tail(stderr.String(), stderrTailBytes))
		}
		return waitErr
	}

	// Clean exit without an explicit train_end event still completes the run.
	if t.callback.Phase() == core.PhaseTraining {
		t.callback.OnTrainEnd(ctx)
	}
	return nil
}

// dispatch routes a parsed event to the callback hooks.
func (t *Trainer) dispatch(ctx context.Context, ev *Event) {
	switch ev.Event {
	case EventTrainBegin:
		t.callback.OnTrainBegin(ctx, core.TrainPlan{Epochs: ev.Epochs, Metrics: ev.Metrics})
	case EventEpochEnd:
		t.callback.OnEpochEnd(ctx, core.EpochMetrics{Loss: ev.Loss, Values: ev.Values})
	case EventTrainEnd:
		t.callback.OnTrainEnd(ctx)
	case EventTrainFailed:
		t.callback.OnFailure(ctx, errors.New(ev.Error), ev.Stack)
	default:
		log.Printf("[trainer] unknown event %q ignored", ev.Event)
	}
}

// tail returns the last max bytes of s.
func tail(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[len(s)-max:]
}
