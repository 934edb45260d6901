package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"strings"

	"github.com/trainwatch/trainwatch/internal/adapter/notify"
)

// Config is the immutable construction configuration for a Callback.
type Config struct {
	// Name is the job display label, included in every notification.
	Name string
	// WebhookURL is the Slack incoming webhook URL. Required only when no
	// notifiers are supplied explicitly.
	WebhookURL string
	// Frequency is the number of epochs between progress notifications.
	// 0 means a single notification at the end of training — note this is
	// the zero value, so embedders wanting per-epoch notifications must set
	// it explicitly. The YAML loader defaults an omitted key to 1.
	Frequency int
}

// TrainPlan describes a training run at its start.
type TrainPlan struct {
	// Epochs is the planned number of epochs.
	Epochs int
	// Metrics names the tracked metric columns besides the loss.
	Metrics []string
}

// EpochMetrics carries the per-epoch values reported by the training loop.
// Values are ordered to match TrainPlan.Metrics.
type EpochMetrics struct {
	Loss   float64
	Values []float64
}

// RecordFunc receives every notification attempt for persistence.
type RecordFunc func(run Run, channel, message, status string)

// Callback observes a training run's lifecycle and posts notifications at
// start, epoch boundaries, completion, and failure. Hooks never return
// errors: a failed send is logged and swallowed so notification problems
// cannot disrupt training.
//
// A Callback is single-threaded by contract: the training loop invokes the
// hooks inline, one at a time. The epoch counter is monotonic for the
// lifetime of one Callback instance.
type Callback struct {
	cfg       Config
	notifiers []notify.Notifier
	record    RecordFunc

	run         *Run
	counter     int
	metricNames []string
	last        *EpochMetrics
	sentLast    bool
}

// New creates a Callback. When no notifiers are given, a Slack webhook
// notifier is built from cfg.WebhookURL, which must then be non-empty.
func New(cfg Config, notifiers ...notify.Notifier) (*Callback, error) {
	if cfg.Name == "" {
		return nil, errors.New("callback: name is required")
	}
	if cfg.Frequency < 0 {
		return nil, fmt.Errorf("callback: frequency must be >= 0, got %d", cfg.Frequency)
	}
	if len(notifiers) == 0 {
		if cfg.WebhookURL == "" {
			return nil, errors.New("callback: webhook URL is required")
		}
		notifiers = []notify.Notifier{notify.NewWebhookNotifier("slack", cfg.WebhookURL)}
	}

	return &Callback{
		cfg:       cfg,
		notifiers: notifiers,
		run:       NewRun(cfg.Name),
	}, nil
}

// SetRecordFunc registers a sink for notification attempts (e.g. storage).
func (c *Callback) SetRecordFunc(fn RecordFunc) {
	c.record = fn
}

// Run returns a snapshot of the observed run.
func (c *Callback) Run() Run {
	return *c.run
}

// Phase returns the current lifecycle phase.
func (c *Callback) Phase() RunPhase {
	return c.run.Phase
}

// OnTrainBegin is called when training starts. It tags the run, captures the
// metric layout, and sends the start notification.
func (c *Callback) OnTrainBegin(ctx context.Context, plan TrainPlan) {
	if err := Transition(c.run, PhaseTraining); err != nil {
		log.Printf("[callback] train begin ignored: %v", err)
		return
	}

	c.run.Tag = NewTag()
	c.run.TotalEpochs = plan.Epochs
	c.metricNames = append([]string{"loss"}, plan.Metrics...)
	c.run.MetricNames = c.metricNames
	c.counter = 0
	c.last = nil
	c.sentLast = false

	c.send(ctx, fmt.Sprintf("*Started training for %d epochs*", plan.Epochs))
	log.Printf("[callback] run %s started as [%s %s]", c.run.ID, c.cfg.Name, c.run.Tag)
}

// OnEpochEnd is called once per epoch. The counter increments
// unconditionally; a notification goes out only on frequency boundaries.
func (c *Callback) OnEpochEnd(ctx context.Context, m EpochMetrics) {
	if c.run.Phase != PhaseTraining {
		log.Printf("[callback] epoch end ignored in phase %s", c.run.Phase)
		return
	}

	c.counter++
	c.run.EpochsDone = c.counter
	c.last = &m
	c.sentLast = false

	if c.cfg.Frequency > 0 && c.counter%c.cfg.Frequency == 0 {
		c.send(ctx, c.epochMessage(c.counter, m))
		c.sentLast = true
	}
}

// OnTrainEnd is called when training finishes normally. When the final epoch
// metrics were not already sent (frequency 0, or the last epoch missed a
// boundary), they are attached to the completion message.
func (c *Callback) OnTrainEnd(ctx context.Context) {
	if err := Transition(c.run, PhaseCompleted); err != nil {
		log.Printf("[callback] train end ignored: %v", err)
		return
	}

	lines := []string{"*Training complete*"}
	if c.last != nil && !c.sentLast {
		lines = append(lines, c.epochMessage(c.counter, *c.last))
	}
	c.send(ctx, strings.Join(lines, "\n"))
}

// OnFailure is called when the training process fails. The notification is a
// best-effort side channel; the caller propagates the original failure.
func (c *Callback) OnFailure(ctx context.Context, cause error, stack string) {
	if err := Transition(c.run, PhaseFailed); err != nil {
		log.Printf("[callback] failure transition: %v", err)
	}
	if cause != nil {
		c.run.FailureCause = cause.Error()
	}

	lines := []string{
		"*Training failed with exception:*",
		fmt.Sprintf("`%v`", cause),
	}
	if stack != "" {
		lines = append(lines, "```\n"+strings.TrimRight(stack, "\n")+"\n```")
	} else {
		lines = append(lines, "No stack trace available")
	}
	c.send(ctx, strings.Join(lines, "\n"))
}

// Observe wraps a training invocation. A returned error triggers a failure
// notification and is returned unchanged; a panic triggers a failure
// notification with the stack trace and is re-raised. Notification outcome
// never alters error propagation.
func (c *Callback) Observe(ctx context.Context, fn func(context.Context) error) error {
	defer func() {
		if r := recover(); r != nil {
			c.OnFailure(ctx, fmt.Errorf("panic: %v", r), string(debug.Stack()))
			panic(r)
		}
	}()

	if err := fn(ctx); err != nil {
		c.OnFailure(ctx, err, "")
		return err
	}
	return nil
}

// epochMessage renders the per-epoch notification body.
func (c *Callback) epochMessage(epoch int, m EpochMetrics) string {
	if c.run.TotalEpochs > 0 && epoch > c.run.TotalEpochs {
		epoch = c.run.TotalEpochs
	}

	header := fmt.Sprintf("Epoch %d", epoch)
	if c.run.TotalEpochs > 0 {
		header = fmt.Sprintf("Epoch %d/%d", epoch, c.run.TotalEpochs)
	}

	values := append([]float64{m.Loss}, m.Values...)
	return header + "\n" + metricsTable(c.metricNames, values)
}

// send fans the message out to every notifier. Each failure is logged and
// recorded independently; one broken channel does not block the others.
func (c *Callback) send(ctx context.Context, msg string) {
	prefix := fmt.Sprintf("[`%s %s`]", c.cfg.Name, c.run.Tag)
	if c.run.Tag == "" {
		// A run that failed before train begin never got a tag.
		prefix = fmt.Sprintf("[`%s`]", c.cfg.Name)
	}
	full := prefix + " " + msg

	for _, n := range c.notifiers {
		status := "sent"
		if err := n.Notify(ctx, full); err != nil {
			log.Printf("[callback] %s notification failed: %v", n.Channel(), err)
			status = "failed"
		}
		if c.record != nil {
			c.record(*c.run, n.Channel(), full, status)
		}
	}
}
