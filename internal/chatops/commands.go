package chatops

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/trainwatch/trainwatch/internal/core"
	"github.com/trainwatch/trainwatch/internal/storage"
)

// Command is a normalized chat command.
type Command struct {
	Action string
	Args   []string
}

var errCommandNotFound = errors.New("command not found")

// ParseCommand parses chat command text such as:
// "trainwatch status", "/trainwatch runs", "!trainwatch log run-123".
func ParseCommand(text string) (*Command, error) {
	normalized := strings.TrimSpace(text)
	if normalized == "" {
		return nil, errors.New("empty command")
	}

	fields := strings.Fields(normalized)
	if len(fields) == 0 {
		return nil, errors.New("empty command")
	}

	first := strings.TrimPrefix(strings.ToLower(fields[0]), "/")
	first = strings.TrimPrefix(first, "!")

	if first == "trainwatch" {
		if len(fields) < 2 {
			return nil, errors.New("missing action")
		}
		return &Command{Action: strings.ToLower(fields[1]), Args: fields[2:]}, nil
	}

	if first == "status" || first == "runs" || first == "log" {
		return &Command{Action: first, Args: fields[1:]}, nil
	}

	return nil, errCommandNotFound
}

// Execute handles storage-driven chat commands.
func Execute(cmd *Command, db *storage.DB) (string, error) {
	if cmd == nil {
		return "", errors.New("nil command")
	}

	switch cmd.Action {
	case "status":
		return executeStatus(db)
	case "runs":
		return executeRuns(db)
	case "log":
		if len(cmd.Args) < 1 {
			return "", errors.New("log requires run id")
		}
		return executeLog(db, cmd.Args[0])
	default:
		return "", fmt.Errorf("unsupported action %q", cmd.Action)
	}
}

func executeStatus(db *storage.DB) (string, error) {
	runs, err := db.ListRuns()
	if err != nil {
		return "", fmt.Errorf("list runs: %w", err)
	}

	if len(runs) == 0 {
		return "No runs found.", nil
	}

	counts := make(map[core.RunPhase]int)
	for _, run := range runs {
		counts[run.Phase]++
	}

	phases := make([]string, 0, len(counts))
	for phase := range counts {
		phases = append(phases, string(phase))
	}
	sort.Strings(phases)

	lines := make([]string, 0, len(phases)+1)
	lines = append(lines, fmt.Sprintf("Run summary: %d total", len(runs)))
	for _, phase := range phases {
		lines = append(lines, fmt.Sprintf("- %s: %d", phase, counts[core.RunPhase(phase)]))
	}

	return strings.Join(lines, "\n"), nil
}

func executeRuns(db *storage.DB) (string, error) {
	runs, err := db.ListRuns()
	if err != nil {
		return "", fmt.Errorf("list runs: %w", err)
	}

	if len(runs) == 0 {
		return "No runs found.", nil
	}

	limit := 5
	if len(runs) < limit {
		limit = len(runs)
	}

	lines := make([]string, 0, limit+1)
	lines = append(lines, "Recent runs:")
	for i := 0; i < limit; i++ {
		r := runs[i]
		line := fmt.Sprintf("- %s [%s] %s", r.ID, r.Phase, truncate(r.Name, 48))
		if r.Tag != "" {
			line += fmt.Sprintf(" (%s)", r.Tag)
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n"), nil
}

func executeLog(db *storage.DB, runID string) (string, error) {
	run, err := db.GetRun(runID)
	if err != nil {
		return "", fmt.Errorf("get run: %w", err)
	}
	if run == nil {
		return "", fmt.Errorf("run %q not found", runID)
	}

	notifications, err := db.GetNotifications(runID)
	if err != nil {
		return "", fmt.Errorf("get notifications: %w", err)
	}

	if len(notifications) == 0 {
		return fmt.Sprintf("Run %s has no notifications.", runID), nil
	}

	start := len(notifications) - 5
	if start < 0 {
		start = 0
	}

	lines := make([]string, 0, len(notifications)-start+1)
	lines = append(lines, fmt.Sprintf("Last notifications for %s:", runID))
	for _, n := range notifications[start:] {
		lines = append(lines, fmt.Sprintf("- [%s/%s] %s", n.Channel, n.Status, truncate(n.Message, 80)))
	}

	return strings.Join(lines, "\n"), nil
}

func truncate(input string, maxLen int) string {
	if len(input) <= maxLen {
		return input
	}
	if maxLen <= 3 {
		return input[:maxLen]
	}
	return input[:maxLen-3] + "..."
}
