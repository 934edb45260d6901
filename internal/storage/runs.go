package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/trainwatch/trainwatch/internal/core"
)

// SaveRun upserts a run. The full run is stored as JSON in the data column.
func (d *DB) SaveRun(run *core.Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	var completedAt *time.Time
	if run.CompletedAt != nil {
		completedAt = run.CompletedAt
	}

	_, err = d.db.Exec(
		`INSERT INTO runs (id, name, tag, phase, data, created_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			tag = excluded.tag,
			phase = excluded.phase,
			data = excluded.data,
			completed_at = excluded.completed_at`,
		run.ID, run.Name, run.Tag, string(run.Phase), string(data),
		run.CreatedAt, completedAt,
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return nil
}

// GetRun retrieves a run by its ID. Returns nil if not found.
func (d *DB) GetRun(runID string) (*core.Run, error) {
	var data string
	err := d.db.QueryRow("SELECT data FROM runs WHERE id = ?", runID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}

	var run core.Run
	if err := json.Unmarshal([]byte(data), &run); err != nil {
		return nil, fmt.Errorf("unmarshal run %s: %w", runID, err)
	}
	return &run, nil
}

// ListRuns returns all runs ordered by creation time descending.
func (d *DB) ListRuns() ([]core.Run, error) {
	rows, err := d.db.Query("SELECT data FROM runs ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []core.Run
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		var run core.Run
		if err := json.Unmarshal([]byte(data), &run); err != nil {
			return nil, fmt.Errorf("unmarshal run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// IsInFlight returns true if the named job already has a run in the training phase.
func (d *DB) IsInFlight(name string) (bool, error) {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM runs WHERE name = ? AND phase = 'training'`,
		name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check in-flight %s: %w", name, err)
	}
	return count > 0, nil
}
