package storage

import "time"

// Notification records a single notification attempt for a run.
type Notification struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
	Channel   string    `json:"channel"`
	Message   string    `json:"message"`
	Status    string    `json:"status"` // sent|failed
}

// AppendNotification adds a notification record for a run.
func (d *DB) AppendNotification(runID, channel, message, status string) error {
	_, err := d.db.Exec(
		`INSERT INTO notifications (run_id, timestamp, channel, message, status) VALUES (?, datetime('now'), ?, ?, ?)`,
		runID, channel, message, status,
	)
	return err
}

// GetNotifications returns all notification records for a run, ordered by id.
func (d *DB) GetNotifications(runID string) ([]Notification, error) {
	rows, err := d.db.Query(
		`SELECT id, run_id, timestamp, channel, message, status FROM notifications WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.RunID, &n.Timestamp, &n.Channel, &n.Message, &n.Status); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
