package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/trainwatch/trainwatch/internal/storage"
)

var logsCmd = &cobra.Command{
	Use:   "logs <run-id>",
	Short: "Show notifications recorded for a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID := args[0]
		configPath, _ := cmd.Flags().GetString("config")
		follow, _ := cmd.Flags().GetBool("follow")

		cfg, err := loadOptionalConfig(configPath)
		if err != nil {
			return err
		}

		db, err := openStorage(cfg)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer db.Close()

		run, err := db.GetRun(runID)
		if err != nil {
			return fmt.Errorf("get run: %w", err)
		}
		if run == nil {
			return fmt.Errorf("run %q not found", runID)
		}

		fmt.Fprintf(os.Stdout, "Run: %s\n", run.ID)
		fmt.Fprintf(os.Stdout, "Name: %s", run.Name)
		if run.Tag != "" {
			fmt.Fprintf(os.Stdout, " [%s]", run.Tag)
		}
		fmt.Println()
		fmt.Fprintf(os.Stdout, "Phase: %s\n", run.Phase)
		fmt.Fprintf(os.Stdout, "Started: %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		if run.CompletedAt != nil {
			fmt.Fprintf(os.Stdout, "Finished: %s\n", run.CompletedAt.Local().Format("2006-01-02 15:04:05"))
		}
		if run.FailureCause != "" {
			fmt.Fprintf(os.Stdout, "Failure: %s\n", run.FailureCause)
		}
		fmt.Println()

		printed := 0
		printed, err = printNewNotifications(db, runID, printed)
		if err != nil {
			return err
		}
		if printed == 0 {
			fmt.Println("No notifications recorded.")
		}

		if !follow {
			return nil
		}

		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-cmd.Context().Done():
				return nil
			case <-ticker.C:
				printed, err = printNewNotifications(db, runID, printed)
				if err != nil {
					return err
				}
				run, err := db.GetRun(runID)
				if err != nil {
					return fmt.Errorf("get run: %w", err)
				}
				if run != nil && run.Phase.Terminal() {
					return nil
				}
			}
		}
	},
}

// printNewNotifications prints notifications beyond the first `seen` and
// returns the new count.
func printNewNotifications(db *storage.DB, runID string, seen int) (int, error) {
	notifications, err := db.GetNotifications(runID)
	if err != nil {
		return seen, fmt.Errorf("get notifications: %w", err)
	}

	for _, n := range notifications[min(seen, len(notifications)):] {
		fmt.Fprintf(os.Stdout, "[%s] %s/%s\n%s\n\n",
			n.Timestamp.Local().Format("15:04:05"), n.Channel, n.Status, n.Message)
	}
	return len(notifications), nil
}
