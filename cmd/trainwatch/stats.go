package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/trainwatch/trainwatch/internal/metrics"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show run statistics for the last 30 days",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")

		cfg, err := loadOptionalConfig(configPath)
		if err != nil {
			return err
		}

		db, err := openStorage(cfg)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer db.Close()

		runs, err := db.ListRuns()
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}

		summary := metrics.Summarize(runs)
		if summary.TotalRuns == 0 {
			fmt.Println("No runs in the last 30 days.")
			return nil
		}

		rows := [][]string{
			{"Total runs", fmt.Sprintf("%d", summary.TotalRuns)},
			{"Completed", fmt.Sprintf("%d", summary.Completed)},
			{"Failed", fmt.Sprintf("%d", summary.Failed)},
			{"In flight", fmt.Sprintf("%d", summary.InFlight)},
			{"Completion rate", fmt.Sprintf("%.1f%%", summary.CompletionRate)},
			{"Failure rate", fmt.Sprintf("%.1f%%", summary.FailureRate)},
			{"Runs per day", fmt.Sprintf("%.2f", summary.RunsPerDay)},
			{"Mean duration", summary.MeanDuration.Round(time.Second).String()},
			{"Mean epochs", fmt.Sprintf("%.1f", summary.MeanEpochs)},
		}

		fmt.Println(renderTable([]string{"METRIC", "LAST 30 DAYS"}, rows, 2))
		return nil
	},
}
