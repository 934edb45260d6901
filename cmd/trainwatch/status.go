package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/trainwatch/trainwatch/internal/core"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent training runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		limit, _ := cmd.Flags().GetInt("limit")

		// Config is optional here; without one the default database is used.
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

		if len(runs) == 0 {
			fmt.Println("No runs found.")
			return nil
		}

		if limit > 0 && len(runs) > limit {
			runs = runs[:limit]
		}

		rows := make([][]string, 0, len(runs))
		for _, r := range runs {
			epochs := strconv.Itoa(r.EpochsDone)
			if r.TotalEpochs > 0 {
				epochs = fmt.Sprintf("%d/%d", r.EpochsDone, r.TotalEpochs)
			}
			rows = append(rows, []string{
				truncate(r.ID, 12),
				truncate(r.Name, 24),
				r.Tag,
				phaseLabel(r),
				epochs,
				r.CreatedAt.Local().Format("2006-01-02 15:04"),
			})
		}

		fmt.Println(renderTable(
			[]string{"RUN", "NAME", "TAG", "PHASE", "EPOCHS", "STARTED"},
			rows,
			5,
		))
		return nil
	},
}

func phaseLabel(r core.Run) string {
	if r.Phase == core.PhaseFailed && r.FailureCause != "" {
		return fmt.Sprintf("failed (%s)", truncate(r.FailureCause, 24))
	}
	return string(r.Phase)
}
