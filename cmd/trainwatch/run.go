package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trainwatch/trainwatch/internal/adapter/trainer"
	"github.com/trainwatch/trainwatch/internal/config"
	"github.com/trainwatch/trainwatch/internal/core"
)

var runCmd = &cobra.Command{
	Use:   "run [-- command ...]",
	Short: "Run the training command and notify on progress",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		commandOverride, _ := cmd.Flags().GetString("command")
		frequencyOverride, _ := cmd.Flags().GetInt("frequency")

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// `trainwatch run -- python train.py` beats both config and --command.
		if len(args) > 0 {
			commandOverride = strings.Join(args, " ")
		}
		if commandOverride != "" {
			cfg.Trainer.Command = commandOverride
		}
		if cfg.Trainer.Command == "" {
			return fmt.Errorf("no training command configured (set trainer.command or pass --command)")
		}
		if frequencyOverride >= 0 {
			cfg.Frequency = frequencyOverride
		}

		notifiers, err := buildNotifiers(cfg)
		if err != nil {
			return fmt.Errorf("build notifiers: %w", err)
		}

		db, err := openStorage(cfg)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer db.Close()

		callback, err := core.New(core.Config{
			Name:      cfg.Job.Name,
			Frequency: cfg.Frequency,
		}, notifiers...)
		if err != nil {
			return fmt.Errorf("setup callback: %w", err)
		}

		callback.SetRecordFunc(func(run core.Run, channel, message, status string) {
			if err := db.SaveRun(&run); err != nil {
				log.Printf("[run] persist run: %v", err)
			}
			if err := db.AppendNotification(run.ID, channel, message, status); err != nil {
				log.Printf("[run] persist notification: %v", err)
			}
		})

		runner := trainer.New(cfg.Trainer, callback)

		fmt.Printf("Starting training run %q...\n", cfg.Job.Name)
		runErr := runner.Run(cmd.Context())

		// The run snapshot has the terminal phase by now; persist it even
		// when no notification was recorded along the way.
		final := callback.Run()
		if err := db.SaveRun(&final); err != nil {
			log.Printf("[run] persist final run: %v", err)
		}

		return runErr
	},
}
