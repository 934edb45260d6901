package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify <message>",
	Short: "Send an ad-hoc message to the configured channels",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")

		// Works without a config file: the webhook URL then comes from the
		// environment or an interactive prompt.
		cfg, err := loadOptionalConfig(configPath)
		if err != nil {
			return err
		}

		notifiers, err := buildNotifiers(cfg)
		if err != nil {
			return fmt.Errorf("build notifiers: %w", err)
		}

		message := strings.Join(args, " ")
		if cfg != nil && cfg.Job.Name != "" {
			message = fmt.Sprintf("[`%s`] %s", cfg.Job.Name, message)
		}

		failures := 0
		for _, n := range notifiers {
			if err := n.Notify(cmd.Context(), message); err != nil {
				log.Printf("[notify] %s failed: %v", n.Channel(), err)
				failures++
				continue
			}
			fmt.Printf("Sent to %s\n", n.Channel())
		}

		if failures > 0 {
			return fmt.Errorf("%d of %d channels failed", failures, len(notifiers))
		}
		return nil
	},
}
