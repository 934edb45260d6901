package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trainwatch/trainwatch/internal/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "trainwatch",
	Short: "Trainwatch — training run notifications",
	Long:  "Trainwatch watches ML training runs and reports progress, completion and failures to Slack, Discord or GitHub issues.",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("trainwatch version %s\n", version)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			return fmt.Errorf("--config flag is required")
		}

		_, err := config.LoadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config validation failed: %v\n", err)
			return err
		}

		fmt.Printf("Config validation passed: %s\n", configPath)
		return nil
	},
}

func main() {
	// Register flags.
	validateCmd.Flags().StringP("config", "c", "", "Path to config file")
	_ = validateCmd.MarkFlagRequired("config")

	runCmd.Flags().StringP("config", "c", "trainwatch.yaml", "Path to config file")
	runCmd.Flags().String("command", "", "Override the training command from config")
	runCmd.Flags().IntP("frequency", "f", -1, "Override notification frequency (0 = final only)")

	serveCmd.Flags().StringP("config", "c", "trainwatch.yaml", "Path to config file")
	serveCmd.Flags().IntP("port", "p", 0, "Override relay server port")

	statusCmd.Flags().StringP("config", "c", "trainwatch.yaml", "Path to config file")
	statusCmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to list")

	logsCmd.Flags().StringP("config", "c", "trainwatch.yaml", "Path to config file")
	logsCmd.Flags().BoolP("follow", "f", false, "Follow notifications in real-time (polls every 2s)")

	notifyCmd.Flags().StringP("config", "c", "trainwatch.yaml", "Path to config file")

	statsCmd.Flags().StringP("config", "c", "trainwatch.yaml", "Path to config file")

	// Register all commands.
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(doctorCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
