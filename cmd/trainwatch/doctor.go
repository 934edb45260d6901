package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trainwatch/trainwatch/internal/config"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check environment and configuration health",
	RunE: func(cmd *cobra.Command, args []string) error {
		allOK := true

		fmt.Println("=== Trainwatch Doctor ===")
		fmt.Println()

		// Check the shell used to run training commands.
		if checkCommand("sh", "-c", "true") {
			fmt.Println("[OK] sh is available")
		} else {
			fmt.Println("[FAIL] sh is not available; training commands cannot run")
			allOK = false
		}

		// Check config file.
		configPath := "trainwatch.yaml"
		var cfg *config.Config
		if _, err := os.Stat(configPath); err == nil {
			fmt.Printf("[OK] config file found: %s\n", configPath)

			// Try to validate (may fail due to env vars).
			cfg, err = config.LoadConfig(configPath)
			if err != nil {
				fmt.Printf("[WARN] config validation: %v\n", err)
			} else {
				fmt.Println("[OK] config is valid")
			}
		} else {
			fmt.Printf("[WARN] config file not found: %s (run 'trainwatch init' to create one)\n", configPath)
		}

		// Check webhook URL source.
		if os.Getenv(config.EnvWebhookURL) != "" {
			fmt.Printf("[OK] %s is set\n", config.EnvWebhookURL)
		} else if cfg != nil && len(cfg.Notify) > 0 {
			fmt.Println("[OK] notification channels configured in config")
		} else {
			fmt.Printf("[WARN] %s is not set; the webhook URL will be prompted for\n", config.EnvWebhookURL)
		}

		// Check the trainer command binary.
		if cfg != nil && cfg.Trainer.Command != "" {
			binary := strings.Fields(cfg.Trainer.Command)[0]
			if _, err := exec.LookPath(binary); err == nil {
				fmt.Printf("[OK] trainer command found: %s\n", binary)
			} else {
				fmt.Printf("[FAIL] trainer command not in PATH: %s\n", binary)
				allOK = false
			}
		}

		// Check the storage directory.
		dbPath := defaultDBPath()
		if cfg != nil && cfg.Storage.Path != "" {
			dbPath = cfg.Storage.Path
		}
		dbDir := filepath.Dir(dbPath)
		if _, err := os.Stat(dbDir); err == nil {
			fmt.Printf("[OK] storage directory exists: %s\n", dbDir)
		} else {
			fmt.Printf("[INFO] storage directory not found: %s (will be created on first run)\n", dbDir)
		}

		fmt.Println()
		if allOK {
			fmt.Println("All checks passed!")
		} else {
			fmt.Println("Some checks failed. Please fix the issues above.")
		}

		return nil
	},
}

// checkCommand checks if a command is available in PATH.
func checkCommand(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
