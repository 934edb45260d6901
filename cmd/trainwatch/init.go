package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a trainwatch.yaml configuration template",
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath := filepath.Join(".", "trainwatch.yaml")

		if _, err := os.Stat(outPath); err == nil {
			return fmt.Errorf("trainwatch.yaml already exists; remove it first or use a different directory")
		}

		if err := os.WriteFile(outPath, []byte(configTemplate()), 0644); err != nil {
			return fmt.Errorf("write trainwatch.yaml: %w", err)
		}

		fmt.Println("Created trainwatch.yaml")
		fmt.Println("Edit the file and set your environment variables before running 'trainwatch validate'.")
		return nil
	},
}

func configTemplate() string {
	return `job:
  name: my-model
  description: "Training job description"

# Send an epoch notification every N epochs; 0 means final result only.
frequency: 1

notify:
  - type: slack
    webhook: ${FASTAI_SLACK_WEBHOOK}
  # - type: discord
  #   webhook: ${DISCORD_WEBHOOK}
  # - type: comment
  #   repo: owner/repo
  #   issue: 42
  #   token: ${GITHUB_TOKEN}

trainer:
  command: "python train.py"
  workdir: "."
  timeout: 2h
  env:
    PYTHONUNBUFFERED: "1"

server:
  port: 8080
  secret: ${TRAINWATCH_SECRET}

storage:
  path: ""
`
}
