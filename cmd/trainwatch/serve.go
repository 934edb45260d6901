package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/trainwatch/trainwatch/internal/config"
	"github.com/trainwatch/trainwatch/internal/core"
	"github.com/trainwatch/trainwatch/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the training event relay server",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		port, _ := cmd.Flags().GetInt("port")

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		if port > 0 {
			cfg.Server.Port = port
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

		factory := func(name string) (*core.Callback, error) {
			cb, err := core.New(core.Config{
				Name:      name,
				Frequency: cfg.Frequency,
			}, notifiers...)
			if err != nil {
				return nil, err
			}
			cb.SetRecordFunc(func(run core.Run, channel, message, status string) {
				if err := db.AppendNotification(run.ID, channel, message, status); err != nil {
					log.Printf("[serve] persist notification: %v", err)
				}
			})
			return cb, nil
		}

		handler := server.NewHandler(cfg.Server.Secret, db, factory)
		srv := server.NewServer(cfg.Server, handler)

		return srv.ListenAndServe(cmd.Context())
	},
}
