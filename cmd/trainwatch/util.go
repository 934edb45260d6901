package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/trainwatch/trainwatch/internal/adapter/notify"
	"github.com/trainwatch/trainwatch/internal/config"
	"github.com/trainwatch/trainwatch/internal/storage"
)

func defaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".trainwatch", "trainwatch.db")
}

// loadOptionalConfig loads the config file when it exists. A missing file
// is fine (defaults apply); a file that exists but fails to load is an
// error the user has to see.
func loadOptionalConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return cfg, nil
}

// openStorage opens the run history database, falling back to the default
// location under the user's home directory.
func openStorage(cfg *config.Config) (*storage.DB, error) {
	path := ""
	if cfg != nil {
		path = cfg.Storage.Path
	}
	if path == "" {
		path = defaultDBPath()
	}
	return storage.Open(path)
}

// buildNotifiers assembles notification channels from config. With no
// channels configured, a single Slack channel is built from the webhook URL
// resolution chain (flag, environment, interactive prompt).
func buildNotifiers(cfg *config.Config) ([]notify.Notifier, error) {
	if cfg == nil || len(cfg.Notify) == 0 {
		url, err := config.ResolveWebhookURL("")
		if err != nil {
			return nil, err
		}
		return []notify.Notifier{notify.NewWebhookNotifier("slack", url)}, nil
	}

	notifiers := make([]notify.Notifier, 0, len(cfg.Notify))
	for _, nc := range cfg.Notify {
		switch nc.Type {
		case "slack":
			url, err := config.ResolveWebhookURL(nc.Webhook)
			if err != nil {
				return nil, fmt.Errorf("slack channel: %w", err)
			}
			notifiers = append(notifiers, notify.NewWebhookNotifier("slack", url))
		case "discord":
			notifiers = append(notifiers, notify.NewWebhookNotifier("discord", nc.Webhook))
		case "comment":
			owner, repo, ok := splitRepo(nc.Repo)
			if !ok {
				return nil, fmt.Errorf("comment channel: invalid repo %q, want owner/repo", nc.Repo)
			}
			notifiers = append(notifiers, notify.NewCommentNotifier(owner, repo, nc.Issue, nc.Token))
		default:
			return nil, fmt.Errorf("unsupported notify type %q", nc.Type)
		}
	}
	return notifiers, nil
}

func splitRepo(full string) (owner, repo string, ok bool) {
	parts := strings.SplitN(full, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 2 {
		return s[:max]
	}
	return s[:max-2] + ".."
}
