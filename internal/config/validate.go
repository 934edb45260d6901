package config

import (
	"fmt"
	"strings"
)

// validNotifyTypes is the set of supported notification channels.
var validNotifyTypes = map[string]bool{
	"slack":   true,
	"discord": true,
	"comment": true,
}

// Validate checks the Config for completeness and correctness.
// It returns the first error encountered, prefixed with "config: ".
func Validate(cfg *Config) error {
	var errs []string

	// --- Required fields ---
	if cfg.Job.Name == "" {
		errs = append(errs, "config: job.name is required")
	}

	// --- Frequency range ---
	// 0 means a single notification at the end of training.
	if cfg.Frequency < 0 {
		errs = append(errs, fmt.Sprintf(
			"config: frequency must be >= 0, got %d", cfg.Frequency))
	}

	// --- Notification channel validation ---
	for i, n := range cfg.Notify {
		errs = append(errs, validateNotify(i, &n)...)
	}

	// --- Trainer validation ---
	if cfg.Trainer.Timeout < 0 {
		errs = append(errs, "config: trainer.timeout must not be negative")
	}

	// --- Server validation ---
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf(
			"config: server.port must be between 0 and 65535, got %d", cfg.Server.Port))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// validateNotify checks a single notification channel.
func validateNotify(idx int, n *NotifyConfig) []string {
	var errs []string
	prefix := fmt.Sprintf("config: notify[%d]", idx)

	if n.Type == "" {
		errs = append(errs, prefix+".type is required")
		return errs
	}
	if !validNotifyTypes[n.Type] {
		errs = append(errs, fmt.Sprintf(
			"%s.type '%s' is invalid; must be one of: slack, discord, comment",
			prefix, n.Type))
		return errs
	}

	switch n.Type {
	case "discord":
		// Discord has no env/prompt fallback; the webhook must be explicit.
		if n.Webhook == "" {
			errs = append(errs, prefix+".webhook is required for type 'discord'")
		}
	case "comment":
		if n.Repo == "" || !strings.Contains(n.Repo, "/") {
			errs = append(errs, prefix+".repo must be 'owner/repo' for type 'comment'")
		}
		if n.Issue <= 0 {
			errs = append(errs, prefix+".issue is required for type 'comment'")
		}
		if n.Token == "" {
			errs = append(errs, prefix+".token is required for type 'comment'")
		}
	}
	// A slack channel with an empty webhook is allowed: the URL is resolved
	// at construction time (explicit → environment → interactive prompt).

	return errs
}
