package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// EnvWebhookURL is the environment variable consulted when no explicit
// Slack webhook URL is configured.
const EnvWebhookURL = "FASTAI_SLACK_WEBHOOK"

// ErrNoWebhookURL is returned when no webhook URL can be obtained from any
// source (explicit value, environment, interactive prompt).
var ErrNoWebhookURL = errors.New("no webhook URL configured")

// ResolveWebhookURL resolves the Slack incoming webhook URL using an ordered
// chain: the explicit value, then the FASTAI_SLACK_WEBHOOK environment
// variable, then an interactive no-echo prompt. Prompting only happens when
// stdin is a terminal; otherwise resolution fails with ErrNoWebhookURL.
func ResolveWebhookURL(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if v := strings.TrimSpace(os.Getenv(EnvWebhookURL)); v != "" {
		return v, nil
	}

	fd := os.Stdin.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return "", fmt.Errorf("%w: set %s or pass an explicit URL", ErrNoWebhookURL, EnvWebhookURL)
	}

	url, err := promptWebhookURL()
	if err != nil {
		return "", fmt.Errorf("read webhook URL: %w", err)
	}
	if url == "" {
		return "", fmt.Errorf("%w: empty input", ErrNoWebhookURL)
	}
	return url, nil
}

// promptWebhookURL reads the webhook URL from the terminal without echoing.
// The URL is a secret: anyone who has it can post to the Slack channel.
func promptWebhookURL() (string, error) {
	fmt.Fprintln(os.Stderr, "A Slack incoming webhook URL is required for sending notifications.")
	fmt.Fprintln(os.Stderr, "You can create one for your workspace: https://api.slack.com/incoming-webhooks")
	fmt.Fprint(os.Stderr, "Enter webhook URL: ")

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
