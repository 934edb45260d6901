package config

import "time"

// Config is the top-level configuration for trainwatch.
type Config struct {
	Job       JobConfig      `yaml:"job"`
	Frequency int            `yaml:"frequency"`
	Notify    []NotifyConfig `yaml:"notify"`
	Trainer   TrainerConfig  `yaml:"trainer"`
	Server    ServerConfig   `yaml:"server"`
	Storage   StorageConfig  `yaml:"storage"`
}

// JobConfig holds training job metadata.
type JobConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// NotifyConfig holds a single notification channel.
type NotifyConfig struct {
	Type    string `yaml:"type"` // slack|discord|comment
	Webhook string `yaml:"webhook"`

	// comment channel fields
	Repo  string `yaml:"repo"` // owner/repo
	Issue int    `yaml:"issue"`
	Token string `yaml:"token"`
}

// TrainerConfig holds settings for running a local training command.
type TrainerConfig struct {
	Command string            `yaml:"command"`
	Workdir string            `yaml:"workdir"`
	Env     map[string]string `yaml:"env"`
	Timeout time.Duration     `yaml:"timeout"`
}

// ServerConfig holds event relay server settings.
type ServerConfig struct {
	Port   int    `yaml:"port"`
	Secret string `yaml:"secret"`
}

// StorageConfig holds run history database settings.
type StorageConfig struct {
	Path string `yaml:"path"`
}
