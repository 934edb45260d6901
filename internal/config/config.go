package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} references in config content.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// LoadConfig reads a YAML configuration file, substitutes ${VAR} references
// from the environment, parses into Config, and validates the result.
// Every ${VAR} must name a set environment variable; an unresolved
// reference is an error, never a silent empty value.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read file %s: %w", path, err)
	}

	resolved, err := substituteEnvVars(string(data))
	if err != nil {
		return nil, err
	}

	// An omitted frequency key means one notification per epoch; only an
	// explicit `frequency: 0` selects final-only mode.
	cfg := Config{Frequency: 1}
	if err := yaml.Unmarshal([]byte(resolved), &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse YAML: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// substituteEnvVars replaces every ${VAR} reference with its environment
// value, collecting the names of variables that are not set.
func substituteEnvVars(raw string) (string, error) {
	var unresolved []string
	seen := map[string]bool{}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		name := match[2 : len(match)-1] // strip ${ and }
		val, ok := os.LookupEnv(name)
		if !ok {
			if !seen[name] {
				seen[name] = true
				unresolved = append(unresolved, "${"+name+"}")
			}
			return match
		}
		return val
	})

	if len(unresolved) > 0 {
		return "", fmt.Errorf("config: unresolved variables found: %s",
			strings.Join(unresolved, ", "))
	}
	return resolved, nil
}
