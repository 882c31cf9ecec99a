package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration invariants. Provider credentials are not
// required here so read-only CLI commands work without them; the daemon
// enforces them at startup via ValidateProviders.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return fmt.Errorf("paths.data_dir must not be empty")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return fmt.Errorf("paths.log_dir must not be empty")
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Workflow.GenerationConcurrency > 6 {
		return fmt.Errorf("workflow.generation_concurrency: at most 6 jobs fan out per project")
	}
	return nil
}

// ValidateProviders checks that external provider credentials are configured.
func (c *Config) ValidateProviders() error {
	if c.Transcription.APIKey == "" {
		return fmt.Errorf("transcription.api_key is required")
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	return nil
}
