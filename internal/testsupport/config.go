package testsupport

import (
	"path/filepath"
	"testing"

	"podforge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// Provider keys are stubbed so validation passes without real credentials.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Transcription.APIKey = "test"
	cfg.Transcription.PollIntervalSeconds = 1
	cfg.LLM.APIKey = "test"
	cfg.Workflow.QueuePollInterval = 1

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithTranscriptionBaseURL points the transcription client at a test server.
func WithTranscriptionBaseURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Transcription.BaseURL = url
	}
}

// WithLLMBaseURL points the content generation client at a test server.
func WithLLMBaseURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.LLM.BaseURL = url
	}
}
