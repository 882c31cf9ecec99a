package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"podforge/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for absent file")
	}
	if cfg.Workflow.MaxPipelineAttempts != 3 {
		t.Fatalf("default attempts = %d", cfg.Workflow.MaxPipelineAttempts)
	}
	if cfg.Workflow.GenerationConcurrency != 6 {
		t.Fatalf("default concurrency = %d", cfg.Workflow.GenerationConcurrency)
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Fatalf("data dir not expanded: %q", cfg.Paths.DataDir)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[llm]
api_key = "sk-test"
model = "openai/gpt-5-mini"

[workflow]
queue_poll_interval = 1
generation_concurrency = 4

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved=%q exists=%v", resolved, exists)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Fatalf("llm key = %q", cfg.LLM.APIKey)
	}
	if cfg.Workflow.GenerationConcurrency != 4 {
		t.Fatalf("concurrency = %d", cfg.Workflow.GenerationConcurrency)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("format = %q", cfg.Logging.Format)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected format error, got %v", err)
	}

	cfg = config.Default()
	cfg.Workflow.GenerationConcurrency = 12
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "generation_concurrency") {
		t.Fatalf("expected concurrency error, got %v", err)
	}
}

func TestValidateProvidersRequiresKeys(t *testing.T) {
	cfg := config.Default()
	if err := cfg.ValidateProviders(); err == nil {
		t.Fatal("expected error without credentials")
	}
	cfg.Transcription.APIKey = "aai"
	cfg.LLM.APIKey = "sk"
	if err := cfg.ValidateProviders(); err != nil {
		t.Fatalf("ValidateProviders: %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[workflow]") {
		t.Fatal("sample config missing workflow section")
	}
}
