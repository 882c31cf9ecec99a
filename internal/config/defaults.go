package config

// Default returns the baseline configuration before any file overrides.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: "~/.local/share/podforge",
			LogDir:  "~/.local/share/podforge/logs",
		},
		Transcription: Transcription{
			BaseURL:             "https://api.assemblyai.com/v2",
			PollIntervalSeconds: 3,
			TimeoutSeconds:      30,
		},
		LLM: LLM{
			BaseURL:        "https://openrouter.ai/api/v1/chat/completions",
			Model:          "openai/gpt-5-mini",
			Title:          "podforge",
			TimeoutSeconds: 60,
		},
		Blob: Blob{
			TimeoutSeconds: 15,
		},
		Workflow: Workflow{
			QueuePollInterval:     2,
			ErrorRetryInterval:    5,
			MaxPipelineAttempts:   3,
			GenerationConcurrency: 6,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
