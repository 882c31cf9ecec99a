package config

import "strings"

func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}

	c.Transcription.APIKey = strings.TrimSpace(c.Transcription.APIKey)
	c.Transcription.BaseURL = strings.TrimRight(strings.TrimSpace(c.Transcription.BaseURL), "/")
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	c.Blob.AuthToken = strings.TrimSpace(c.Blob.AuthToken)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	if c.Workflow.QueuePollInterval <= 0 {
		c.Workflow.QueuePollInterval = Default().Workflow.QueuePollInterval
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		c.Workflow.ErrorRetryInterval = Default().Workflow.ErrorRetryInterval
	}
	if c.Workflow.MaxPipelineAttempts <= 0 {
		c.Workflow.MaxPipelineAttempts = Default().Workflow.MaxPipelineAttempts
	}
	if c.Workflow.GenerationConcurrency <= 0 {
		c.Workflow.GenerationConcurrency = Default().Workflow.GenerationConcurrency
	}
	if c.Transcription.PollIntervalSeconds <= 0 {
		c.Transcription.PollIntervalSeconds = Default().Transcription.PollIntervalSeconds
	}
	return nil
}
