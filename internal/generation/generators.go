package generation

import (
	"context"
	"fmt"
	"strings"

	"podforge/internal/jobs"
	"podforge/internal/project"
)

// maxTranscriptChars bounds the transcript text included in a prompt so
// long episodes stay inside the model's context window.
const maxTranscriptChars = 48000

// Chat issues JSON-only completions against the content generation model.
type Chat interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Generators runs individual content generation jobs.
type Generators struct {
	chat Chat
}

// NewGenerators constructs the job runner.
func NewGenerators(chat Chat) *Generators {
	return &Generators{chat: chat}
}

// Run executes one job against the transcript and returns its typed
// payload, suitable for Content.Set.
func (g *Generators) Run(ctx context.Context, job jobs.Name, transcript *project.Transcript) (any, error) {
	if transcript == nil || strings.TrimSpace(transcript.Text) == "" {
		return nil, fmt.Errorf("generate %s: transcript is empty", job)
	}
	switch job {
	case jobs.Summary:
		return g.generateSummary(ctx, transcript)
	case jobs.SocialPosts:
		return g.generateSocialPosts(ctx, transcript)
	case jobs.Titles:
		return g.generateTitles(ctx, transcript)
	case jobs.Hashtags:
		return g.generateHashtags(ctx, transcript)
	case jobs.KeyMoments:
		return generateKeyMoments(transcript), nil
	case jobs.YouTubeTimestamps:
		return g.generateYouTubeTimestamps(ctx, transcript)
	default:
		return nil, fmt.Errorf("generate %s: unknown job", job)
	}
}

func truncateTranscript(text string) string {
	runes := []rune(text)
	if len(runes) <= maxTranscriptChars {
		return text
	}
	return string(runes[:maxTranscriptChars]) + "\n[transcript truncated]"
}
