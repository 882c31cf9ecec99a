package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"podforge/internal/project"
	"podforge/internal/services/llm"
	"podforge/internal/timefmt"
)

// maxChapters bounds how many provider chapters feed the YouTube timestamp
// prompt.
const maxChapters = 100

// generateKeyMoments maps provider chapters straight to key moments. No
// chapters is a valid outcome, not an error: short episodes often have none.
func generateKeyMoments(transcript *project.Transcript) []project.KeyMoment {
	moments := make([]project.KeyMoment, 0, len(transcript.Chapters))
	for _, ch := range transcript.Chapters {
		startSeconds := float64(ch.Start) / 1000
		moments = append(moments, project.KeyMoment{
			Time:        timefmt.FormatTimestamp(startSeconds, timefmt.Options{PadHours: true, ForceHours: true}),
			Timestamp:   startSeconds,
			Text:        ch.Headline,
			Description: ch.Summary,
		})
	}
	return moments
}

const youtubeSystemPrompt = `You are a YouTube content expert who creates SHORT, DESCRIPTIVE TITLES for video chapters. CRITICAL: You create TITLES (like 'Introduction to AI'), NOT transcript text or full sentences. Always respond with valid JSON.`

type chapterTitle struct {
	Index int    `json:"index"`
	Title string `json:"title"`
}

// generateYouTubeTimestamps asks the model for a short title per chapter.
// A chapter whose title is missing from the answer falls back to the
// provider headline; only a transcript with no chapters at all is an error.
func (g *Generators) generateYouTubeTimestamps(ctx context.Context, transcript *project.Transcript) ([]project.YouTubeTimestamp, error) {
	if len(transcript.Chapters) == 0 {
		return nil, errors.New("generate youtube timestamps: no chapters available")
	}

	chapters := transcript.Chapters
	if len(chapters) > maxChapters {
		chapters = chapters[:maxChapters]
	}

	titles := map[int]string{}
	payload, err := g.chat.CompleteJSON(ctx, youtubeSystemPrompt, youtubePrompt(chapters))
	if err == nil {
		var parsed struct {
			Titles []chapterTitle `json:"titles"`
		}
		if decodeErr := llm.DecodeJSON(payload, &parsed); decodeErr == nil {
			for _, t := range parsed.Titles {
				if title := strings.TrimSpace(t.Title); title != "" {
					titles[t.Index] = title
				}
			}
		}
	}

	timestamps := make([]project.YouTubeTimestamp, 0, len(chapters))
	for i, ch := range chapters {
		description := titles[i]
		if description == "" {
			description = ch.Headline
		}
		timestamps = append(timestamps, project.YouTubeTimestamp{
			Timestamp:   timefmt.FormatTimestamp(float64(ch.Start)/1000, timefmt.Options{}),
			Description: description,
		})
	}
	return timestamps, nil
}

func youtubePrompt(chapters []project.Chapter) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Create a SHORT CHAPTER TITLE for each of these %d video chapters.

CRITICAL INSTRUCTIONS:
- DO NOT copy the transcript text
- DO NOT write full sentences
- Create 3-6 word TITLES only
- Think of these as chapter headings, not subtitles

CHAPTERS:
`, len(chapters))
	for i, ch := range chapters {
		fmt.Fprintf(&b, "Chapter %d: [%ds]\nContext: %s\nSummary: %s\n\n", i, ch.Start/1000, ch.Headline, ch.Summary)
	}
	b.WriteString(`Return ONLY valid JSON in this exact format:
{
  "titles": [
    {"index": 0, "title": "Introduction to the Topic"},
    {"index": 1, "title": "Setting Up Your Account"}
  ]
}`)
	return b.String()
}
