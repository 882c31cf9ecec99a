package generation

import (
	"context"
	"fmt"

	"podforge/internal/project"
	"podforge/internal/services/llm"
)

const summarySystemPrompt = `You are an expert podcast editor who distills episodes into tight, accurate summaries. Always respond with valid JSON.`

const summaryUserTemplate = `Summarize this podcast transcript.

Return ONLY valid JSON in this exact format:
{
  "full": "2-3 paragraph narrative summary",
  "bullets": ["key point", "key point", "key point"],
  "insights": ["actionable insight", "actionable insight"],
  "tldr": "one sentence summary"
}

Rules:
- "full" is plain prose, no markdown
- "bullets" has 4-7 entries
- "insights" has 2-5 entries
- "tldr" is a single sentence under 30 words

TRANSCRIPT:
%s`

func (g *Generators) generateSummary(ctx context.Context, transcript *project.Transcript) (*project.SummaryContent, error) {
	payload, err := g.chat.CompleteJSON(ctx, summarySystemPrompt,
		fmt.Sprintf(summaryUserTemplate, truncateTranscript(transcript.Text)))
	if err != nil {
		return nil, fmt.Errorf("generate summary: %w", err)
	}
	var parsed project.SummaryContent
	if err := llm.DecodeJSON(payload, &parsed); err != nil {
		return nil, fmt.Errorf("generate summary: parse payload: %w", err)
	}
	if parsed.Full == "" && parsed.TLDR == "" {
		return nil, fmt.Errorf("generate summary: model returned empty summary")
	}
	return &parsed, nil
}

const socialSystemPrompt = `You are a social media manager who turns podcast episodes into platform-native posts. Always respond with valid JSON.`

const socialUserTemplate = `Write one promotional post per platform for this podcast episode.

Return ONLY valid JSON in this exact format:
{
  "twitter": "post under 280 characters",
  "linkedin": "professional post, 2-3 short paragraphs",
  "instagram": "casual post with line breaks, no hashtags",
  "tiktok": "hook-driven caption under 150 characters",
  "youtube": "video description paragraph",
  "facebook": "conversational post, 1-2 paragraphs"
}

Rules:
- Each post must stand alone without the episode attached
- Match each platform's tone
- Do not invent facts that are not in the transcript

TRANSCRIPT:
%s`

func (g *Generators) generateSocialPosts(ctx context.Context, transcript *project.Transcript) (*project.SocialPostsContent, error) {
	payload, err := g.chat.CompleteJSON(ctx, socialSystemPrompt,
		fmt.Sprintf(socialUserTemplate, truncateTranscript(transcript.Text)))
	if err != nil {
		return nil, fmt.Errorf("generate social posts: %w", err)
	}
	var parsed project.SocialPostsContent
	if err := llm.DecodeJSON(payload, &parsed); err != nil {
		return nil, fmt.Errorf("generate social posts: parse payload: %w", err)
	}
	return &parsed, nil
}

const titlesSystemPrompt = `You are a content strategist who writes titles that earn clicks without misleading. Always respond with valid JSON.`

const titlesUserTemplate = `Suggest titles and keywords for this podcast episode.

Return ONLY valid JSON in this exact format:
{
  "youtubeShort": ["title under 60 characters", "..."],
  "youtubeLong": ["descriptive title up to 100 characters", "..."],
  "podcastTitles": ["episode title", "..."],
  "seoKeywords": ["keyword phrase", "..."]
}

Rules:
- 4-6 entries per array
- No clickbait that the episode cannot deliver
- seoKeywords are lowercase search phrases, not hashtags

TRANSCRIPT:
%s`

func (g *Generators) generateTitles(ctx context.Context, transcript *project.Transcript) (*project.TitlesContent, error) {
	payload, err := g.chat.CompleteJSON(ctx, titlesSystemPrompt,
		fmt.Sprintf(titlesUserTemplate, truncateTranscript(transcript.Text)))
	if err != nil {
		return nil, fmt.Errorf("generate titles: %w", err)
	}
	var parsed project.TitlesContent
	if err := llm.DecodeJSON(payload, &parsed); err != nil {
		return nil, fmt.Errorf("generate titles: parse payload: %w", err)
	}
	return &parsed, nil
}

const hashtagsSystemPrompt = `You are a social media strategist who picks hashtags that actually get discovered. Always respond with valid JSON.`

const hashtagsUserTemplate = `Suggest hashtags for this podcast episode, tuned per platform.

Return ONLY valid JSON in this exact format:
{
  "youtube": ["#tag", "..."],
  "instagram": ["#tag", "..."],
  "tiktok": ["#tag", "..."],
  "linkedin": ["#tag", "..."],
  "twitter": ["#tag", "..."]
}

Rules:
- 5-12 tags per platform, each starting with #
- Mix broad and niche tags
- No spaces inside a tag

TRANSCRIPT:
%s`

func (g *Generators) generateHashtags(ctx context.Context, transcript *project.Transcript) (*project.HashtagsContent, error) {
	payload, err := g.chat.CompleteJSON(ctx, hashtagsSystemPrompt,
		fmt.Sprintf(hashtagsUserTemplate, truncateTranscript(transcript.Text)))
	if err != nil {
		return nil, fmt.Errorf("generate hashtags: %w", err)
	}
	var parsed project.HashtagsContent
	if err := llm.DecodeJSON(payload, &parsed); err != nil {
		return nil, fmt.Errorf("generate hashtags: parse payload: %w", err)
	}
	return &parsed, nil
}
