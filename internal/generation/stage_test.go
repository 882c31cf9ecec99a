package generation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"podforge/internal/jobs"
	"podforge/internal/project"
)

// fakeChat answers each prompt family with a canned payload and can be
// told to fail specific families.
type fakeChat struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (f *fakeChat) failJob(family string, err error) {
	if f.fail == nil {
		f.fail = make(map[string]error)
	}
	f.fail[family] = err
}

func (f *fakeChat) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	family := promptFamily(systemPrompt)
	f.mu.Lock()
	f.calls = append(f.calls, family)
	err := f.fail[family]
	f.mu.Unlock()
	if err != nil {
		return "", err
	}
	switch family {
	case "summary":
		return `{"full":"A long summary.","bullets":["a","b","c","d"],"insights":["x","y"],"tldr":"Short."}`, nil
	case "social":
		return `{"twitter":"t","linkedin":"l","instagram":"i","tiktok":"k","youtube":"y","facebook":"f"}`, nil
	case "titles":
		return `{"youtubeShort":["s"],"youtubeLong":["l"],"podcastTitles":["p"],"seoKeywords":["k"]}`, nil
	case "hashtags":
		return `{"youtube":["#a"],"instagram":["#b"],"tiktok":["#c"],"linkedin":["#d"],"twitter":["#e"]}`, nil
	case "youtube":
		return `{"titles":[{"index":0,"title":"Short Chapter Title"}]}`, nil
	default:
		return "", errors.New("unknown prompt")
	}
}

func promptFamily(systemPrompt string) string {
	switch {
	case strings.Contains(systemPrompt, "podcast editor"):
		return "summary"
	case strings.Contains(systemPrompt, "social media manager"):
		return "social"
	case strings.Contains(systemPrompt, "content strategist"):
		return "titles"
	case strings.Contains(systemPrompt, "social media strategist"):
		return "hashtags"
	case strings.Contains(systemPrompt, "YouTube content expert"):
		return "youtube"
	default:
		return "unknown"
	}
}

func transcriptWithChapters() *project.Transcript {
	return &project.Transcript{
		Text: "Welcome to the show. Today we talk about Go.",
		Segments: []project.Segment{
			{ID: 0, Start: 0, End: 30, Text: "Welcome to the show."},
		},
		Chapters: []project.Chapter{
			{Headline: "Welcome", Summary: "Opening remarks", Gist: "Intro", Start: 12000, End: 60000},
			{Headline: "Main Topic", Summary: "The discussion", Gist: "Topic", Start: 3900000, End: 4500000},
		},
	}
}

func ultraProject() *project.Project {
	return &project.Project{ID: 1, Transcript: transcriptWithChapters()}
}

func TestExecuteAllJobsSucceed(t *testing.T) {
	chat := &fakeChat{}
	stage := NewStage(NewGenerators(chat), 6, nil)

	outcome, err := stage.Execute(context.Background(), ultraProject(), jobs.All())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(outcome.Errors) != 0 {
		t.Fatalf("errors = %+v, want none", outcome.Errors)
	}
	for _, job := range jobs.All() {
		if !outcome.Content.Has(job) {
			t.Fatalf("missing %s in outcome content", job)
		}
	}
	if outcome.Content.Summary.TLDR != "Short." {
		t.Fatalf("summary = %+v", outcome.Content.Summary)
	}
	if got := outcome.Content.KeyMoments[0].Time; got != "00:00:12" {
		t.Fatalf("key moment time = %q, want forced hours", got)
	}
	if got := outcome.Content.YouTubeTimestamps[0].Timestamp; got != "00:12" {
		t.Fatalf("youtube timestamp = %q, want minutes form", got)
	}
	if got := outcome.Content.YouTubeTimestamps[1].Timestamp; got != "1:05:00" {
		t.Fatalf("youtube timestamp = %q, want hours once over an hour", got)
	}
}

func TestExecuteSingleJobOnFreePlan(t *testing.T) {
	chat := &fakeChat{}
	stage := NewStage(NewGenerators(chat), 6, nil)

	outcome, err := stage.Execute(context.Background(), ultraProject(), []jobs.Name{jobs.Summary})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !outcome.Content.Has(jobs.Summary) {
		t.Fatal("summary missing")
	}
	for _, job := range jobs.All()[1:] {
		if outcome.Content.Has(job) {
			t.Fatalf("unexpected %s content for single-job run", job)
		}
	}
	if len(chat.calls) != 1 {
		t.Fatalf("chat calls = %v, want just summary", chat.calls)
	}
}

func TestExecuteIsolatesFailures(t *testing.T) {
	chat := &fakeChat{}
	chat.failJob("titles", errors.New("rate limited"))
	stage := NewStage(NewGenerators(chat), 6, nil)

	outcome, err := stage.Execute(context.Background(), ultraProject(), jobs.All())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if _, ok := outcome.Errors[jobs.Titles]; !ok {
		t.Fatalf("errors = %+v, want titles entry", outcome.Errors)
	}
	if len(outcome.Errors) != 1 {
		t.Fatalf("errors = %+v, want only titles", outcome.Errors)
	}
	if outcome.Content.Has(jobs.Titles) {
		t.Fatal("failed job must not produce content")
	}
	for _, job := range []jobs.Name{jobs.Summary, jobs.SocialPosts, jobs.Hashtags, jobs.KeyMoments, jobs.YouTubeTimestamps} {
		if !outcome.Content.Has(job) {
			t.Fatalf("sibling %s should have settled despite titles failure", job)
		}
	}
}

func TestExecuteMissingTranscript(t *testing.T) {
	stage := NewStage(NewGenerators(&fakeChat{}), 6, nil)
	if _, err := stage.Execute(context.Background(), &project.Project{ID: 1}, jobs.All()); err == nil {
		t.Fatal("expected error without transcript")
	}
}

func TestKeyMomentsWithoutChapters(t *testing.T) {
	transcript := &project.Transcript{Text: "short episode"}
	moments := generateKeyMoments(transcript)
	if len(moments) != 0 {
		t.Fatalf("moments = %+v, want empty for chapterless transcript", moments)
	}
}

func TestYouTubeTimestampsWithoutChapters(t *testing.T) {
	chat := &fakeChat{}
	gens := NewGenerators(chat)
	transcript := &project.Transcript{Text: "short episode"}
	if _, err := gens.Run(context.Background(), jobs.YouTubeTimestamps, transcript); err == nil {
		t.Fatal("expected error without chapters")
	}
	if len(chat.calls) != 0 {
		t.Fatalf("chat calls = %v, want none before chapter check", chat.calls)
	}
}

func TestYouTubeTimestampsFallbackPerChapter(t *testing.T) {
	chat := &fakeChat{}
	gens := NewGenerators(chat)

	value, err := gens.Run(context.Background(), jobs.YouTubeTimestamps, transcriptWithChapters())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	timestamps := value.([]project.YouTubeTimestamp)
	if len(timestamps) != 2 {
		t.Fatalf("timestamps = %+v, want one per chapter", timestamps)
	}
	if timestamps[0].Description != "Short Chapter Title" {
		t.Fatalf("description = %q, want model title", timestamps[0].Description)
	}
	// Index 1 was missing from the model answer: headline fallback.
	if timestamps[1].Description != "Main Topic" {
		t.Fatalf("description = %q, want headline fallback", timestamps[1].Description)
	}
}

func TestYouTubeTimestampsMidSecondChapterStarts(t *testing.T) {
	chat := &fakeChat{}
	chat.failJob("youtube", errors.New("model unavailable"))
	gens := NewGenerators(chat)

	transcript := &project.Transcript{
		Text: "long episode",
		Chapters: []project.Chapter{
			{Headline: "Opening", Start: 12500, End: 60000},
			{Headline: "Closing", Start: 3599999, End: 3700000},
		},
	}
	value, err := gens.Run(context.Background(), jobs.YouTubeTimestamps, transcript)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	timestamps := value.([]project.YouTubeTimestamp)
	// Sub-second offsets floor to the containing second.
	if timestamps[0].Timestamp != "00:12" {
		t.Fatalf("timestamp = %q, want 00:12", timestamps[0].Timestamp)
	}
	if timestamps[1].Timestamp != "59:59" {
		t.Fatalf("timestamp = %q, want 59:59", timestamps[1].Timestamp)
	}
}

func TestYouTubeTimestampsModelFailureFallsBack(t *testing.T) {
	chat := &fakeChat{}
	chat.failJob("youtube", errors.New("model unavailable"))
	gens := NewGenerators(chat)

	value, err := gens.Run(context.Background(), jobs.YouTubeTimestamps, transcriptWithChapters())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	timestamps := value.([]project.YouTubeTimestamp)
	if timestamps[0].Description != "Welcome" || timestamps[1].Description != "Main Topic" {
		t.Fatalf("timestamps = %+v, want headline fallbacks", timestamps)
	}
}

func TestSummaryParseFailure(t *testing.T) {
	chat := &badJSONChat{}
	gens := NewGenerators(chat)
	if _, err := gens.Run(context.Background(), jobs.Summary, transcriptWithChapters()); err == nil {
		t.Fatal("expected parse error for non-JSON payload")
	}
}

type badJSONChat struct{}

func (badJSONChat) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return "sorry, I cannot help with that", nil
}
