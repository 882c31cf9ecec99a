package workflow_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"podforge/internal/config"
	"podforge/internal/generation"
	"podforge/internal/jobs"
	"podforge/internal/plan"
	"podforge/internal/project"
	"podforge/internal/retry"
	"podforge/internal/services/assemblyai"
	"podforge/internal/store"
	"podforge/internal/testsupport"
	"podforge/internal/transcription"
	"podforge/internal/workflow"
)

type fakeProvider struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeProvider) Transcribe(ctx context.Context, audioURL string) (*assemblyai.Transcript, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &assemblyai.Transcript{
		ID:     "t-1",
		Status: "completed",
		Text:   "Welcome to the show. Today we talk about Go.",
		Utterances: []assemblyai.Utterance{
			{Speaker: "A", Start: 0, End: 30000, Text: "Welcome to the show.", Confidence: 0.95},
		},
		Chapters: []assemblyai.Chapter{
			{Headline: "Welcome", Summary: "Opening remarks", Gist: "Intro", Start: 12000, End: 60000},
		},
		AudioDuration: 540,
	}, nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeChat struct {
	mu   sync.Mutex
	fail map[string]error
}

func (f *fakeChat) failFamily(family string) {
	if f.fail == nil {
		f.fail = make(map[string]error)
	}
	f.fail[family] = errors.New(family + " unavailable")
}

func (f *fakeChat) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var family string
	switch {
	case strings.Contains(systemPrompt, "podcast editor"):
		family = "summary"
	case strings.Contains(systemPrompt, "social media manager"):
		family = "social"
	case strings.Contains(systemPrompt, "content strategist"):
		family = "titles"
	case strings.Contains(systemPrompt, "social media strategist"):
		family = "hashtags"
	case strings.Contains(systemPrompt, "YouTube content expert"):
		family = "youtube"
	}
	f.mu.Lock()
	err := f.fail[family]
	f.mu.Unlock()
	if err != nil {
		return "", err
	}
	switch family {
	case "summary":
		return `{"full":"A long summary.","bullets":["a","b","c","d"],"insights":["x"],"tldr":"Short."}`, nil
	case "social":
		return `{"twitter":"t","linkedin":"l","instagram":"i","tiktok":"k","youtube":"y","facebook":"f"}`, nil
	case "titles":
		return `{"youtubeShort":["s"],"youtubeLong":["l"],"podcastTitles":["p"],"seoKeywords":["k"]}`, nil
	case "hashtags":
		return `{"youtube":["#a"],"instagram":["#b"],"tiktok":["#c"],"linkedin":["#d"],"twitter":["#e"]}`, nil
	case "youtube":
		return `{"titles":[{"index":0,"title":"Warm Welcome"}]}`, nil
	default:
		return "", errors.New("unknown prompt")
	}
}

type harness struct {
	cfg      *config.Config
	store    *store.Store
	provider *fakeProvider
	chat     *fakeChat
	manager  *workflow.Manager
}

func newHarness(t *testing.T, opts ...testsupport.ConfigOption) *harness {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	st := testsupport.MustOpenStore(t, cfg)

	provider := &fakeProvider{}
	chat := &fakeChat{}
	transcriptionStage := transcription.NewStage(provider, nil)
	generationStage := generation.NewStage(generation.NewGenerators(chat), cfg.Workflow.GenerationConcurrency, nil)
	retryExec := retry.NewExecutor(st, generationStage, nil)

	return &harness{
		cfg:      cfg,
		store:    st,
		provider: provider,
		chat:     chat,
		manager:  workflow.NewManager(cfg, st, transcriptionStage, generationStage, retryExec, nil),
	}
}

func withMaxAttempts(n int) testsupport.ConfigOption {
	return func(cfg *config.Config) {
		cfg.Workflow.MaxPipelineAttempts = n
	}
}

func TestProcessProjectHappyPath(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	p := testsupport.NewProject(t, h.store, "user-1", plan.TierUltra)
	if err := h.manager.ProcessProject(ctx, p); err != nil {
		t.Fatalf("ProcessProject: %v", err)
	}

	got, err := h.store.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != project.StatusCompleted {
		t.Fatalf("status = %s, want completed", got.Status)
	}
	if got.CompletedAt == nil {
		t.Fatal("expected completion timestamp")
	}
	if got.JobStatus.Transcription != project.PhaseCompleted || got.JobStatus.ContentGeneration != project.PhaseCompleted {
		t.Fatalf("job status = %+v", got.JobStatus)
	}
	if got.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", got.Attempts)
	}
	for _, job := range jobs.All() {
		if !got.Content.Has(job) {
			t.Fatalf("missing %s content for ultra plan", job)
		}
	}
	if len(got.JobErrors) != 0 {
		t.Fatalf("job errors = %+v", got.JobErrors)
	}
}

func TestProcessProjectFreePlanGating(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	p := testsupport.NewProject(t, h.store, "user-1", plan.TierFree)
	if err := h.manager.ProcessProject(ctx, p); err != nil {
		t.Fatalf("ProcessProject: %v", err)
	}

	got, err := h.store.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.Content.Has(jobs.Summary) {
		t.Fatal("free plan should still get a summary")
	}
	for _, job := range []jobs.Name{jobs.SocialPosts, jobs.Titles, jobs.Hashtags, jobs.KeyMoments, jobs.YouTubeTimestamps} {
		if got.Content.Has(job) {
			t.Fatalf("unexpected %s content for free plan", job)
		}
	}
}

func TestProcessProjectPartialFailureStillCompletes(t *testing.T) {
	h := newHarness(t)
	h.chat.failFamily("titles")
	ctx := context.Background()

	p := testsupport.NewProject(t, h.store, "user-1", plan.TierPro)
	if err := h.manager.ProcessProject(ctx, p); err != nil {
		t.Fatalf("ProcessProject: %v", err)
	}

	got, err := h.store.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != project.StatusCompleted {
		t.Fatalf("status = %s, want completed despite job failure", got.Status)
	}
	if got.JobErrors[jobs.Titles] == "" {
		t.Fatalf("job errors = %+v, want titles entry", got.JobErrors)
	}
	if !got.Content.Has(jobs.SocialPosts) || !got.Content.Has(jobs.Hashtags) {
		t.Fatal("sibling jobs should have settled")
	}
}

func TestProcessProjectTranscriptionFailureExhaustsAttempts(t *testing.T) {
	h := newHarness(t, withMaxAttempts(1))
	h.provider.err = assemblyai.ErrTranscriptFailed
	ctx := context.Background()

	p := testsupport.NewProject(t, h.store, "user-1", plan.TierPro)
	if err := h.manager.ProcessProject(ctx, p); err == nil {
		t.Fatal("expected error for failed transcription")
	}

	got, err := h.store.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != project.StatusFailed {
		t.Fatalf("status = %s, want failed", got.Status)
	}
	if got.Error == nil || got.Error.Step != "transcription" {
		t.Fatalf("error = %+v, want transcription step", got.Error)
	}
	if got.JobStatus.ContentGeneration != project.PhasePending {
		t.Fatalf("generation phase = %s, want pending after fatal transcription", got.JobStatus.ContentGeneration)
	}
}

func TestProcessProjectRetainsAttemptBudget(t *testing.T) {
	h := newHarness(t, withMaxAttempts(3))
	h.provider.err = assemblyai.ErrTranscriptFailed
	ctx := context.Background()

	p := testsupport.NewProject(t, h.store, "user-1", plan.TierPro)
	if err := h.manager.ProcessProject(ctx, p); err == nil {
		t.Fatal("expected error for failed transcription")
	}

	got, err := h.store.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != project.StatusProcessing {
		t.Fatalf("status = %s, want processing while attempts remain", got.Status)
	}
	if got.Error != nil {
		t.Fatalf("error = %+v, want none before the budget is spent", got.Error)
	}
	if got.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", got.Attempts)
	}

	// The lane re-claims it; the provider recovers on the second run.
	h.provider.err = nil
	if err := h.manager.ProcessProject(ctx, got); err != nil {
		t.Fatalf("ProcessProject second run: %v", err)
	}
	final, err := h.store.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if final.Status != project.StatusCompleted || final.Attempts != 2 {
		t.Fatalf("status = %s attempts = %d, want completed on attempt 2", final.Status, final.Attempts)
	}
}

func TestProcessProjectResumeSkipsTranscription(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	p := testsupport.NewProject(t, h.store, "user-1", plan.TierFree)
	p.Status = project.StatusProcessing
	p.JobStatus.Transcription = project.PhaseCompleted
	p.Transcript = &project.Transcript{
		Text:     "Welcome to the show.",
		Segments: []project.Segment{{ID: 0, End: 30, Text: "Welcome to the show."}},
	}
	if err := h.store.Update(ctx, p); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := h.manager.ProcessProject(ctx, p); err != nil {
		t.Fatalf("ProcessProject: %v", err)
	}
	if h.provider.callCount() != 0 {
		t.Fatalf("provider calls = %d, want 0 on resume", h.provider.callCount())
	}

	got, err := h.store.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != project.StatusCompleted {
		t.Fatalf("status = %s, want completed", got.Status)
	}
}

func TestManagerLanesDrainQueues(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	p := testsupport.NewProject(t, h.store, "user-1", plan.TierFree)

	if err := h.manager.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer h.manager.Stop()

	deadline := time.Now().Add(10 * time.Second)
	for {
		got, err := h.store.GetByID(ctx, p.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Status == project.StatusCompleted {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("project still %s after deadline", got.Status)
		}
		time.Sleep(50 * time.Millisecond)
	}

	// Queue a retry through the retry lane as well.
	if _, err := h.store.EnqueueRetry(ctx, store.RetryRequest{
		ProjectID:    p.ID,
		Job:          jobs.Summary,
		UserID:       "user-1",
		OriginalPlan: plan.TierFree,
		CurrentPlan:  plan.TierFree,
	}); err != nil {
		t.Fatalf("EnqueueRetry: %v", err)
	}
	for {
		req, err := h.store.NextRetry(ctx)
		if err != nil {
			t.Fatalf("NextRetry: %v", err)
		}
		if req == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("retry request still queued after deadline")
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func TestManagerStartTwice(t *testing.T) {
	h := newHarness(t)
	if err := h.manager.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer h.manager.Stop()
	if err := h.manager.Start(context.Background()); err == nil {
		t.Fatal("expected error starting twice")
	}
}
