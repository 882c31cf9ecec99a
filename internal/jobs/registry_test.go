package jobs_test

import (
	"testing"

	"podforge/internal/jobs"
	"podforge/internal/plan"
)

func TestForTier(t *testing.T) {
	cases := []struct {
		tier plan.Tier
		want []jobs.Name
	}{
		{plan.TierFree, []jobs.Name{jobs.Summary}},
		{plan.TierPro, []jobs.Name{jobs.Summary, jobs.SocialPosts, jobs.Titles, jobs.Hashtags}},
		{plan.TierUltra, []jobs.Name{
			jobs.Summary, jobs.SocialPosts, jobs.Titles, jobs.Hashtags,
			jobs.YouTubeTimestamps, jobs.KeyMoments,
		}},
	}
	for _, tc := range cases {
		got := jobs.ForTier(tc.tier)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.tier, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: got %v, want %v", tc.tier, got, tc.want)
			}
		}
	}
}

func TestDiarizationHasNoJob(t *testing.T) {
	if _, ok := jobs.ForFeature(plan.FeatureSpeakerDiarization); ok {
		t.Fatal("speaker diarization should not map to a generator job")
	}
}

func TestParse(t *testing.T) {
	if name, ok := jobs.Parse("youtubeTimestamps"); !ok || name != jobs.YouTubeTimestamps {
		t.Fatalf("Parse = %q, %v", name, ok)
	}
	if _, ok := jobs.Parse("transcribe"); ok {
		t.Fatal("unknown job should not parse")
	}
	if !jobs.Known(jobs.KeyMoments) {
		t.Fatal("keyMoments should be known")
	}
}
