package jobs

import (
	"strings"

	"podforge/internal/plan"
)

// Name identifies one content generation job. The set is closed; content
// slots on a project are keyed by these names.
type Name string

const (
	Summary           Name = "summary"
	SocialPosts       Name = "socialPosts"
	Titles            Name = "titles"
	Hashtags          Name = "hashtags"
	KeyMoments        Name = "keyMoments"
	YouTubeTimestamps Name = "youtubeTimestamps"
)

var allJobs = []Name{Summary, SocialPosts, Titles, Hashtags, KeyMoments, YouTubeTimestamps}

// All returns the ordered list of known job names.
func All() []Name {
	cp := make([]Name, len(allJobs))
	copy(cp, allJobs)
	return cp
}

// featureToJob maps plan features to generator jobs. FeatureSpeakerDiarization
// has no job: diarization output rides along with the transcript and is only
// UI-gated.
var featureToJob = map[plan.Feature]Name{
	plan.FeatureSummary:           Summary,
	plan.FeatureSocialPosts:       SocialPosts,
	plan.FeatureTitles:            Titles,
	plan.FeatureHashtags:          Hashtags,
	plan.FeatureKeyMoments:        KeyMoments,
	plan.FeatureYouTubeTimestamps: YouTubeTimestamps,
}

// ForFeature resolves the job generating a feature's content. The second
// return is false for features without a generator.
func ForFeature(feature plan.Feature) (Name, bool) {
	name, ok := featureToJob[feature]
	return name, ok
}

// ForTier resolves the ordered job set a tier is entitled to.
func ForTier(tier plan.Tier) []Name {
	features := plan.Features(tier)
	names := make([]Name, 0, len(features))
	for _, feature := range features {
		if name, ok := featureToJob[feature]; ok {
			names = append(names, name)
		}
	}
	return names
}

// Parse converts a string into a known job name.
func Parse(value string) (Name, bool) {
	trimmed := strings.TrimSpace(value)
	for _, name := range allJobs {
		if string(name) == trimmed {
			return name, true
		}
	}
	return "", false
}

// Known reports whether a job name is part of the closed set.
func Known(name Name) bool {
	_, ok := Parse(string(name))
	return ok
}
