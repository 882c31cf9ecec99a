package plan

import "strings"

// Tier identifies a subscription level.
type Tier string

const (
	TierFree  Tier = "free"
	TierPro   Tier = "pro"
	TierUltra Tier = "ultra"
)

var allTiers = []Tier{TierFree, TierPro, TierUltra}

// AllTiers returns the known tiers ordered by increasing entitlement.
func AllTiers() []Tier {
	cp := make([]Tier, len(allTiers))
	copy(cp, allTiers)
	return cp
}

// Parse converts a string into a known Tier. Unknown or empty values map to
// TierFree, matching the upload event contract where a missing plan defaults
// to free.
func Parse(value string) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(value))) {
	case TierPro:
		return TierPro
	case TierUltra:
		return TierUltra
	default:
		return TierFree
	}
}

// Feature identifies a plan-gated capability.
type Feature string

const (
	FeatureSummary            Feature = "summary"
	FeatureSocialPosts        Feature = "social_posts"
	FeatureTitles             Feature = "titles"
	FeatureHashtags           Feature = "hashtags"
	FeatureYouTubeTimestamps  Feature = "youtube_timestamps"
	FeatureKeyMoments         Feature = "key_moments"
	FeatureSpeakerDiarization Feature = "speaker_diarization"
)

var tierFeatures = map[Tier][]Feature{
	TierFree: {FeatureSummary},
	TierPro: {
		FeatureSummary,
		FeatureSocialPosts,
		FeatureTitles,
		FeatureHashtags,
	},
	TierUltra: {
		FeatureSummary,
		FeatureSocialPosts,
		FeatureTitles,
		FeatureHashtags,
		FeatureYouTubeTimestamps,
		FeatureKeyMoments,
		FeatureSpeakerDiarization,
	},
}

// Features returns the entitled feature set for a tier, ordered from the
// cheapest tier's features upward.
func Features(tier Tier) []Feature {
	features, ok := tierFeatures[tier]
	if !ok {
		features = tierFeatures[TierFree]
	}
	cp := make([]Feature, len(features))
	copy(cp, features)
	return cp
}

// Entitled reports whether a tier includes a feature.
func Entitled(tier Tier, feature Feature) bool {
	for _, f := range tierFeatures[tier] {
		if f == feature {
			return true
		}
	}
	return false
}

// Unlimited is the sentinel for limits without a cap.
const Unlimited int64 = -1

// Limits captures the upload and project caps for a tier.
type Limits struct {
	// MaxProjects caps how many projects a user may hold. For the free tier
	// this is a lifetime count including soft-deleted projects; for paid
	// tiers only active projects count.
	MaxProjects int64
	// MaxFileSize caps uploads in bytes.
	MaxFileSize int64
	// MaxDuration caps audio length in seconds.
	MaxDuration int64
}

var tierLimits = map[Tier]Limits{
	TierFree: {
		MaxProjects: 3,
		MaxFileSize: 10 * 1024 * 1024,
		MaxDuration: 600,
	},
	TierPro: {
		MaxProjects: 30,
		MaxFileSize: 200 * 1024 * 1024,
		MaxDuration: 7200,
	},
	TierUltra: {
		MaxProjects: Unlimited,
		MaxFileSize: 3 * 1024 * 1024 * 1024,
		MaxDuration: Unlimited,
	},
}

// LimitsFor returns the limits for a tier.
func LimitsFor(tier Tier) Limits {
	limits, ok := tierLimits[tier]
	if !ok {
		return tierLimits[TierFree]
	}
	return limits
}

// CountsDeletedProjects reports whether soft-deleted projects count against
// the tier's project cap.
func CountsDeletedProjects(tier Tier) bool {
	return tier == TierFree
}
