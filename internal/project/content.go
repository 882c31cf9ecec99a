package project

import (
	"encoding/json"
	"fmt"

	"podforge/internal/jobs"
)

// SummaryContent is the summary job's payload.
type SummaryContent struct {
	Full     string   `json:"full"`
	Bullets  []string `json:"bullets"`
	Insights []string `json:"insights"`
	TLDR     string   `json:"tldr"`
}

// SocialPostsContent holds one platform-tuned post per network.
type SocialPostsContent struct {
	Twitter   string `json:"twitter"`
	LinkedIn  string `json:"linkedin"`
	Instagram string `json:"instagram"`
	TikTok    string `json:"tiktok"`
	YouTube   string `json:"youtube"`
	Facebook  string `json:"facebook"`
}

// TitlesContent holds title and keyword suggestions.
type TitlesContent struct {
	YouTubeShort  []string `json:"youtubeShort"`
	YouTubeLong   []string `json:"youtubeLong"`
	PodcastTitles []string `json:"podcastTitles"`
	SEOKeywords   []string `json:"seoKeywords"`
}

// HashtagsContent holds per-platform hashtag sets.
type HashtagsContent struct {
	YouTube   []string `json:"youtube"`
	Instagram []string `json:"instagram"`
	TikTok    []string `json:"tiktok"`
	LinkedIn  []string `json:"linkedin"`
	Twitter   []string `json:"twitter"`
}

// KeyMoment is one notable timestamp derived from transcript chapters.
type KeyMoment struct {
	Time        string  `json:"time"`
	Timestamp   float64 `json:"timestamp"`
	Text        string  `json:"text"`
	Description string  `json:"description"`
}

// YouTubeTimestamp is one chapter marker for a YouTube description.
type YouTubeTimestamp struct {
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
}

// Content holds one independently nullable slot per generation job. Slots
// have no cross-slot invariants and are individually overwritable.
type Content struct {
	Summary           *SummaryContent     `json:"summary,omitempty"`
	SocialPosts       *SocialPostsContent `json:"socialPosts,omitempty"`
	Titles            *TitlesContent      `json:"titles,omitempty"`
	Hashtags          *HashtagsContent    `json:"hashtags,omitempty"`
	KeyMoments        []KeyMoment         `json:"keyMoments,omitempty"`
	YouTubeTimestamps []YouTubeTimestamp  `json:"youtubeTimestamps,omitempty"`
}

// Has reports whether a job's slot is populated.
func (c *Content) Has(job jobs.Name) bool {
	switch job {
	case jobs.Summary:
		return c.Summary != nil
	case jobs.SocialPosts:
		return c.SocialPosts != nil
	case jobs.Titles:
		return c.Titles != nil
	case jobs.Hashtags:
		return c.Hashtags != nil
	case jobs.KeyMoments:
		return c.KeyMoments != nil
	case jobs.YouTubeTimestamps:
		return c.YouTubeTimestamps != nil
	default:
		return false
	}
}

// Set stores a job result in its slot. The value must be the job's payload
// type; anything else is rejected so provider output that fails to take the
// expected shape surfaces as a job failure instead of a silent mismatch.
func (c *Content) Set(job jobs.Name, value any) error {
	switch job {
	case jobs.Summary:
		v, ok := value.(*SummaryContent)
		if !ok {
			return fmt.Errorf("content slot %s: unexpected payload %T", job, value)
		}
		c.Summary = v
	case jobs.SocialPosts:
		v, ok := value.(*SocialPostsContent)
		if !ok {
			return fmt.Errorf("content slot %s: unexpected payload %T", job, value)
		}
		c.SocialPosts = v
	case jobs.Titles:
		v, ok := value.(*TitlesContent)
		if !ok {
			return fmt.Errorf("content slot %s: unexpected payload %T", job, value)
		}
		c.Titles = v
	case jobs.Hashtags:
		v, ok := value.(*HashtagsContent)
		if !ok {
			return fmt.Errorf("content slot %s: unexpected payload %T", job, value)
		}
		c.Hashtags = v
	case jobs.KeyMoments:
		v, ok := value.([]KeyMoment)
		if !ok {
			return fmt.Errorf("content slot %s: unexpected payload %T", job, value)
		}
		c.KeyMoments = v
	case jobs.YouTubeTimestamps:
		v, ok := value.([]YouTubeTimestamp)
		if !ok {
			return fmt.Errorf("content slot %s: unexpected payload %T", job, value)
		}
		c.YouTubeTimestamps = v
	default:
		return fmt.Errorf("content slot %s: unknown job", job)
	}
	return nil
}

// Merge copies populated slots from other into c, leaving other slots
// untouched. Used to apply a fan-out batch or a single-job retry result.
func (c *Content) Merge(other Content) {
	if other.Summary != nil {
		c.Summary = other.Summary
	}
	if other.SocialPosts != nil {
		c.SocialPosts = other.SocialPosts
	}
	if other.Titles != nil {
		c.Titles = other.Titles
	}
	if other.Hashtags != nil {
		c.Hashtags = other.Hashtags
	}
	if other.KeyMoments != nil {
		c.KeyMoments = other.KeyMoments
	}
	if other.YouTubeTimestamps != nil {
		c.YouTubeTimestamps = other.YouTubeTimestamps
	}
}

// MarshalSlot renders one slot as JSON for persistence; empty slots marshal
// to nil.
func (c *Content) MarshalSlot(job jobs.Name) ([]byte, error) {
	if !c.Has(job) {
		return nil, nil
	}
	switch job {
	case jobs.Summary:
		return json.Marshal(c.Summary)
	case jobs.SocialPosts:
		return json.Marshal(c.SocialPosts)
	case jobs.Titles:
		return json.Marshal(c.Titles)
	case jobs.Hashtags:
		return json.Marshal(c.Hashtags)
	case jobs.KeyMoments:
		return json.Marshal(c.KeyMoments)
	case jobs.YouTubeTimestamps:
		return json.Marshal(c.YouTubeTimestamps)
	default:
		return nil, fmt.Errorf("content slot %s: unknown job", job)
	}
}

// UnmarshalSlot parses persisted JSON into the slot for a job. Empty input
// leaves the slot nil.
func (c *Content) UnmarshalSlot(job jobs.Name, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	switch job {
	case jobs.Summary:
		c.Summary = new(SummaryContent)
		return json.Unmarshal(data, c.Summary)
	case jobs.SocialPosts:
		c.SocialPosts = new(SocialPostsContent)
		return json.Unmarshal(data, c.SocialPosts)
	case jobs.Titles:
		c.Titles = new(TitlesContent)
		return json.Unmarshal(data, c.Titles)
	case jobs.Hashtags:
		c.Hashtags = new(HashtagsContent)
		return json.Unmarshal(data, c.Hashtags)
	case jobs.KeyMoments:
		return json.Unmarshal(data, &c.KeyMoments)
	case jobs.YouTubeTimestamps:
		return json.Unmarshal(data, &c.YouTubeTimestamps)
	default:
		return fmt.Errorf("content slot %s: unknown job", job)
	}
}
