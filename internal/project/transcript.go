package project

// Transcript is the canonical normalized transcription of a project's audio.
// Segment and speaker offsets are in seconds; chapter offsets retain the
// provider's milliseconds. Immutable once saved.
type Transcript struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
	Speakers []Speaker `json:"speakers,omitempty"`
	Chapters []Chapter `json:"chapters,omitempty"`
}

// Segment is one timed span of transcript text.
type Segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

// Word carries word-level timing within a segment.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Speaker is one diarized utterance.
type Speaker struct {
	Speaker    string  `json:"speaker"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Chapter is a provider-detected topical span. Start and End are
// milliseconds as received from the provider.
type Chapter struct {
	Start    int64  `json:"start"`
	End      int64  `json:"end"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Gist     string `json:"gist"`
}
