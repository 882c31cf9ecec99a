// Package transcription converts a project's uploaded audio into the
// canonical transcript.
//
// The stage is fatal: the transcript feeds every generation job, so a
// provider failure fails the whole pipeline run. Provider offsets are
// normalized from milliseconds to seconds for segments and speakers;
// chapter offsets keep the provider's milliseconds because the key moment
// and YouTube timestamp jobs format from milliseconds directly.
package transcription

import (
	"context"
	"errors"
	"log/slog"

	"podforge/internal/logging"
	"podforge/internal/project"
	"podforge/internal/services"
	"podforge/internal/services/assemblyai"
)

// Provider produces a raw transcript for an audio URL.
type Provider interface {
	Transcribe(ctx context.Context, audioURL string) (*assemblyai.Transcript, error)
}

// Stage runs the transcription phase of the pipeline.
type Stage struct {
	provider Provider
	logger   *slog.Logger
}

// NewStage constructs the transcription stage.
func NewStage(provider Provider, logger *slog.Logger) *Stage {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Stage{
		provider: provider,
		logger:   logging.NewComponentLogger(logger, "transcription"),
	}
}

// Execute transcribes the project's audio and attaches the normalized
// transcript. Any failure is fatal for the pipeline run.
func (s *Stage) Execute(ctx context.Context, p *project.Project) error {
	if p.InputURL == "" {
		return services.Wrap(services.ErrValidation, "transcription", "execute", "project has no input url", nil)
	}

	log := logging.WithContext(ctx, s.logger)
	log.Info("submitting audio for transcription", logging.String("input_url", p.InputURL))

	raw, err := s.provider.Transcribe(ctx, p.InputURL)
	if err != nil {
		if errors.Is(err, assemblyai.ErrTranscriptFailed) {
			return services.Wrap(services.ErrFatalStage, "transcription", "transcribe", "provider rejected audio", err)
		}
		return services.Wrap(services.ErrFatalStage, "transcription", "transcribe", "transcription provider unavailable", err)
	}
	if raw.Text == "" {
		return services.Wrap(services.ErrFatalStage, "transcription", "transcribe", "provider returned empty transcript", nil)
	}

	p.Transcript = Normalize(raw)
	if p.FileDuration <= 0 && raw.AudioDuration > 0 {
		p.FileDuration = raw.AudioDuration
	}

	log.Info("transcription completed",
		logging.Int("segments", len(p.Transcript.Segments)),
		logging.Int("speakers", len(p.Transcript.Speakers)),
		logging.Int("chapters", len(p.Transcript.Chapters)),
	)
	return nil
}

// Normalize converts a provider transcript into the canonical form stored
// on the project.
func Normalize(raw *assemblyai.Transcript) *project.Transcript {
	t := &project.Transcript{Text: raw.Text}

	if len(raw.Utterances) > 0 {
		t.Segments = make([]project.Segment, 0, len(raw.Utterances))
		t.Speakers = make([]project.Speaker, 0, len(raw.Utterances))
		for i, u := range raw.Utterances {
			segment := project.Segment{
				ID:    i,
				Start: msToSeconds(u.Start),
				End:   msToSeconds(u.End),
				Text:  u.Text,
			}
			for _, w := range u.Words {
				segment.Words = append(segment.Words, project.Word{
					Word:  w.Text,
					Start: msToSeconds(w.Start),
					End:   msToSeconds(w.End),
				})
			}
			t.Segments = append(t.Segments, segment)
			t.Speakers = append(t.Speakers, project.Speaker{
				Speaker:    u.Speaker,
				Start:      msToSeconds(u.Start),
				End:        msToSeconds(u.End),
				Text:       u.Text,
				Confidence: u.Confidence,
			})
		}
	} else if len(raw.Words) > 0 {
		// No diarization: fall back to a single segment spanning all words.
		words := make([]project.Word, 0, len(raw.Words))
		for _, w := range raw.Words {
			words = append(words, project.Word{
				Word:  w.Text,
				Start: msToSeconds(w.Start),
				End:   msToSeconds(w.End),
			})
		}
		t.Segments = []project.Segment{{
			ID:    0,
			Start: words[0].Start,
			End:   words[len(words)-1].End,
			Text:  raw.Text,
			Words: words,
		}}
	} else {
		t.Segments = []project.Segment{{ID: 0, Text: raw.Text}}
	}

	for _, ch := range raw.Chapters {
		t.Chapters = append(t.Chapters, project.Chapter{
			Start:    ch.Start,
			End:      ch.End,
			Headline: ch.Headline,
			Summary:  ch.Summary,
			Gist:     ch.Gist,
		})
	}
	return t
}

func msToSeconds(ms int64) float64 {
	return float64(ms) / 1000
}
