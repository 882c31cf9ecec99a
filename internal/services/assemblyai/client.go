package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultHTTPTimeout     = 30 * time.Second
	defaultPollInterval    = 3 * time.Second
	defaultRetryAttempts   = 4
	defaultBackoffInterval = time.Second
	defaultBackoffMax      = 10 * time.Second
)

// ErrTranscriptFailed indicates the provider processed the submission and
// reported a failure. This is a provider verdict, not a transport fault.
var ErrTranscriptFailed = errors.New("transcript failed")

// Config captures the runtime settings required to talk to the provider.
type Config struct {
	APIKey              string
	BaseURL             string
	PollIntervalSeconds int
	TimeoutSeconds      int
}

// Client wraps the AssemblyAI v2 transcript API.
type Client struct {
	cfg          Config
	httpClient   *http.Client
	pollInterval time.Duration

	retryAttempts uint64
	newBackOff    func() backoff.BackOff
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithPollInterval overrides how often a pending transcript is polled.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// WithBackOff overrides the retry backoff policy (useful for tests).
func WithBackOff(factory func() backoff.BackOff) Option {
	return func(c *Client) {
		if factory != nil {
			c.newBackOff = factory
		}
	}
}

// NewClient constructs a transcription client using the supplied
// configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	pollInterval := defaultPollInterval
	if cfg.PollIntervalSeconds > 0 {
		pollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:  strings.TrimSpace(cfg.APIKey),
			BaseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		},
		httpClient:    &http.Client{Timeout: timeout},
		pollInterval:  pollInterval,
		retryAttempts: defaultRetryAttempts,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.newBackOff == nil {
		client.newBackOff = func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = defaultBackoffInterval
			bo.MaxInterval = defaultBackoffMax
			bo.MaxElapsedTime = 0
			return bo
		}
	}
	return client
}

// Word is one recognized word with millisecond offsets.
type Word struct {
	Text       string  `json:"text"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
	Confidence float64 `json:"confidence"`
	Speaker    string  `json:"speaker"`
}

// Utterance is one diarized span of speech with millisecond offsets.
type Utterance struct {
	Speaker    string  `json:"speaker"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Words      []Word  `json:"words"`
}

// Chapter is one auto-detected topical span with millisecond offsets.
type Chapter struct {
	Summary  string `json:"summary"`
	Headline string `json:"headline"`
	Gist     string `json:"gist"`
	Start    int64  `json:"start"`
	End      int64  `json:"end"`
}

// Transcript is the provider's transcript resource.
type Transcript struct {
	ID            string      `json:"id"`
	Status        string      `json:"status"`
	Text          string      `json:"text"`
	Words         []Word      `json:"words"`
	Utterances    []Utterance `json:"utterances"`
	Chapters      []Chapter   `json:"chapters"`
	AudioDuration float64     `json:"audio_duration"`
	Error         string      `json:"error"`
}

type submitRequest struct {
	AudioURL      string `json:"audio_url"`
	SpeakerLabels bool   `json:"speaker_labels"`
	AutoChapters  bool   `json:"auto_chapters"`
	FormatText    bool   `json:"format_text"`
	Punctuate     bool   `json:"punctuate"`
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("transcript request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Transcribe submits the audio URL and polls until the transcript reaches a
// terminal status. The context deadline bounds the whole operation.
func (c *Client) Transcribe(ctx context.Context, audioURL string) (*Transcript, error) {
	id, err := c.Submit(ctx, audioURL)
	if err != nil {
		return nil, err
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		transcript, err := c.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		switch transcript.Status {
		case "completed":
			return transcript, nil
		case "error":
			return nil, fmt.Errorf("%w: %s", ErrTranscriptFailed, strings.TrimSpace(transcript.Error))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Submit creates a transcript resource for the audio URL and returns its id.
func (c *Client) Submit(ctx context.Context, audioURL string) (string, error) {
	audioURL = strings.TrimSpace(audioURL)
	if audioURL == "" {
		return "", errors.New("transcript submit: audio url required")
	}
	if c.cfg.APIKey == "" {
		return "", errors.New("transcript submit: api key required")
	}

	payload := submitRequest{
		AudioURL:      audioURL,
		SpeakerLabels: true,
		AutoChapters:  true,
		FormatText:    true,
		Punctuate:     true,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("transcript submit: encode body: %w", err)
	}

	var transcript Transcript
	if err := c.doWithRetry(ctx, func(ctx context.Context) error {
		return c.sendOnce(ctx, http.MethodPost, "/transcript", encoded, &transcript)
	}); err != nil {
		return "", err
	}
	if transcript.ID == "" {
		return "", errors.New("transcript submit: response missing id")
	}
	return transcript.ID, nil
}

// Get fetches the transcript resource by id.
func (c *Client) Get(ctx context.Context, id string) (*Transcript, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("transcript get: id required")
	}

	var transcript Transcript
	if err := c.doWithRetry(ctx, func(ctx context.Context) error {
		return c.sendOnce(ctx, http.MethodGet, "/transcript/"+id, nil, &transcript)
	}); err != nil {
		return nil, err
	}
	return &transcript, nil
}

func (c *Client) doWithRetry(ctx context.Context, op func(context.Context) error) error {
	operation := func() error {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if retryable(err) {
			return err
		}
		return backoff.Permanent(err)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.retryAttempts), ctx)
	return backoff.Retry(operation, policy)
}

func (c *Client) sendOnce(ctx context.Context, method, path string, body []byte, target *Transcript) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("transcript request: new request: %w", err)
	}
	req.Header.Set("Authorization", c.cfg.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("transcript request: http error: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("transcript request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return &httpStatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("transcript request: decode response: %w", err)
	}
	return nil
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusRequestTimeout,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= http.StatusInternalServerError:
			return true
		default:
			return false
		}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
