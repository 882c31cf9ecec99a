// Package blob removes uploaded source audio from blob storage.
//
// Deletion is best-effort cleanup after a project delete: the project row
// is already soft-deleted by the time the blob is removed, and a failure
// here is logged rather than surfaced to the user.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

// Deleter removes a stored object by its URL.
type Deleter interface {
	Delete(ctx context.Context, url string) error
}

// Config captures the settings for the HTTP deleter.
type Config struct {
	AuthToken      string
	TimeoutSeconds int
}

// HTTPDeleter deletes blobs with an authorized HTTP DELETE against the
// object URL.
type HTTPDeleter struct {
	token      string
	httpClient *http.Client
}

// NewHTTPDeleter constructs a deleter from configuration.
func NewHTTPDeleter(cfg Config, client *http.Client) *HTTPDeleter {
	if client == nil {
		timeout := defaultTimeout
		if cfg.TimeoutSeconds > 0 {
			timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPDeleter{
		token:      strings.TrimSpace(cfg.AuthToken),
		httpClient: client,
	}
}

// Delete removes the object at the URL. A 404 counts as success: the goal
// is absence, and repeated cleanup of the same URL must not fail.
func (d *HTTPDeleter) Delete(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return errors.New("blob delete: url required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("blob delete: new request: %w", err)
	}
	if d.token != "" {
		req.Header.Set("Authorization", "Bearer "+d.token)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("blob delete: http error: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("blob delete: http %d", resp.StatusCode)
	}
	return nil
}

// NopDeleter ignores every delete. Used when blob cleanup is unconfigured.
type NopDeleter struct{}

// Delete implements Deleter.
func (NopDeleter) Delete(context.Context, string) error { return nil }
