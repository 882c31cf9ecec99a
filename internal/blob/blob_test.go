package blob

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDelete(t *testing.T) {
	var method, auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		auth = r.Header.Get("Authorization")
	}))
	defer server.Close()

	deleter := NewHTTPDeleter(Config{AuthToken: "token"}, nil)
	if err := deleter.Delete(context.Background(), server.URL+"/user-1/episode.mp3"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if method != http.MethodDelete {
		t.Fatalf("method = %s", method)
	}
	if auth != "Bearer token" {
		t.Fatalf("authorization = %q", auth)
	}
}

func TestNewHTTPDeleterTimeouts(t *testing.T) {
	// A zero configured timeout falls back to the default instead of
	// disabling the client timeout.
	d := NewHTTPDeleter(Config{}, nil)
	if d.httpClient.Timeout != defaultTimeout {
		t.Fatalf("timeout = %v, want %v", d.httpClient.Timeout, defaultTimeout)
	}

	d = NewHTTPDeleter(Config{TimeoutSeconds: 3}, nil)
	if d.httpClient.Timeout != 3*time.Second {
		t.Fatalf("timeout = %v, want 3s", d.httpClient.Timeout)
	}
}

func TestDeleteMissingObjectSucceeds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	deleter := NewHTTPDeleter(Config{}, nil)
	if err := deleter.Delete(context.Background(), server.URL+"/gone.mp3"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestDeleteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	deleter := NewHTTPDeleter(Config{}, nil)
	if err := deleter.Delete(context.Background(), server.URL+"/broken.mp3"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestDeleteEmptyURL(t *testing.T) {
	deleter := NewHTTPDeleter(Config{}, nil)
	if err := deleter.Delete(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty url")
	}
}
