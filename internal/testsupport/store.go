package testsupport

import (
	"context"
	"testing"

	"podforge/internal/config"
	"podforge/internal/plan"
	"podforge/internal/project"
	"podforge/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewProject inserts an uploaded project for tests using the provided store.
func NewProject(t testing.TB, st *store.Store, userID string, tier plan.Tier) *project.Project {
	t.Helper()

	p, err := st.CreateProject(context.Background(), &project.Project{
		UserID:   userID,
		InputURL: "https://blobs.example.com/" + userID + "/episode.mp3",
		FileName: "episode.mp3",
		FileSize: 4 << 20,
		MimeType: "audio/mpeg",
		Plan:     tier,
	})
	if err != nil {
		t.Fatalf("store.CreateProject: %v", err)
	}
	return p
}
