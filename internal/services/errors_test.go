package services_test

import (
	"errors"
	"testing"

	"podforge/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	err := services.Wrap(services.ErrValidation, "upload", "validate inputs", "file name required", nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if got := services.Message(err); got != "upload: validate inputs: file name required" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := services.Wrap(services.ErrInfrastructure, "workflow", "persist status", "", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !services.IsFatal(err) {
		t.Fatal("infrastructure errors should be fatal")
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if services.IsFatal(err) {
		t.Fatal("transient errors are not fatal")
	}
}

func TestMessageWithoutMarker(t *testing.T) {
	if got := services.Message(errors.New("plain failure")); got != "plain failure" {
		t.Fatalf("unexpected message: %q", got)
	}
}
