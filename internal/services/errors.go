package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks malformed or missing request input. Never retried.
	ErrValidation = errors.New("validation error")
	// ErrAuthorization marks requests whose caller does not own the target
	// project or is unauthenticated. Never retried.
	ErrAuthorization = errors.New("authorization error")
	// ErrNotFound marks lookups of projects that do not exist or were
	// soft-deleted.
	ErrNotFound = errors.New("not found")
	// ErrEntitlement marks requests that exceed the caller's plan limits or
	// ask for work the plan has nothing left to generate.
	ErrEntitlement = errors.New("entitlement error")
	// ErrFatalStage marks stage failures that abort the whole pipeline.
	ErrFatalStage = errors.New("fatal stage error")
	// ErrProvider marks a provider-level failure reported by an external
	// service, as opposed to a transport fault reaching it.
	ErrProvider = errors.New("provider error")
	// ErrInfrastructure marks failures to reach the persistence layer
	// itself; these cannot be recorded as project state.
	ErrInfrastructure = errors.New("infrastructure error")
	// ErrTransient marks failures worth retrying at the event level.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error should abort the whole pipeline rather
// than be recorded as an isolated per-job failure.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFatalStage) || errors.Is(err, ErrInfrastructure)
}

// Message extracts the human-readable portion of a wrapped error: everything
// after the sentinel prefix, or the full error text when no marker matches.
func Message(err error) string {
	if err == nil {
		return ""
	}
	text := err.Error()
	for _, marker := range []error{
		ErrValidation, ErrAuthorization, ErrNotFound, ErrEntitlement,
		ErrFatalStage, ErrProvider, ErrInfrastructure, ErrTransient,
	} {
		prefix := marker.Error() + ": "
		if strings.HasPrefix(text, prefix) {
			return strings.TrimPrefix(text, prefix)
		}
	}
	return text
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
