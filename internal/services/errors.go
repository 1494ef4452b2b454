package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfigInvalid marks a rejected credential, timezone, or search depth.
	ErrConfigInvalid = errors.New("configuration invalid")
	// ErrFetchFailed marks a remote provider failure or a malformed payload.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrOutOfRange marks navigation past either end of the queue.
	ErrOutOfRange = errors.New("out of range")
	// ErrStoreCorrupt marks persisted state that could not be read back.
	ErrStoreCorrupt = errors.New("store corrupt")
	// ErrPersistFailed marks a write to the store that did not complete.
	ErrPersistFailed = errors.New("persist failed")
	// ErrValidation marks caller input that was rejected before any work ran.
	ErrValidation = errors.New("validation error")
	// ErrNotInitialized marks an operation attempted before a credential was accepted.
	ErrNotInitialized = errors.New("not initialized")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrFetchFailed
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether err should halt the current navigation session.
// Only a corrupt queue qualifies; everything else is reported and the
// session keeps going.
func Fatal(err error) bool {
	return errors.Is(err, ErrStoreCorrupt)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
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
