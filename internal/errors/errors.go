package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/tracklit/internal/logger"
)

var (
	// ErrNotFound is returned when an operation targets a record that does not exist.
	ErrNotFound = stderrors.New("entity not found")
	// ErrUnsupported is returned for operations the active backend cannot perform.
	ErrUnsupported = stderrors.New("not supported on this backend")
	// ErrUnsupportedVersion is returned when a snapshot bundle has a version other than 1.
	ErrUnsupportedVersion = stderrors.New("unsupported snapshot version")
	// ErrStorageUnavailable is returned when exclusive ownership of the database cannot be obtained.
	ErrStorageUnavailable = stderrors.New("storage unavailable")
	// ErrInvalidRequest is returned for unknown request types and malformed payloads.
	ErrInvalidRequest = stderrors.New("invalid request")
	// ErrIntegrity is returned when a snapshot references parents that exist nowhere.
	ErrIntegrity = stderrors.New("referential integrity violation")
)

// NotFound wraps ErrNotFound with the entity kind and id
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
