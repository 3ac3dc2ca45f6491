// Package errors holds the sentinel errors shared across gowheel packages
// together with small wrapping helpers.
package errors

import (
	"errors"
	"fmt"
)

// Common error types.
var (
	// Archive identity errors.
	ErrMalformedIdentity = fmt.Errorf("malformed wheel filename")
	ErrUnsupportedWheel  = fmt.Errorf("wheel is not supported on this platform")

	// Install errors.
	ErrMissingMetadata   = fmt.Errorf(".dist-info directory not found")
	ErrAmbiguousMetadata = fmt.Errorf("multiple .dist-info directories")
	ErrRecordMissing     = fmt.Errorf("RECORD file not found")
	ErrRelocation        = fmt.Errorf("failed to relocate wheel files")

	// Scheme errors.
	ErrInvalidScheme   = fmt.Errorf("invalid install scheme")
	ErrUnknownCategory = fmt.Errorf("unknown scheme category")

	// Build errors.
	ErrBuildFailed        = fmt.Errorf("failed building wheel")
	ErrNoBuildRunner      = fmt.Errorf("build runner is not configured")
	ErrMissingSourceDir   = fmt.Errorf("source directory is required")
	ErrMissingInterpreter = fmt.Errorf("interpreter path is required")

	// Config errors.
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")
	ErrConfigDirectory   = fmt.Errorf("failed to create config directory")

	// Hook errors.
	ErrHookTypeEmpty = fmt.Errorf("hook type cannot be empty")
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
	ErrHookLoad      = fmt.Errorf("failed to load hook")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors, or nil if all are nil.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
