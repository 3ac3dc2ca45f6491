package installer

import (
	"fmt"

	"github.com/glorpus-work/gowheel/pkg/errors"
)

// RelocationError is returned when moving wheel content into the scheme
// directories fails. The moves made so far are undone before it is returned;
// RolledBack reports whether that fully succeeded.
type RelocationError struct {
	Src         string
	Dst         string
	Err         error
	RolledBack  bool
	RollbackErr error
}

// Error implements the error interface for RelocationError.
func (e *RelocationError) Error() string {
	msg := fmt.Sprintf("failed to move %s to %s: %v", e.Src, e.Dst, e.Err)
	if !e.RolledBack {
		msg += fmt.Sprintf(" (rollback incomplete: %v)", e.RollbackErr)
	}
	return msg
}

// Unwrap returns the underlying error for RelocationError.
func (e *RelocationError) Unwrap() error {
	return e.Err
}

// Is makes every RelocationError match errors.ErrRelocation.
func (e *RelocationError) Is(target error) bool {
	return target == errors.ErrRelocation
}
