package hooks

import (
	"github.com/glorpus-work/gowheel/pkg/errors"
)

// ErrUnsupportedHookEvent is returned when an unsupported hook event is used.
func ErrUnsupportedHookEvent(event string) error {
	return errors.Wrapf(errors.ErrHookExecution, "unsupported hook event: %s", event)
}
