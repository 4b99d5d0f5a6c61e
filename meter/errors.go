package meter

import (
	"errors"
	"fmt"
)

// ErrNotResponding indicates the device never answered the wake sequence.
// Returned by Open; after New+Wakeup the same condition shows up as a
// false Active flag instead. The device may simply be waiting for the user
// to press its connect button.
var ErrNotResponding = errors.New("device is not responding to wakeup")

// EmptyResponseError indicates the device returned no data for a command
// that requires some. The underlying protocol outcome is a legitimate
// "nothing to say"; at this level, for these commands, it is a failure.
type EmptyResponseError struct {
	// Command is the command that went unanswered
	Command string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("%s: device returned no data", e.Command)
}
