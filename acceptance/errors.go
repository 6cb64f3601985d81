package acceptance

import (
	"errors"
	"fmt"
)

// BaselineChannel is the channel reported by a failure of the all-off check
// that precedes the per-channel steps.
const BaselineChannel = -1

// ErrNoInputs is returned when an input read reply carries no payload.
var ErrNoInputs = errors.New("acceptance: reply carries no input state")

// VerificationFailure reports that the inputs read back did not match the
// relay state just set.
type VerificationFailure struct {
	// Channel is the relay under test, or BaselineChannel.
	Channel  int
	Expected byte
	Actual   byte
}

func (e *VerificationFailure) Error() string {
	if e.Channel == BaselineChannel {
		return fmt.Sprintf("acceptance: baseline check: expected inputs 0x%02X, got 0x%02X", e.Expected, e.Actual)
	}

	return fmt.Sprintf("acceptance: channel %d: expected inputs 0x%02X, got 0x%02X", e.Channel, e.Expected, e.Actual)
}

// StepError wraps the failure of a transaction with the step that issued it.
type StepError struct {
	Action  Action
	Channel int
	Err     error
}

func (e *StepError) Error() string {
	if e.Channel == BaselineChannel {
		return fmt.Sprintf("acceptance: %s: %v", e.Action, e.Err)
	}

	return fmt.Sprintf("acceptance: %s %d: %v", e.Action, e.Channel, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
