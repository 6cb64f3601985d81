package link

import (
	"errors"
	"fmt"

	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/mblp"
)

var (
	// ErrIO reports a failure of the underlying port.
	ErrIO = errors.New("link: i/o error")

	// ErrTimeout reports that the reply did not arrive within the response timeout.
	ErrTimeout = errors.New("link: response timeout")

	// ErrPortNil is returned when an engine is created without a port.
	ErrPortNil = errors.New("link: port is nil")
)

// FrameError reports a reply that was received but could not be decoded.
// Received is the number of raw bytes read, for diagnostics.
type FrameError struct {
	Code     mblp.Code
	Received int
	Err      error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("link: invalid response to %s (%d bytes): %v", e.Code, e.Received, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// IsFrameError reports whether err is or wraps a *FrameError.
func IsFrameError(err error) bool {
	var fe *FrameError
	return errors.As(err, &fe)
}
