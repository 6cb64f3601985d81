package station

import "errors"

var (
	// ErrNoConnection is returned by device operations when no port is open.
	ErrNoConnection = errors.New("station: no port connected")

	// ErrClosed is returned by operations on a closed station.
	ErrClosed = errors.New("station: closed")

	// ErrDeviceRejected is returned when the device answers with its error flag set.
	ErrDeviceRejected = errors.New("station: request rejected by device")

	// ErrInvalidReply is returned when a reply is too short for the requested value.
	ErrInvalidReply = errors.New("station: invalid reply")
)
