package mblp

import (
	"errors"
	"fmt"
)

// ErrInvalidFrame is wrapped by every decode failure. A caller waiting for a
// frame treats it exactly like "nothing received yet".
var ErrInvalidFrame = errors.New("mblp: invalid frame")

var (
	ErrShortFrame       = fmt.Errorf("%w: frame too short", ErrInvalidFrame)
	ErrBadPreamble      = fmt.Errorf("%w: bad preamble", ErrInvalidFrame)
	ErrInvalidLength    = fmt.Errorf("%w: invalid length byte", ErrInvalidFrame)
	ErrChecksumMismatch = fmt.Errorf("%w: checksum mismatch", ErrInvalidFrame)
)

// ErrPayloadTooLarge is returned when a payload does not fit the one-byte
// frame length field.
var ErrPayloadTooLarge = errors.New("mblp: payload too large")
