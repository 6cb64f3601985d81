package mblp

import (
	"fmt"
	"strings"
)

// Frame constants shared by commands and responses.
const (
	// Preamble is the first byte of every frame.
	Preamble byte = 0x02

	// NormalMarker is byte 1 of every request and of usual replies.
	NormalMarker byte = 0x01

	// ProbeIDMarker is byte 1 of the CPU ID probe exchange.
	ProbeIDMarker byte = 0x00

	// MaxFrameLen is the largest frame the one-byte length field can describe.
	MaxFrameLen = 0xFF
)

// Command frame layout.
const (
	// CommandOverhead is the length of a command with an empty payload:
	// 14 header bytes plus the checksum.
	CommandOverhead = 15

	// MaxCommandPayload is the largest payload a command can carry.
	MaxCommandPayload = MaxFrameLen - CommandOverhead

	cmdCodeOffset    = 12
	cmdPayloadOffset = 14
)

const (
	lengthOffset = 2
	dstOffset    = 4
	srcOffset    = 8
)

// Command is a request frame. A Command is immutable: it is built with
// NewCommand or ParseCommand and its accessors return copies.
type Command struct {
	destination Address
	source      Address
	code        Code
	payload     []byte
}

// NewCommand builds a request addressed to destination.
func NewCommand(code Code, destination, source Address, payload []byte) (Command, error) {
	if len(payload) > MaxCommandPayload {
		return Command{}, fmt.Errorf("%w: %d bytes, max %d", ErrPayloadTooLarge, len(payload), MaxCommandPayload)
	}

	return Command{
		destination: destination,
		source:      source,
		code:        code,
		payload:     cloneBytes(payload),
	}, nil
}

func (c Command) Destination() Address { return c.destination }

func (c Command) Source() Address { return c.source }

func (c Command) Code() Code { return c.code }

// DataLen returns the payload length.
func (c Command) DataLen() int { return len(c.payload) }

// Payload returns a copy of the payload.
func (c Command) Payload() []byte { return cloneBytes(c.payload) }

// Len returns the encoded frame length.
func (c Command) Len() int { return CommandOverhead + len(c.payload) }

// Encode serializes the command to a new frame.
func (c Command) Encode() []byte {
	return c.AppendEncode(make([]byte, 0, c.Len()))
}

// AppendEncode appends the encoded frame to dst and returns the extended slice.
func (c Command) AppendEncode(dst []byte) []byte {
	start := len(dst)
	hi, lo := c.code.Bytes()

	dst = append(dst, Preamble, NormalMarker, byte(c.Len()), 0x00)
	dst = append(dst, c.destination[:]...)
	dst = append(dst, c.source[:]...)
	dst = append(dst, hi, lo)
	dst = append(dst, c.payload...)

	return append(dst, Checksum(dst[start:]))
}

// ParseCommand decodes a request frame from the start of buf. Bytes after the
// declared frame length are ignored.
//
// Any failure wraps ErrInvalidFrame.
func ParseCommand(buf []byte) (Command, error) {
	n, err := checkFrame(buf, CommandOverhead)
	if err != nil {
		return Command{}, err
	}

	c := Command{
		code:    CodeFromBytes(buf[cmdCodeOffset], buf[cmdCodeOffset+1]),
		payload: cloneBytes(buf[cmdPayloadOffset : n-1]),
	}
	copy(c.destination[:], buf[dstOffset:dstOffset+4])
	copy(c.source[:], buf[srcOffset:srcOffset+4])

	return c, nil
}

func (c Command) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Command %s from %s to %s, %d bytes of data:", c.code, c.source, c.destination, len(c.payload))
	writeHex(&sb, c.payload)

	return sb.String()
}

// checkFrame validates preamble, length byte and checksum of a frame whose
// minimum length is overhead, and returns the declared frame length.
func checkFrame(buf []byte, overhead int) (int, error) {
	if len(buf) < overhead {
		return 0, fmt.Errorf("%w: got %d bytes, want at least %d", ErrShortFrame, len(buf), overhead)
	}

	if buf[0] != Preamble {
		return 0, fmt.Errorf("%w: got 0x%02X", ErrBadPreamble, buf[0])
	}

	n := int(buf[lengthOffset])
	if n < overhead {
		return 0, fmt.Errorf("%w: got %d, want at least %d", ErrInvalidLength, n, overhead)
	}

	if len(buf) < n {
		return 0, fmt.Errorf("%w: got %d bytes, frame declares %d", ErrShortFrame, len(buf), n)
	}

	if wire, calc, ok := verifyChecksum(buf, n); !ok {
		return 0, fmt.Errorf("%w: wire=0x%02X, computed=0x%02X", ErrChecksumMismatch, wire, calc)
	}

	return n, nil
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)

	return out
}

func writeHex(sb *strings.Builder, data []byte) {
	for _, b := range data {
		fmt.Fprintf(sb, " 0x%02X", b)
	}
}
