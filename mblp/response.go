package mblp

import (
	"fmt"
	"strings"
)

// Response frame layout.
const (
	// ResponseOverhead is the length of a usual reply with an empty payload:
	// 13 header bytes plus the checksum.
	ResponseOverhead = 14

	// MaxResponsePayload is the largest payload a usual reply can carry.
	MaxResponsePayload = MaxFrameLen - ResponseOverhead

	// CpuIDLen is the length of the CPU ID probe reply.
	CpuIDLen = 18

	// LegacyCipherLen is the length of the legacy handshake reply.
	LegacyCipherLen = 22

	rspErrOffset     = 12
	rspPayloadOffset = 13
)

// legacyCipherBody is the fixed content of bytes 12..20 of the legacy handshake
// reply. Older host software checks it verbatim; it carries no information.
var legacyCipherBody = [9]byte{0x00, 0x21, 0x01, 0x05, 0x05, 0x04, 0x02, 0xFF, 0x25}

// Shape selects the wire layout of a Response.
type Shape uint8

const (
	// ShapeUsual is the normal reply carrying an error flag and a payload.
	ShapeUsual Shape = iota
	// ShapeCpuID is the fixed reply to the CPU ID probe.
	ShapeCpuID
	// ShapeLegacyCipher is the canned reply to the legacy handshake.
	ShapeLegacyCipher
)

func (s Shape) String() string {
	switch s {
	case ShapeUsual:
		return "Usual"
	case ShapeCpuID:
		return "CpuID"
	case ShapeLegacyCipher:
		return "LegacyCipher"
	default:
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
}

// Response is a reply frame. Like Command, it is immutable.
//
// Only ShapeUsual responses carry an error flag and a payload. The other
// shapes are fixed byte sequences built on the device side; they are never
// produced by ParseResponse.
type Response struct {
	shape       Shape
	destination Address
	source      Address
	err         bool
	payload     []byte
}

// NewResponse builds a usual reply with the error flag cleared.
func NewResponse(destination, source Address, payload []byte) (Response, error) {
	return newUsual(destination, source, false, payload)
}

// NewErrorResponse builds a usual reply with the error flag set.
func NewErrorResponse(destination, source Address, payload []byte) (Response, error) {
	return newUsual(destination, source, true, payload)
}

func newUsual(destination, source Address, isErr bool, payload []byte) (Response, error) {
	if len(payload) > MaxResponsePayload {
		return Response{}, fmt.Errorf("%w: %d bytes, max %d", ErrPayloadTooLarge, len(payload), MaxResponsePayload)
	}

	return Response{
		shape:       ShapeUsual,
		destination: destination,
		source:      source,
		err:         isErr,
		payload:     cloneBytes(payload),
	}, nil
}

// NewCpuIDResponse builds the reply to the CPU ID probe. Its body echoes the
// source address.
func NewCpuIDResponse(destination, source Address) Response {
	return Response{shape: ShapeCpuID, destination: destination, source: source}
}

// NewLegacyCipherResponse builds the canned legacy handshake reply.
func NewLegacyCipherResponse(destination, source Address) Response {
	return Response{shape: ShapeLegacyCipher, destination: destination, source: source}
}

func (r Response) Shape() Shape { return r.shape }

func (r Response) Destination() Address { return r.destination }

func (r Response) Source() Address { return r.source }

// IsError reports the error flag of a usual reply.
func (r Response) IsError() bool { return r.err }

// DataLen returns the payload length.
func (r Response) DataLen() int { return len(r.payload) }

// Payload returns a copy of the payload.
func (r Response) Payload() []byte { return cloneBytes(r.payload) }

// PayloadByte returns the i-th payload byte, or false when the payload is
// shorter than i+1 bytes.
func (r Response) PayloadByte(i int) (byte, bool) {
	if i < 0 || i >= len(r.payload) {
		return 0, false
	}

	return r.payload[i], true
}

// Len returns the encoded frame length.
func (r Response) Len() int {
	switch r.shape {
	case ShapeCpuID:
		return CpuIDLen
	case ShapeLegacyCipher:
		return LegacyCipherLen
	default:
		return ResponseOverhead + len(r.payload)
	}
}

// Encode serializes the reply to a new frame.
func (r Response) Encode() []byte {
	return r.AppendEncode(make([]byte, 0, r.Len()))
}

// AppendEncode appends the encoded frame to dst and returns the extended slice.
func (r Response) AppendEncode(dst []byte) []byte {
	start := len(dst)

	marker := NormalMarker
	if r.shape == ShapeCpuID {
		marker = ProbeIDMarker
	}

	dst = append(dst, Preamble, marker, byte(r.Len()), 0x00)
	dst = append(dst, r.destination[:]...)
	dst = append(dst, r.source[:]...)

	switch r.shape {
	case ShapeCpuID:
		dst = append(dst, 0x00)
		dst = append(dst, r.source[:]...)
	case ShapeLegacyCipher:
		dst = append(dst, legacyCipherBody[:]...)
	default:
		var flag byte
		if r.err {
			flag = 1
		}
		dst = append(dst, flag)
		dst = append(dst, r.payload...)
	}

	return append(dst, Checksum(dst[start:]))
}

// ParseResponse decodes a usual reply from the start of buf. Bytes after the
// declared frame length are ignored.
//
// The error flag is decoded from byte 12: any non-zero value reports an error.
// Any failure wraps ErrInvalidFrame.
func ParseResponse(buf []byte) (Response, error) {
	if len(buf) >= ResponseOverhead && buf[0] == Preamble && buf[1] != NormalMarker {
		return Response{}, fmt.Errorf("%w: unexpected frame marker 0x%02X", ErrInvalidFrame, buf[1])
	}

	n, err := checkFrame(buf, ResponseOverhead)
	if err != nil {
		return Response{}, err
	}

	r := Response{
		shape:   ShapeUsual,
		err:     buf[rspErrOffset] != 0,
		payload: cloneBytes(buf[rspPayloadOffset : n-1]),
	}
	copy(r.destination[:], buf[dstOffset:dstOffset+4])
	copy(r.source[:], buf[srcOffset:srcOffset+4])

	return r, nil
}

func (r Response) String() string {
	var sb strings.Builder
	if r.shape != ShapeUsual {
		fmt.Fprintf(&sb, "Response %s from %s to %s", r.shape, r.source, r.destination)
		return sb.String()
	}

	fmt.Fprintf(&sb, "Response from %s to %s, (error: %t) %d bytes of data:", r.source, r.destination, r.err, len(r.payload))
	writeHex(&sb, r.payload)

	return sb.String()
}
