package mblp

import "fmt"

type codeKind uint8

const (
	kindInvalid codeKind = iota
	kindReadInput
	kindSetOutput
	kindSetAddress
	kindReadAddress
	kindReadFirmwareVersion
	kindUnknown
)

// Code is a request code. It is one of the known codes below or an unknown
// code that keeps its raw bytes, so parsing and re-encoding a frame with an
// unrecognized code is lossless.
//
// The zero Code is not a valid code; its Uint16 value is the sentinel 0xFFFF.
type Code struct {
	kind   codeKind
	hi, lo byte
}

var (
	ReadInput           = Code{kind: kindReadInput}
	SetOutput           = Code{kind: kindSetOutput}
	SetAddress          = Code{kind: kindSetAddress}
	ReadAddress         = Code{kind: kindReadAddress}
	ReadFirmwareVersion = Code{kind: kindReadFirmwareVersion}
)

// InvalidCode is the 16-bit value of a Code that is neither known nor parsed.
const InvalidCode uint16 = 0xFFFF

// UnknownCode returns the Code for a raw pair that is not in the code table.
// Known pairs are mapped to their named Code.
func UnknownCode(hi, lo byte) Code {
	return CodeFromBytes(hi, lo)
}

// CodeFromBytes maps a big-endian byte pair to a Code.
func CodeFromBytes(hi, lo byte) Code {
	return CodeFromUint16(uint16(hi)<<8 | uint16(lo))
}

// CodeFromUint16 maps a 16-bit value to a Code.
func CodeFromUint16(v uint16) Code {
	switch v {
	case 0x0101:
		return ReadInput
	case 0xFF01:
		return SetOutput
	case 0xFF03:
		return SetAddress
	case 0xFF04:
		return ReadAddress
	case 0x400A:
		return ReadFirmwareVersion
	default:
		return Code{kind: kindUnknown, hi: byte(v >> 8), lo: byte(v)}
	}
}

// Uint16 returns the wire value of the code.
func (c Code) Uint16() uint16 {
	switch c.kind {
	case kindReadInput:
		return 0x0101
	case kindSetOutput:
		return 0xFF01
	case kindSetAddress:
		return 0xFF03
	case kindReadAddress:
		return 0xFF04
	case kindReadFirmwareVersion:
		return 0x400A
	case kindUnknown:
		return uint16(c.hi)<<8 | uint16(c.lo)
	default:
		return InvalidCode
	}
}

// Bytes returns the big-endian wire bytes of the code.
func (c Code) Bytes() (hi, lo byte) {
	v := c.Uint16()
	return byte(v >> 8), byte(v)
}

// IsKnown reports whether c is one of the codes of the code table.
func (c Code) IsKnown() bool {
	return c.kind != kindInvalid && c.kind != kindUnknown
}

func (c Code) String() string {
	switch c.kind {
	case kindReadInput:
		return "ReadInput"
	case kindSetOutput:
		return "SetOutput"
	case kindSetAddress:
		return "SetAddress"
	case kindReadAddress:
		return "ReadAddress"
	case kindReadFirmwareVersion:
		return "ReadFirmwareVersion"
	case kindUnknown:
		return fmt.Sprintf("Unknown(0x%02X, 0x%02X)", c.hi, c.lo)
	default:
		return "Invalid"
	}
}

// ExpectedResponseLen returns the exact length in bytes of the reply to a
// request with the given code. Zero means no fixed-length reply is defined and
// a reader must not wait for one.
func ExpectedResponseLen(c Code) int {
	switch c {
	case SetAddress, ReadInput:
		return 15
	case SetOutput:
		return 14
	case ReadFirmwareVersion, ReadAddress:
		return 18
	default:
		return 0
	}
}
