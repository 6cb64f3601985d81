package mblp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_Table(t *testing.T) {
	tests := []struct {
		code Code
		want uint16
		name string
	}{
		{ReadInput, 0x0101, "ReadInput"},
		{SetOutput, 0xFF01, "SetOutput"},
		{SetAddress, 0xFF03, "SetAddress"},
		{ReadAddress, 0xFF04, "ReadAddress"},
		{ReadFirmwareVersion, 0x400A, "ReadFirmwareVersion"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.Uint16())
			assert.Equal(t, tt.code, CodeFromUint16(tt.want))
			assert.Equal(t, tt.code, CodeFromBytes(byte(tt.want>>8), byte(tt.want)))
			assert.True(t, tt.code.IsKnown())
			assert.Equal(t, tt.name, tt.code.String())
		})
	}
}

func TestCode_UnknownKeepsRawBytes(t *testing.T) {
	c := CodeFromBytes(0x12, 0x34)
	assert.False(t, c.IsKnown())
	assert.Equal(t, uint16(0x1234), c.Uint16())

	hi, lo := c.Bytes()
	assert.Equal(t, byte(0x12), hi)
	assert.Equal(t, byte(0x34), lo)
	assert.Equal(t, "Unknown(0x12, 0x34)", c.String())

	// A raw pair from the table resolves to the named code.
	assert.Equal(t, SetOutput, UnknownCode(0xFF, 0x01))
}

func TestCode_ZeroValueIsSentinel(t *testing.T) {
	var c Code
	assert.False(t, c.IsKnown())
	assert.Equal(t, InvalidCode, c.Uint16())
	assert.Equal(t, "Invalid", c.String())
}

func TestExpectedResponseLen(t *testing.T) {
	assert.Equal(t, 15, ExpectedResponseLen(SetAddress))
	assert.Equal(t, 15, ExpectedResponseLen(ReadInput))
	assert.Equal(t, 14, ExpectedResponseLen(SetOutput))
	assert.Equal(t, 18, ExpectedResponseLen(ReadFirmwareVersion))
	assert.Equal(t, 18, ExpectedResponseLen(ReadAddress))
	assert.Equal(t, 0, ExpectedResponseLen(CodeFromBytes(0x40, 0x01)))
	assert.Equal(t, 0, ExpectedResponseLen(Code{}))
}

func TestAddress(t *testing.T) {
	a := AddressFromUint32(0x14030100)
	assert.Equal(t, Address{0x14, 0x03, 0x01, 0x00}, a)
	assert.Equal(t, uint32(0x14030100), a.Uint32())
	assert.Equal(t, "14030100", a.String())

	parsed, err := ParseAddress("14030100")
	assert.NoError(t, err)
	assert.Equal(t, a, parsed)

	parsed, err = ParseAddress("1")
	assert.NoError(t, err)
	assert.Equal(t, Address{0, 0, 0, 1}, parsed)

	_, err = ParseAddress("not-hex")
	assert.Error(t, err)

	_, err = ParseAddress("123456789")
	assert.Error(t, err, "more than 32 bits")
}
