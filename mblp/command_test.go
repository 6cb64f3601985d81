package mblp

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCommand(t *testing.T, code Code, dst Address, payload []byte) Command {
	t.Helper()

	c, err := NewCommand(code, dst, StationAddress, payload)
	require.NoError(t, err)

	return c
}

func TestCommand_ReadAddressFrame(t *testing.T) {
	c := mustCommand(t, ReadAddress, Address{0x14, 0x03, 0x01, 0x00}, nil)

	wire := c.Encode()
	require.Len(t, wire, 15)
	assert.Equal(t, byte(15), wire[2])
	assert.Equal(t, Checksum(wire[:14]), wire[14])

	want := []byte{
		0x02, 0x01, 0x0F, 0x00,
		0x14, 0x03, 0x01, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0xFF, 0x04,
		0x2D,
	}
	assert.Equal(t, want, wire)
}

func TestCommand_SetOutputFrame(t *testing.T) {
	c := mustCommand(t, SetOutput, Address{0, 0, 0, 1}, []byte{2, 1})

	wire := c.Encode()
	require.Len(t, wire, 17)
	assert.Equal(t, byte(17), wire[2])
	assert.Equal(t, []byte{0xFF, 0x01}, wire[12:14])
	assert.Equal(t, []byte{2, 1}, wire[14:16])
	assert.Equal(t, Checksum(wire[:16]), wire[16])
}

func TestCommand_AppendEncode(t *testing.T) {
	c := mustCommand(t, ReadInput, Address{0, 0, 0, 7}, nil)

	prefix := []byte{0xAA, 0xBB}
	out := c.AppendEncode(prefix)
	assert.Equal(t, []byte{0xAA, 0xBB}, out[:2])
	assert.Equal(t, c.Encode(), out[2:], "checksum must not include dst prefix")
}

func TestCommand_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	codes := []Code{ReadInput, SetOutput, SetAddress, ReadAddress, ReadFirmwareVersion, CodeFromBytes(0x40, 0x01), CodeFromBytes(0xFF, 0xFF)}

	for i := 0; i < 200; i++ {
		code := codes[i%len(codes)]
		dst := AddressFromUint32(rng.Uint32())
		src := AddressFromUint32(rng.Uint32())
		payload := make([]byte, rng.IntN(MaxCommandPayload+1))
		for j := range payload {
			payload[j] = byte(rng.UintN(256))
		}

		c, err := NewCommand(code, dst, src, payload)
		require.NoError(t, err)

		parsed, err := ParseCommand(c.Encode())
		require.NoError(t, err)

		assert.Equal(t, dst, parsed.Destination())
		assert.Equal(t, src, parsed.Source())
		assert.Equal(t, code, parsed.Code())
		assert.Equal(t, len(payload), parsed.DataLen())
		if len(payload) > 0 {
			assert.Equal(t, payload, parsed.Payload())
		} else {
			assert.Empty(t, parsed.Payload())
		}
	}
}

func TestCommand_MaxPayload(t *testing.T) {
	payload := make([]byte, MaxCommandPayload)
	c := mustCommand(t, SetOutput, Address{}, payload)
	wire := c.Encode()
	assert.Len(t, wire, MaxFrameLen)
	assert.Equal(t, byte(MaxFrameLen), wire[2])

	_, err := NewCommand(SetOutput, Address{}, StationAddress, make([]byte, MaxCommandPayload+1))
	require.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestCommand_IsImmutable(t *testing.T) {
	payload := []byte{1, 2}
	c := mustCommand(t, SetOutput, Address{}, payload)

	payload[0] = 9
	got := c.Payload()
	assert.Equal(t, []byte{1, 2}, got)

	got[1] = 9
	assert.Equal(t, []byte{1, 2}, c.Payload())
}

func TestParseCommand_Rejects(t *testing.T) {
	valid := mustCommand(t, ReadFirmwareVersion, Address{0, 0, 0, 1}, []byte{0, 0, 0, 1}).Encode()

	tests := []struct {
		name   string
		mutate func([]byte) []byte
		want   error
	}{
		{"empty", func([]byte) []byte { return nil }, ErrShortFrame},
		{"below minimum", func(b []byte) []byte { return b[:14] }, ErrShortFrame},
		{"bad preamble", func(b []byte) []byte { b[0] = 0x03; return b }, ErrBadPreamble},
		{"length below minimum", func(b []byte) []byte { b[2] = 14; return b }, ErrInvalidLength},
		{"truncated", func(b []byte) []byte { return b[:len(b)-1] }, ErrShortFrame},
		{"bad checksum", func(b []byte) []byte { b[len(b)-1]++; return b }, ErrChecksumMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := tt.mutate(append([]byte(nil), valid...))
			_, err := ParseCommand(buf)
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, ErrInvalidFrame)
		})
	}
}

func TestParseCommand_TrailingBytesIgnored(t *testing.T) {
	wire := mustCommand(t, ReadInput, Address{0, 0, 0, 3}, nil).Encode()
	wire = append(wire, 0xDE, 0xAD)

	c, err := ParseCommand(wire)
	require.NoError(t, err)
	assert.Equal(t, ReadInput, c.Code())
	assert.Zero(t, c.DataLen())
}

func TestParseCommand_SingleByteFlipRejected(t *testing.T) {
	frames := [][]byte{
		mustCommand(t, ReadAddress, Address{0x14, 0x03, 0x01, 0x00}, nil).Encode(),
		mustCommand(t, SetOutput, Address{0, 0, 0, 1}, []byte{3, 1}).Encode(),
		mustCommand(t, CodeFromBytes(0x12, 0x34), Address{1, 2, 3, 4}, []byte("payload")).Encode(),
	}

	for _, frame := range frames {
		for pos := 0; pos < len(frame)-1; pos++ {
			masks := []byte{0x01, 0x5A, 0xFF}
			if pos == lengthOffset {
				// A smaller length moves the checksum position; a larger one
				// always points past the buffer.
				masks = []byte{0x80}
			}
			for _, mask := range masks {
				buf := append([]byte(nil), frame...)
				buf[pos] ^= mask
				_, err := ParseCommand(buf)
				assert.ErrorIs(t, err, ErrInvalidFrame, "pos=%d mask=0x%02X", pos, mask)
			}
		}
	}
}

func TestCommand_String(t *testing.T) {
	c := mustCommand(t, SetOutput, Address{0, 0, 0, 1}, []byte{0x02, 0x01})
	assert.Equal(t, "Command SetOutput from 00000000 to 00000001, 2 bytes of data: 0x02 0x01", c.String())
}

// FuzzParseCommand checks that decoding never panics and that every accepted
// frame re-encodes to the same bytes.
func FuzzParseCommand(f *testing.F) {
	f.Add([]byte{0x02, 0x01, 0x0F, 0x00, 0x14, 0x03, 0x01, 0x00, 0, 0, 0, 0, 0xFF, 0x04, 0x2D})
	f.Add([]byte{0x02, 0x01, 0x0E})
	f.Add([]byte{})
	f.Add(make([]byte, 32))

	f.Fuzz(func(t *testing.T, data []byte) {
		c, err := ParseCommand(data)
		if err != nil {
			return
		}
		n := int(data[2])
		// byte 1 is not checked on requests and is always re-encoded as 0x01.
		want := append([]byte(nil), data[:n]...)
		if want[1] != NormalMarker {
			return
		}
		if want[3] != 0x00 {
			return
		}
		assert.Equal(t, want, c.Encode())
	})
}
