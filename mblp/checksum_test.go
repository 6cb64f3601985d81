package mblp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksum(t *testing.T) {
	assert.Equal(t, byte(0), Checksum(nil))
	assert.Equal(t, byte(6), Checksum([]byte{1, 2, 3}))

	// 0xFF + 0x02 wraps to 0x01.
	assert.Equal(t, byte(0x01), Checksum([]byte{0xFF, 0x02}))

	data := make([]byte, 300)
	for i := range data {
		data[i] = 0xFF
	}
	// 300 * 255 = 76500 = 0x12AD4 → 0xD4
	assert.Equal(t, byte(0xD4), Checksum(data))
}

func TestChecksum_BlindToTransposition(t *testing.T) {
	// Documented weakness: reordering bytes keeps the sum.
	assert.Equal(t, Checksum([]byte{0x10, 0x20, 0x30}), Checksum([]byte{0x30, 0x10, 0x20}))
}
