package mblp

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

// Address is a 4-byte station or device address: the big-endian encoding of
// the device serial number.
type Address [4]byte

// StationAddress is the source address of the controller. There is a single
// master on the line and it always uses the zero address.
var StationAddress = Address{}

// BroadcastAddress reaches whatever device is attached to the line. It is used
// to discover the address of a freshly connected board.
var BroadcastAddress = Address{}

// AddressFromUint32 returns the address for a serial number.
func AddressFromUint32(sn uint32) Address {
	var a Address
	binary.BigEndian.PutUint32(a[:], sn)

	return a
}

// ParseAddress parses a serial number written as up to 8 hex digits.
func ParseAddress(s string) (Address, error) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Address{}, fmt.Errorf("mblp: invalid address %q: %w", s, err)
	}

	return AddressFromUint32(uint32(v)), nil
}

// Uint32 returns the serial number encoded in the address.
func (a Address) Uint32() uint32 {
	return binary.BigEndian.Uint32(a[:])
}

func (a Address) String() string {
	return fmt.Sprintf("%08X", a.Uint32())
}
