package mblp

// Checksum returns the 8-bit wraparound sum of data.
//
// This is the only integrity check of the protocol. It does not detect
// reordered bytes, nor errors that cancel each other out in the sum.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}

	return sum
}

// verifyChecksum reports whether frame[n-1] is the checksum of frame[:n-1].
func verifyChecksum(frame []byte, n int) (wire, calc byte, ok bool) {
	wire = frame[n-1]
	calc = Checksum(frame[:n-1])

	return wire, calc, wire == calc
}
