// Package mblp implements the frame codec of MBLP, the legacy binary
// request/response protocol spoken by the relay boards over a serial line.
//
// # Frames
//
// Every frame starts with the preamble 0x02 and ends with an additive checksum.
// A request (Command) is laid out as:
//
//	[0x02][0x01][L][0x00][DST(4)][SRC(4)][CODE_HI][CODE_LO][PAYLOAD(L-15)][SUM]
//
// and a reply (Response) of the usual shape as:
//
//	[0x02][0x01][L][0x00][DST(4)][SRC(4)][ERR][PAYLOAD(L-14)][SUM]
//
// where L is the total frame length, including the checksum byte.
//
// # Checksum
//
// The checksum is the 8-bit wraparound sum of all the preceding bytes. Despite
// the protocol documentation calling it a CRC, it is a plain sum: swapping two
// bytes, or any change that preserves the byte sum, goes undetected.
//
// # Response length
//
// The protocol does not let a reader tell from a partial header whether a reply
// is complete, so the length of every reply is fixed by the request code; see
// [ExpectedResponseLen].
package mblp
