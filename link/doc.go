// Package link implements the MBLP transaction engine: it owns one serial
// connection and runs strictly sequential request/response transactions on it.
//
// # Transaction
//
// A transaction discards any stale bytes in both directions of the port,
// waits a short settle delay, writes one encoded [mblp.Command] and then polls
// the input until the fixed reply length of the request code has arrived (see
// [mblp.ExpectedResponseLen]) or the response timeout expires.
//
// Defaults match the relay boards:
//
//   - 9600 baud, 8 data bits, no parity, 1 stop bit
//   - settle delay 20ms, poll interval 10ms, response timeout 200ms
//
// The engine never retries. Every transaction either fully succeeds or
// returns one of [ErrIO], [ErrTimeout] or a [*FrameError]; retry policy
// belongs to the caller.
//
// A started transaction is not interrupted by context cancellation once the
// request is on the wire: the context only aborts the pre-send settle wait.
package link
