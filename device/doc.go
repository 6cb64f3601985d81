// Package device provides Board, an in-memory relay board that answers MBLP
// requests.
//
// Board implements link.Port from the host side of the wire: frames written
// to it are decoded and answered, and the replies are returned by Read. It
// backs the engine and station tests and the --simulate mode of mblpctl.
package device
