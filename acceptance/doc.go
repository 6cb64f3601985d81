// Package acceptance implements the end-of-line test of the four-relay boards.
//
// A run configures the device address, switches every relay off and checks
// that no input is active. It then energizes one relay at a time and checks
// that only the matching input follows it. The run stops at the first failing
// step and never retries.
package acceptance
