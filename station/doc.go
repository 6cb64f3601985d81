// Package station is the test bench controller.
//
// A Station runs a single worker goroutine that owns the serial connection.
// Every operation is sent to the worker as a request and executed in arrival
// order, so the port is never shared. The worker also keeps the list of
// available ports up to date and records a short log of human-readable
// notices for the operator.
package station
