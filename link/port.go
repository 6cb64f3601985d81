package link

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Port is the byte transport under the engine. It is satisfied by
// go.bug.st/serial.Port and by in-memory simulators.
//
// Read must return (0, nil) when no byte arrives within the read timeout.
type Port interface {
	io.ReadWriteCloser

	// ResetInputBuffer discards bytes received but not yet read.
	ResetInputBuffer() error
	// ResetOutputBuffer discards bytes written but not yet transmitted.
	ResetOutputBuffer() error
	// SetReadTimeout sets how long a Read may block waiting for data.
	SetReadTimeout(t time.Duration) error
}

// Opener opens the named port with the given configuration.
type Opener func(name string, cfg *Config) (Port, error)

// PortLister returns the names of the serial ports available on the host.
type PortLister func() ([]string, error)

var _ Opener = Open

var _ PortLister = ListPorts

// Open opens a serial port at the configured baud rate, 8 data bits, no parity
// and one stop bit, with the configured per-read timeout.
func Open(name string, cfg *Config) (Port, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	mode := &serial.Mode{
		BaudRate: cfg.baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrIO, name, err)
	}

	if err := port.SetReadTimeout(cfg.readTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("%w: set read timeout on %s: %w", ErrIO, name, err)
	}

	cfg.logger.Debug("link: port opened", "port", name, "baud", cfg.baudRate)

	return port, nil
}

// ListPorts returns the serial ports available on the host.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("%w: list ports: %w", ErrIO, err)
	}

	return ports, nil
}
