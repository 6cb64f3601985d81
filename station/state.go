package station

import (
	"fmt"

	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/mblp"
)

// FirmwareVersion is the firmware version reported by a device.
type FirmwareVersion struct {
	Major byte
	Minor byte
	Patch byte
}

func (v FirmwareVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// State is a copy of the station state.
type State struct {
	// Connected reports whether a port is open; Port is its name.
	Connected bool
	Port      string

	// Ports lists the serial ports found by the last refresh.
	Ports []string

	// Device is the address of the device under test, as last read or set.
	Device mblp.Address

	// Firmware is the last firmware version read, nil if none was read.
	Firmware *FirmwareVersion

	// Notices are the latest operator messages, oldest first.
	Notices []string
}

// Snapshot returns a copy of the current state.
func (s *Station) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	st.Ports = append([]string(nil), s.state.Ports...)
	if s.state.Firmware != nil {
		fw := *s.state.Firmware
		st.Firmware = &fw
	}
	st.Notices = s.notices.Items()

	return st
}

// Notices returns the latest operator messages, oldest first.
func (s *Station) Notices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.notices.Items()
}

func (s *Station) notify(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", s.now().Format("15:04:05"), fmt.Sprintf(format, args...))

	s.mu.Lock()
	s.notices.Push(msg)
	s.mu.Unlock()

	s.logger.Info("station: notice", "message", msg)
}

func (s *Station) update(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.state)
}
