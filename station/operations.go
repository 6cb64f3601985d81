package station

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/acceptance"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/link"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/mblp"
)

// Connect opens the named port, replacing the current connection, and reads
// the serial number of the attached device through the broadcast address.
//
// Only a failure to open the port is returned; a failed serial number read is
// reported as a notice and leaves the device address unchanged.
func (s *Station) Connect(ctx context.Context, port string) error {
	return s.do(ctx, request{op: opConnect, port: port}).err
}

// Disconnect closes the open port, if any.
func (s *Station) Disconnect(ctx context.Context) error {
	return s.do(ctx, request{op: opDisconnect}).err
}

// SetDevice sets the address of the device under test without talking to it.
func (s *Station) SetDevice(ctx context.Context, device mblp.Address) error {
	return s.do(ctx, request{op: opSetDevice, device: device}).err
}

// ReadFirmwareVersion reads the firmware version of device.
func (s *Station) ReadFirmwareVersion(ctx context.Context, device mblp.Address) (FirmwareVersion, error) {
	res := s.do(ctx, request{op: opReadFirmware, device: device})
	return res.firmware, res.err
}

// ReadSerialNumber reads the serial number of device. On success the serial
// number becomes the address of the device under test.
func (s *Station) ReadSerialNumber(ctx context.Context, device mblp.Address) (uint32, error) {
	res := s.do(ctx, request{op: opReadSerial, device: device})
	return res.serial, res.err
}

// SetSerialNumber makes the device at address device store it as its serial
// number.
func (s *Station) SetSerialNumber(ctx context.Context, device mblp.Address) error {
	return s.do(ctx, request{op: opSetSerial, device: device}).err
}

// RunAcceptanceTest runs the acceptance test on device.
func (s *Station) RunAcceptanceTest(ctx context.Context, device mblp.Address) error {
	return s.do(ctx, request{op: opRunTest, device: device}).err
}

func (s *Station) connect(ctx context.Context, name string) error {
	s.disconnect()

	port, err := s.opener(name, s.linkCfg)
	if err != nil {
		s.logger.Warn("station: failed to open port", "port", name, "error", err)
		s.notify("Connection to %s failed", name)

		return err
	}

	engine, err := link.NewEngine(port, s.linkCfg)
	if err != nil {
		_ = port.Close()
		return err
	}

	seqOpts := append([]acceptance.Option{acceptance.WithLogger(s.logger)}, s.testOpts...)
	seq, err := acceptance.NewSequencer(engine, seqOpts...)
	if err != nil {
		_ = engine.Close()
		return err
	}

	s.engine = engine
	s.seq = seq
	s.update(func(st *State) {
		st.Connected = true
		st.Port = name
	})
	s.notify("Connected to %s", name)

	if _, err := s.readSerialNumber(ctx, mblp.BroadcastAddress); err != nil {
		s.logger.Warn("station: device address not retrieved", "port", name, "error", err)
	}

	return nil
}

func (s *Station) disconnect() {
	if s.engine == nil {
		return
	}

	if err := s.engine.Close(); err != nil {
		s.logger.Warn("station: failed to close port", "error", err)
	}
	s.engine = nil
	s.seq = nil

	s.update(func(st *State) {
		st.Connected = false
		st.Port = ""
	})
	s.notify("Disconnected")
}

func (s *Station) readFirmwareVersion(ctx context.Context, device mblp.Address) (FirmwareVersion, error) {
	rsp, err := s.transact(ctx, mblp.ReadFirmwareVersion, device, device[:])
	if err == nil && rsp.DataLen() <= 3 {
		err = fmt.Errorf("%w: firmware version has %d bytes", ErrInvalidReply, rsp.DataLen())
	}
	if err != nil {
		s.notify("Firmware version not retrieved: %v", err)
		return FirmwareVersion{}, err
	}

	data := rsp.Payload()
	fw := FirmwareVersion{Major: data[0], Minor: data[1], Patch: data[2]}

	s.update(func(st *State) { st.Firmware = &fw })
	s.notify("Firmware version %s", fw)

	return fw, nil
}

func (s *Station) readSerialNumber(ctx context.Context, device mblp.Address) (uint32, error) {
	rsp, err := s.transact(ctx, mblp.ReadAddress, device, device[:])
	if err == nil && rsp.DataLen() <= 3 {
		err = fmt.Errorf("%w: serial number has %d bytes", ErrInvalidReply, rsp.DataLen())
	}
	if err != nil {
		s.notify("Device address not retrieved: %v", err)
		return 0, err
	}

	sn := binary.BigEndian.Uint32(rsp.Payload())

	s.update(func(st *State) { st.Device = mblp.AddressFromUint32(sn) })
	s.notify("Device address 0x%08X", sn)

	return sn, nil
}

func (s *Station) setSerialNumber(ctx context.Context, device mblp.Address) error {
	if _, err := s.transact(ctx, mblp.SetAddress, device, device[:]); err != nil {
		s.notify("Serial number not set: %v", err)
		return err
	}

	s.notify("Serial number %s set", device)

	return nil
}

func (s *Station) runTest(ctx context.Context, device mblp.Address) error {
	if err := s.seq.Run(ctx, device); err != nil {
		s.notify("Test of %s failed: %v", device, err)
		return err
	}

	s.notify("Test of %s passed", device)

	return nil
}

// transact executes a request and turns a reply with the error flag set into
// ErrDeviceRejected.
func (s *Station) transact(ctx context.Context, code mblp.Code, device mblp.Address, payload []byte) (mblp.Response, error) {
	rsp, err := s.engine.Execute(ctx, code, device, payload)
	if err != nil {
		return mblp.Response{}, err
	}

	if rsp.IsError() {
		return mblp.Response{}, fmt.Errorf("%w: %s to %s", ErrDeviceRejected, code, device)
	}

	return rsp, nil
}
