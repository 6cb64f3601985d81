package device

import (
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/mblp"
)

// drain decodes and answers every complete frame in b.rx. Garbage before a
// preamble and frames failing validation are skipped one byte at a time.
func (b *Board) drain() {
	for {
		for len(b.rx) > 0 && b.rx[0] != mblp.Preamble {
			b.rx = b.rx[1:]
		}
		if len(b.rx) < mblp.CommandOverhead {
			return
		}

		n := int(b.rx[2])
		if n < mblp.CommandOverhead {
			b.rx = b.rx[1:]
			continue
		}
		if len(b.rx) < n {
			return
		}

		cmd, err := mblp.ParseCommand(b.rx[:n])
		if err != nil {
			b.logger.Debug("device: dropped invalid frame", "error", err)
			b.rx = b.rx[1:]
			continue
		}
		probe := b.rx[1] == mblp.ProbeIDMarker
		b.rx = b.rx[n:]

		b.received = append(b.received, cmd)
		b.answer(cmd, probe)
	}
}

func (b *Board) answer(cmd mblp.Command, probe bool) {
	if b.silent {
		return
	}

	// SetAddress is accepted at any destination so that a blank board can
	// take its first serial number.
	if cmd.Destination() != b.address && cmd.Destination() != mblp.BroadcastAddress && cmd.Code() != mblp.SetAddress {
		b.logger.Debug("device: request for another board", "destination", cmd.Destination())
		return
	}

	var rsp mblp.Response
	var err error

	switch {
	case probe:
		rsp = mblp.NewCpuIDResponse(cmd.Source(), b.address)
	case b.legacy && cmd.Code() == b.legacyCode:
		rsp = mblp.NewLegacyCipherResponse(cmd.Source(), b.address)
	default:
		var ok bool
		rsp, ok, err = b.handle(cmd)
		if !ok {
			b.logger.Debug("device: no reply", "command", cmd)
			return
		}
	}
	if err != nil {
		b.logger.Warn("device: failed to build reply", "error", err)
		return
	}

	raw := rsp.Encode()
	if b.corrupt {
		raw[len(raw)-1] ^= 0xFF
	}

	b.logger.Debug("device: reply", "response", rsp)

	b.tx = append(b.tx, raw...)
	b.signal()
}

// handle executes a table command and builds its reply. It reports false for
// codes the board does not answer.
func (b *Board) handle(cmd mblp.Command) (mblp.Response, bool, error) {
	dst := cmd.Destination()
	payload := cmd.Payload()

	switch cmd.Code() {
	case mblp.SetAddress:
		if len(payload) != len(b.address) {
			rsp, err := mblp.NewErrorResponse(cmd.Source(), b.address, []byte{StatusRejected})
			return rsp, true, err
		}
		copy(b.address[:], payload)
		rsp, err := mblp.NewResponse(cmd.Source(), b.address, []byte{StatusOK})

		return rsp, true, err

	case mblp.ReadAddress:
		rsp, err := mblp.NewResponse(cmd.Source(), b.address, b.address[:])
		return rsp, true, err

	case mblp.ReadFirmwareVersion:
		rsp, err := mblp.NewResponse(cmd.Source(), b.address, []byte{b.firmware[0], b.firmware[1], b.firmware[2], 0x00})
		return rsp, true, err

	case mblp.ReadInput:
		rsp, err := mblp.NewResponse(cmd.Source(), b.address, []byte{b.inputs()})
		return rsp, true, err

	case mblp.SetOutput:
		if len(payload) != 2 || int(payload[0]) >= ChannelCount {
			rsp, err := mblp.NewErrorResponse(cmd.Source(), b.address, nil)
			return rsp, true, err
		}
		if payload[1] != 0 {
			b.relays |= 1 << payload[0]
		} else {
			b.relays &^= 1 << payload[0]
		}
		rsp, err := mblp.NewResponse(cmd.Source(), b.address, nil)

		return rsp, true, err

	default:
		b.logger.Debug("device: unsupported code", "code", cmd.Code(), "destination", dst)
		return mblp.Response{}, false, nil
	}
}
