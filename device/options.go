package device

import (
	"errors"
	"fmt"

	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/logger"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/mblp"
)

// Option configures a Board.
type Option interface {
	apply(*Board) error
}

type optFunc func(*Board) error

func (f optFunc) apply(b *Board) error { return f(b) }

// WithAddress sets the serial number the board answers to.
func WithAddress(addr mblp.Address) Option {
	return optFunc(func(b *Board) error {
		b.address = addr
		return nil
	})
}

// WithFirmware sets the firmware version reported by the board.
func WithFirmware(major, minor, patch byte) Option {
	return optFunc(func(b *Board) error {
		b.firmware = [3]byte{major, minor, patch}
		return nil
	})
}

// WithWiring sets the inputs driven by relay ch. A correctly wired board
// drives input ch only.
func WithWiring(ch int, inputs byte) Option {
	return optFunc(func(b *Board) error {
		if ch < 0 || ch >= ChannelCount {
			return fmt.Errorf("device: channel %d out of range [0, %d)", ch, ChannelCount)
		}
		b.wiring[ch] = inputs

		return nil
	})
}

// WithStuckInputs sets inputs that read active regardless of the relays.
func WithStuckInputs(mask byte) Option {
	return optFunc(func(b *Board) error {
		b.stuck = mask
		return nil
	})
}

// WithLegacyHandshake makes the board answer code with the canned legacy
// handshake reply.
func WithLegacyHandshake(code mblp.Code) Option {
	return optFunc(func(b *Board) error {
		if code.IsKnown() {
			return fmt.Errorf("device: legacy handshake code %s collides with a table code", code)
		}
		b.legacyCode = code
		b.legacy = true

		return nil
	})
}

// WithChunkSize limits the number of bytes returned by a single Read.
func WithChunkSize(n int) Option {
	return optFunc(func(b *Board) error {
		if n < 0 {
			return fmt.Errorf("device: invalid chunk size %d", n)
		}
		b.chunk = n

		return nil
	})
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(b *Board) error {
		if l == nil {
			return errors.New("device: logger must not be nil")
		}
		b.logger = l

		return nil
	})
}
