package device

import (
	"errors"
	"sync"
	"time"

	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/internal/pool"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/link"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/logger"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/mblp"
)

// ChannelCount is the number of relay/input pairs on the board.
const ChannelCount = 4

// Status bytes carried by the SetAddress reply.
const (
	StatusOK       byte = 0x00
	StatusRejected byte = 0x01
)

// ErrClosed is returned by I/O on a closed board.
var ErrClosed = errors.New("device: board closed")

// Board is a simulated four-relay board.
//
// All methods are safe for concurrent use.
type Board struct {
	mu sync.Mutex

	address  mblp.Address
	firmware [3]byte
	relays   byte
	wiring   [ChannelCount]byte
	stuck    byte

	legacy     bool
	legacyCode mblp.Code

	silent  bool
	corrupt bool

	// rx holds bytes written by the host that do not form a complete frame yet.
	rx []byte
	// tx holds reply bytes not yet read by the host.
	tx          []byte
	chunk       int
	readTimeout time.Duration
	ready       chan struct{}
	closed      bool

	received []mblp.Command
	logger   logger.Logger
}

var _ link.Port = (*Board)(nil)

// NewBoard creates a board with relays off, correct wiring and firmware 1.0.0.
func NewBoard(opts ...Option) (*Board, error) {
	b := &Board{
		firmware:    [3]byte{1, 0, 0},
		readTimeout: link.DefaultReadTimeout,
		ready:       make(chan struct{}, 1),
		logger:      logger.GetLogger(),
	}
	for ch := 0; ch < ChannelCount; ch++ {
		b.wiring[ch] = 1 << ch
	}

	for _, opt := range opts {
		if err := opt.apply(b); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// Opener returns a link.Opener that reopens the board whatever the port name.
func (b *Board) Opener() link.Opener {
	return func(name string, cfg *link.Config) (link.Port, error) {
		b.mu.Lock()
		defer b.mu.Unlock()

		b.closed = false
		b.rx = nil
		b.tx = nil
		if cfg != nil {
			b.readTimeout = cfg.ReadTimeout()
		}
		b.logger.Debug("device: opened", "port", name, "address", b.address)

		return b, nil
	}
}

// Address returns the serial number the board answers to.
func (b *Board) Address() mblp.Address {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.address
}

// Relays returns the relay state, bit i set when relay i is energized.
func (b *Board) Relays() byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.relays
}

// Inputs returns the input state as the board would report it.
func (b *Board) Inputs() byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.inputs()
}

// Received returns the requests decoded so far, oldest first.
func (b *Board) Received() []mblp.Command {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]mblp.Command(nil), b.received...)
}

// SetSilent makes the board drop every request without replying.
func (b *Board) SetSilent(silent bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.silent = silent
}

// SetCorrupt makes the board send replies with a wrong checksum.
func (b *Board) SetCorrupt(corrupt bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.corrupt = corrupt
}

// SetStuckInputs sets inputs that read active regardless of the relays.
func (b *Board) SetStuckInputs(mask byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stuck = mask
}

// Write accepts request bytes from the host. Complete frames are answered
// immediately; partial frames are kept until the rest arrives.
func (b *Board) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}

	b.rx = append(b.rx, p...)
	b.drain()

	return len(p), nil
}

// Read returns reply bytes. It waits up to the read timeout for a reply and
// returns (0, nil) when none arrives; a negative timeout waits forever.
func (b *Board) Read(p []byte) (int, error) {
	b.mu.Lock()
	timeout := b.readTimeout
	b.mu.Unlock()

	var timer *time.Timer
	if timeout > 0 {
		timer = pool.GetTimer(timeout)
		defer pool.PutTimer(timer)
	}

	for {
		b.mu.Lock()
		if b.closed {
			b.mu.Unlock()
			return 0, ErrClosed
		}
		if len(b.tx) > 0 {
			n := len(b.tx)
			if b.chunk > 0 && n > b.chunk {
				n = b.chunk
			}
			n = copy(p, b.tx[:n])
			b.tx = b.tx[n:]
			b.mu.Unlock()

			return n, nil
		}
		b.mu.Unlock()

		if timeout == 0 {
			return 0, nil
		}

		if timer == nil {
			<-b.ready
			continue
		}

		select {
		case <-b.ready:
		case <-timer.C:
			return 0, nil
		}
	}
}

// Close closes the board. Pending bytes are discarded; the relay state is kept.
func (b *Board) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.rx = nil
	b.tx = nil
	b.signal()

	return nil
}

// ResetInputBuffer discards replies not yet read by the host.
func (b *Board) ResetInputBuffer() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tx = nil

	return nil
}

// ResetOutputBuffer discards request bytes that do not form a complete frame.
func (b *Board) ResetOutputBuffer() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rx = nil

	return nil
}

func (b *Board) SetReadTimeout(t time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.readTimeout = t

	return nil
}

func (b *Board) signal() {
	select {
	case b.ready <- struct{}{}:
	default:
	}
}

func (b *Board) inputs() byte {
	inputs := b.stuck
	for ch := 0; ch < ChannelCount; ch++ {
		if b.relays&(1<<ch) != 0 {
			inputs |= b.wiring[ch]
		}
	}

	return inputs
}
