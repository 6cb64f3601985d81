package station

import (
	"context"
	"sync"
	"time"

	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/acceptance"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/internal/queue"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/link"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/logger"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/mblp"
)

type opKind uint8

const (
	opConnect opKind = iota
	opDisconnect
	opReadFirmware
	opReadSerial
	opSetSerial
	opRunTest
	opSetDevice
)

func (op opKind) String() string {
	switch op {
	case opConnect:
		return "connect"
	case opDisconnect:
		return "disconnect"
	case opReadFirmware:
		return "read firmware version"
	case opReadSerial:
		return "read serial number"
	case opSetSerial:
		return "set serial number"
	case opRunTest:
		return "acceptance test"
	case opSetDevice:
		return "set device"
	default:
		return "unknown"
	}
}

type request struct {
	ctx    context.Context
	op     opKind
	port   string
	device mblp.Address
	reply  chan result
}

type result struct {
	firmware FirmwareVersion
	serial   uint32
	err      error
}

// Station is the bench controller. Create it with New and start its worker
// with Start.
type Station struct {
	linkCfg         *link.Config
	opener          link.Opener
	lister          link.PortLister
	refreshInterval time.Duration
	testOpts        []acceptance.Option
	now             func() time.Time
	logger          logger.Logger

	requests  chan request
	quit      chan struct{}
	done      chan struct{}
	startOnce sync.Once
	closeOnce sync.Once

	// owned by the worker goroutine
	engine *link.Engine
	seq    *acceptance.Sequencer

	mu      sync.Mutex
	state   State
	notices *queue.Ring[string]
}

// New creates a station. The worker is not running until Start is called.
func New(opts ...Option) (*Station, error) {
	s := &Station{
		linkCfg:         link.DefaultConfig(),
		opener:          link.Open,
		lister:          link.ListPorts,
		refreshInterval: DefaultRefreshInterval,
		now:             time.Now,
		logger:          logger.GetLogger(),
		requests:        make(chan request),
		quit:            make(chan struct{}),
		done:            make(chan struct{}),
		notices:         queue.NewRing[string](NoticeCapacity),
	}

	for _, opt := range opts {
		if err := opt.apply(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Start launches the worker goroutine. Subsequent calls do nothing.
func (s *Station) Start() {
	s.startOnce.Do(func() {
		go s.run()
	})
}

// Close stops the worker and closes the open port, if any. It waits for the
// operation in progress to complete.
func (s *Station) Close() error {
	s.closeOnce.Do(func() {
		close(s.quit)
		s.Start()
	})
	<-s.done

	return nil
}

func (s *Station) run() {
	defer close(s.done)

	select {
	case <-s.quit:
		return
	default:
	}

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	s.refreshPorts()

	for {
		select {
		case <-s.quit:
			s.disconnect()
			return

		case <-ticker.C:
			s.refreshPorts()

		case req := <-s.requests:
			req.reply <- s.serve(req)
		}
	}
}

// do hands req to the worker and waits for its result. A request still
// executing when ctx is done keeps running; only the wait is abandoned.
func (s *Station) do(ctx context.Context, req request) result {
	req.ctx = ctx
	req.reply = make(chan result, 1)

	select {
	case s.requests <- req:
	case <-ctx.Done():
		return result{err: ctx.Err()}
	case <-s.quit:
		return result{err: ErrClosed}
	}

	select {
	case res := <-req.reply:
		return res
	case <-ctx.Done():
		return result{err: ctx.Err()}
	}
}

func (s *Station) serve(req request) result {
	s.logger.Debug("station: request", "op", req.op, "port", req.port, "device", req.device)

	switch req.op {
	case opConnect:
		return result{err: s.connect(req.ctx, req.port)}
	case opDisconnect:
		s.disconnect()
		return result{}
	case opSetDevice:
		s.update(func(st *State) { st.Device = req.device })
		return result{}
	}

	if s.engine == nil {
		s.notify("No port connected")
		return result{err: ErrNoConnection}
	}

	switch req.op {
	case opReadFirmware:
		fw, err := s.readFirmwareVersion(req.ctx, req.device)
		return result{firmware: fw, err: err}
	case opReadSerial:
		sn, err := s.readSerialNumber(req.ctx, req.device)
		return result{serial: sn, err: err}
	case opSetSerial:
		return result{err: s.setSerialNumber(req.ctx, req.device)}
	case opRunTest:
		return result{err: s.runTest(req.ctx, req.device)}
	default:
		return result{}
	}
}

func (s *Station) refreshPorts() {
	ports, err := s.lister()
	if err != nil {
		s.logger.Debug("station: failed to list ports", "error", err)
		return
	}

	s.update(func(st *State) { st.Ports = ports })
}
