package acceptance

import (
	"context"
	"fmt"
	"time"

	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/internal/pool"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/logger"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/mblp"
	"github.com/google/uuid"
)

// ChannelCount is the number of relay/input pairs on a board.
const ChannelCount = 4

const (
	relayOff byte = 0
	relayOn  byte = 1
)

// Transactor executes one request/reply exchange. *link.Engine implements it.
type Transactor interface {
	Execute(ctx context.Context, code mblp.Code, destination mblp.Address, payload []byte) (mblp.Response, error)
}

// Action identifies the kind of a step.
type Action uint8

const (
	ActionSetAddress Action = iota
	ActionRelayOff
	ActionRelayOn
	ActionReadInputs
)

func (a Action) String() string {
	switch a {
	case ActionSetAddress:
		return "set address"
	case ActionRelayOff:
		return "relay off"
	case ActionRelayOn:
		return "relay on"
	case ActionReadInputs:
		return "read inputs"
	default:
		return fmt.Sprintf("Action(%d)", uint8(a))
	}
}

// Step is a completed step of a run. Channel is BaselineChannel for the
// address step and the all-off input check.
type Step struct {
	Action  Action
	Channel int
	// Inputs is the input state read back by ActionReadInputs steps.
	Inputs byte
}

// Sequencer runs the acceptance test against one device at a time.
//
// A Sequencer holds no per-run state; Run may be called repeatedly. Runs must
// not overlap on the same transactor.
type Sequencer struct {
	tr          Transactor
	settleDelay time.Duration
	logger      logger.Logger
	progress    ProgressFunc
	sleep       SleepFunc
}

// NewSequencer creates a sequencer issuing its transactions through tr.
func NewSequencer(tr Transactor, opts ...Option) (*Sequencer, error) {
	if tr == nil {
		return nil, fmt.Errorf("acceptance: transactor is nil")
	}

	s := &Sequencer{
		tr:          tr,
		settleDelay: DefaultRelaySettleDelay,
		logger:      logger.GetLogger(),
		sleep:       pool.Sleep,
	}

	for _, opt := range opts {
		if err := opt.apply(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Run executes the test on the device at destination.
//
// It returns nil only if every channel passed. A wrong input state is reported
// as a *VerificationFailure and a failed transaction as a *StepError; in both
// cases no further transaction is issued. ctx is checked between transactions
// and interrupts the settle waits.
func (s *Sequencer) Run(ctx context.Context, destination mblp.Address) error {
	log := s.logger.With("run", uuid.NewString(), "device", destination)
	log.Info("acceptance: test started")

	if err := s.run(ctx, destination); err != nil {
		log.Warn("acceptance: test failed", "error", err)
		return err
	}

	log.Info("acceptance: test passed")

	return nil
}

func (s *Sequencer) run(ctx context.Context, destination mblp.Address) error {
	if err := s.setAddress(ctx, destination); err != nil {
		return err
	}

	for ch := 0; ch < ChannelCount; ch++ {
		if err := s.setRelay(ctx, destination, ch, relayOff); err != nil {
			return err
		}
	}

	if err := s.checkInputs(ctx, destination, BaselineChannel, 0x00); err != nil {
		return err
	}

	for ch := 0; ch < ChannelCount; ch++ {
		if err := s.checkChannel(ctx, destination, ch); err != nil {
			return err
		}
	}

	return nil
}

func (s *Sequencer) checkChannel(ctx context.Context, destination mblp.Address, ch int) error {
	if err := s.setRelay(ctx, destination, ch, relayOn); err != nil {
		return err
	}
	if err := s.wait(ctx, ActionRelayOn, ch); err != nil {
		return err
	}

	if err := s.checkInputs(ctx, destination, ch, 1<<ch); err != nil {
		return err
	}

	if err := s.setRelay(ctx, destination, ch, relayOff); err != nil {
		return err
	}

	return s.wait(ctx, ActionRelayOff, ch)
}

func (s *Sequencer) setAddress(ctx context.Context, destination mblp.Address) error {
	if _, err := s.execute(ctx, ActionSetAddress, BaselineChannel, mblp.SetAddress, destination, destination[:]); err != nil {
		return err
	}
	s.report(Step{Action: ActionSetAddress, Channel: BaselineChannel})

	return nil
}

func (s *Sequencer) setRelay(ctx context.Context, destination mblp.Address, ch int, state byte) error {
	action := ActionRelayOff
	if state == relayOn {
		action = ActionRelayOn
	}

	if _, err := s.execute(ctx, action, ch, mblp.SetOutput, destination, []byte{byte(ch), state}); err != nil {
		return err
	}
	s.report(Step{Action: action, Channel: ch})

	return nil
}

func (s *Sequencer) checkInputs(ctx context.Context, destination mblp.Address, ch int, expected byte) error {
	rsp, err := s.execute(ctx, ActionReadInputs, ch, mblp.ReadInput, destination, nil)
	if err != nil {
		return err
	}

	actual, ok := rsp.PayloadByte(0)
	if !ok {
		return &StepError{Action: ActionReadInputs, Channel: ch, Err: ErrNoInputs}
	}

	s.logger.Debug("acceptance: inputs", "channel", ch, "expected", expected, "actual", actual)

	if actual != expected {
		return &VerificationFailure{Channel: ch, Expected: expected, Actual: actual}
	}
	s.report(Step{Action: ActionReadInputs, Channel: ch, Inputs: actual})

	return nil
}

func (s *Sequencer) execute(ctx context.Context, action Action, ch int, code mblp.Code, destination mblp.Address, payload []byte) (mblp.Response, error) {
	if err := ctx.Err(); err != nil {
		return mblp.Response{}, &StepError{Action: action, Channel: ch, Err: err}
	}

	rsp, err := s.tr.Execute(ctx, code, destination, payload)
	if err != nil {
		return mblp.Response{}, &StepError{Action: action, Channel: ch, Err: err}
	}

	return rsp, nil
}

func (s *Sequencer) wait(ctx context.Context, action Action, ch int) error {
	if err := s.sleep(ctx, s.settleDelay); err != nil {
		return &StepError{Action: action, Channel: ch, Err: err}
	}

	return nil
}

func (s *Sequencer) report(step Step) {
	if s.progress != nil {
		s.progress(step)
	}
}
