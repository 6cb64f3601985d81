package acceptance

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/mblp"
	"github.com/stretchr/testify/require"
)

var testDevice = mblp.Address{0x14, 0x03, 0x01, 0x00}

// fakeBoard is a scripted Transactor. Inputs follow the relays unless an
// override is set for the relay state; every transaction and sleep is
// appended to log.
type fakeBoard struct {
	relays    byte
	overrides map[byte]byte
	failOn    string
	failErr   error
	noInputs  bool
	log       []string
}

func newFakeBoard() *fakeBoard {
	return &fakeBoard{overrides: map[byte]byte{}}
}

func (b *fakeBoard) Execute(_ context.Context, code mblp.Code, destination mblp.Address, payload []byte) (mblp.Response, error) {
	var entry string
	var data []byte

	switch code {
	case mblp.SetAddress:
		entry = fmt.Sprintf("SetAddress %s", mblp.Address(payload))
		data = []byte{0x00}
	case mblp.SetOutput:
		ch, state := payload[0], payload[1]
		entry = fmt.Sprintf("SetOutput %d %d", ch, state)
		if state != 0 {
			b.relays |= 1 << ch
		} else {
			b.relays &^= 1 << ch
		}
	case mblp.ReadInput:
		entry = "ReadInput"
		inputs := b.relays
		if v, ok := b.overrides[b.relays]; ok {
			inputs = v
		}
		if !b.noInputs {
			data = []byte{inputs}
		}
	default:
		return mblp.Response{}, fmt.Errorf("unexpected code %s", code)
	}

	b.log = append(b.log, entry)

	if entry == b.failOn {
		return mblp.Response{}, b.failErr
	}

	return mblp.NewResponse(mblp.StationAddress, destination, data)
}

func (b *fakeBoard) sleep(_ context.Context, d time.Duration) error {
	b.log = append(b.log, fmt.Sprintf("sleep %v", d))
	return nil
}

func newTestSequencer(t *testing.T, board *fakeBoard, opts ...Option) *Sequencer {
	t.Helper()

	opts = append([]Option{WithSleep(board.sleep)}, opts...)
	s, err := NewSequencer(board, opts...)
	require.NoError(t, err)

	return s
}

func TestSequencer_RunPasses(t *testing.T) {
	require := require.New(t)

	board := newFakeBoard()
	var steps []Step

	s := newTestSequencer(t, board, WithProgress(func(step Step) { steps = append(steps, step) }))

	require.NoError(s.Run(context.Background(), testDevice))

	require.Equal([]string{
		"SetAddress 14030100",
		"SetOutput 0 0", "SetOutput 1 0", "SetOutput 2 0", "SetOutput 3 0",
		"ReadInput",
		"SetOutput 0 1", "sleep 100ms", "ReadInput", "SetOutput 0 0", "sleep 100ms",
		"SetOutput 1 1", "sleep 100ms", "ReadInput", "SetOutput 1 0", "sleep 100ms",
		"SetOutput 2 1", "sleep 100ms", "ReadInput", "SetOutput 2 0", "sleep 100ms",
		"SetOutput 3 1", "sleep 100ms", "ReadInput", "SetOutput 3 0", "sleep 100ms",
	}, board.log)

	require.Len(steps, 1+4+1+4*3)
	require.Equal(Step{Action: ActionSetAddress, Channel: BaselineChannel}, steps[0])
	require.Equal(Step{Action: ActionReadInputs, Channel: BaselineChannel}, steps[5])
	require.Equal(Step{Action: ActionReadInputs, Channel: 3, Inputs: 0x08}, steps[len(steps)-2])
}

func TestSequencer_Channel2Abort(t *testing.T) {
	require := require.New(t)

	board := newFakeBoard()
	board.overrides[0x04] = 0x00

	s := newTestSequencer(t, board)

	err := s.Run(context.Background(), testDevice)
	require.Error(err)

	var vf *VerificationFailure
	require.ErrorAs(err, &vf)
	require.Equal(2, vf.Channel)
	require.Equal(byte(0x04), vf.Expected)
	require.Equal(byte(0x00), vf.Actual)
	require.Equal("acceptance: channel 2: expected inputs 0x04, got 0x00", err.Error())

	require.Equal([]string{"SetOutput 2 1", "sleep 100ms", "ReadInput"}, board.log[len(board.log)-3:])
	for _, entry := range board.log {
		require.NotContains(entry, "SetOutput 3 1")
	}
	require.Equal(1, count(board.log, "SetOutput 3 0"))
}

func TestSequencer_BaselineFailure(t *testing.T) {
	require := require.New(t)

	board := newFakeBoard()
	board.overrides[0x00] = 0x02

	s := newTestSequencer(t, board)

	err := s.Run(context.Background(), testDevice)

	var vf *VerificationFailure
	require.ErrorAs(err, &vf)
	require.Equal(BaselineChannel, vf.Channel)
	require.Equal(byte(0x00), vf.Expected)
	require.Equal(byte(0x02), vf.Actual)
	require.Contains(err.Error(), "baseline")
	require.Len(board.log, 6)
}

func TestSequencer_CrossWiredInput(t *testing.T) {
	board := newFakeBoard()
	board.overrides[0x01] = 0x03

	s := newTestSequencer(t, board)

	var vf *VerificationFailure
	require.ErrorAs(t, s.Run(context.Background(), testDevice), &vf)
	require.Equal(t, 0, vf.Channel)
	require.Equal(t, byte(0x03), vf.Actual)
}

func TestSequencer_TransactionFailureStops(t *testing.T) {
	require := require.New(t)

	errLink := errors.New("link down")

	board := newFakeBoard()
	board.failOn = "SetOutput 1 0"
	board.failErr = errLink

	s := newTestSequencer(t, board)

	err := s.Run(context.Background(), testDevice)
	require.ErrorIs(err, errLink)

	var se *StepError
	require.ErrorAs(err, &se)
	require.Equal(ActionRelayOff, se.Action)
	require.Equal(1, se.Channel)
	require.Equal("acceptance: relay off 1: link down", err.Error())
	require.Equal([]string{"SetAddress 14030100", "SetOutput 0 0", "SetOutput 1 0"}, board.log)
}

func TestSequencer_NoInputs(t *testing.T) {
	board := newFakeBoard()
	board.noInputs = true

	s := newTestSequencer(t, board)

	err := s.Run(context.Background(), testDevice)
	require.ErrorIs(t, err, ErrNoInputs)

	var se *StepError
	require.ErrorAs(t, err, &se)
	require.Equal(t, ActionReadInputs, se.Action)
	require.Equal(t, BaselineChannel, se.Channel)
}

func TestSequencer_Canceled(t *testing.T) {
	require := require.New(t)

	board := newFakeBoard()
	ctx, cancel := context.WithCancel(context.Background())

	s := newTestSequencer(t, board, WithProgress(func(step Step) {
		if step.Action == ActionRelayOn && step.Channel == 1 {
			cancel()
		}
	}), WithSleep(func(ctx context.Context, d time.Duration) error {
		board.log = append(board.log, fmt.Sprintf("sleep %v", d))
		return ctx.Err()
	}))

	err := s.Run(ctx, testDevice)
	require.ErrorIs(err, context.Canceled)

	var se *StepError
	require.ErrorAs(err, &se)
	require.Equal(ActionRelayOn, se.Action)
	require.Equal(1, se.Channel)
	require.Equal("sleep 100ms", board.log[len(board.log)-1])
	require.Equal(0, count(board.log, "SetOutput 2 1"))
}

func TestSequencer_RelaySettleDelay(t *testing.T) {
	board := newFakeBoard()
	s := newTestSequencer(t, board, WithRelaySettleDelay(5*time.Millisecond))

	require.NoError(t, s.Run(context.Background(), testDevice))
	require.Equal(t, 8, count(board.log, "sleep 5ms"))
}

func TestSequencer_RealSleep(t *testing.T) {
	board := newFakeBoard()
	s, err := NewSequencer(board, WithRelaySettleDelay(10*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, s.Run(context.Background(), testDevice))
	require.GreaterOrEqual(t, time.Since(start), 8*10*time.Millisecond)
}

func TestNewSequencer_InvalidOptions(t *testing.T) {
	_, err := NewSequencer(nil)
	require.Error(t, err)

	board := newFakeBoard()

	_, err = NewSequencer(board, WithRelaySettleDelay(-time.Millisecond))
	require.Error(t, err)

	_, err = NewSequencer(board, WithRelaySettleDelay(MaxRelaySettleDelay+1))
	require.Error(t, err)

	_, err = NewSequencer(board, WithLogger(nil))
	require.Error(t, err)
}

func count(log []string, entry string) int {
	n := 0
	for _, e := range log {
		if e == entry {
			n++
		}
	}

	return n
}
