package acceptance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/internal/pool"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/logger"
)

const (
	// DefaultRelaySettleDelay is the wait after switching a relay before its
	// input is sensed.
	DefaultRelaySettleDelay = 100 * time.Millisecond

	// MaxRelaySettleDelay is the largest settle delay accepted by WithRelaySettleDelay.
	MaxRelaySettleDelay = 5 * time.Second
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// ProgressFunc is called after every completed step of a run.
type ProgressFunc func(step Step)

// Option configures a Sequencer.
type Option interface {
	apply(*Sequencer) error
}

type optFunc func(*Sequencer) error

func (f optFunc) apply(s *Sequencer) error { return f(s) }

// WithRelaySettleDelay sets the wait after switching a relay.
func WithRelaySettleDelay(d time.Duration) Option {
	return optFunc(func(s *Sequencer) error {
		if d < 0 || d > MaxRelaySettleDelay {
			return fmt.Errorf("acceptance: relay settle delay %v out of range [0, %v]", d, MaxRelaySettleDelay)
		}
		s.settleDelay = d

		return nil
	})
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(s *Sequencer) error {
		if l == nil {
			return errors.New("acceptance: logger must not be nil")
		}
		s.logger = l

		return nil
	})
}

// WithProgress sets a callback invoked after every completed step.
func WithProgress(fn ProgressFunc) Option {
	return optFunc(func(s *Sequencer) error {
		s.progress = fn
		return nil
	})
}

// WithSleep replaces the function used for the settle waits.
func WithSleep(fn SleepFunc) Option {
	return optFunc(func(s *Sequencer) error {
		if fn == nil {
			fn = pool.Sleep
		}
		s.sleep = fn

		return nil
	})
}
