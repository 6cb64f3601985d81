package station

import (
	"errors"
	"fmt"
	"time"

	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/acceptance"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/link"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/logger"
)

const (
	// DefaultRefreshInterval is the period of the port list refresh.
	DefaultRefreshInterval = 500 * time.Millisecond

	// NoticeCapacity is the number of notices kept; older ones are dropped.
	NoticeCapacity = 8
)

// Option configures a Station.
type Option interface {
	apply(*Station) error
}

type optFunc func(*Station) error

func (f optFunc) apply(s *Station) error { return f(s) }

// WithLinkConfig sets the serial line and transaction configuration.
func WithLinkConfig(cfg *link.Config) Option {
	return optFunc(func(s *Station) error {
		if cfg == nil {
			return errors.New("station: link config must not be nil")
		}
		s.linkCfg = cfg

		return nil
	})
}

// WithOpener replaces the function used to open ports.
func WithOpener(opener link.Opener) Option {
	return optFunc(func(s *Station) error {
		if opener == nil {
			return errors.New("station: opener must not be nil")
		}
		s.opener = opener

		return nil
	})
}

// WithPortLister replaces the function used to enumerate ports.
func WithPortLister(lister link.PortLister) Option {
	return optFunc(func(s *Station) error {
		if lister == nil {
			return errors.New("station: port lister must not be nil")
		}
		s.lister = lister

		return nil
	})
}

// WithRefreshInterval sets the period of the port list refresh.
func WithRefreshInterval(d time.Duration) Option {
	return optFunc(func(s *Station) error {
		if d < 10*time.Millisecond {
			return fmt.Errorf("station: refresh interval %v too short", d)
		}
		s.refreshInterval = d

		return nil
	})
}

// WithTestOptions sets the options of the acceptance test sequencer.
func WithTestOptions(opts ...acceptance.Option) Option {
	return optFunc(func(s *Station) error {
		s.testOpts = append(s.testOpts, opts...)
		return nil
	})
}

// WithClock sets the clock used to stamp notices.
func WithClock(now func() time.Time) Option {
	return optFunc(func(s *Station) error {
		if now == nil {
			return errors.New("station: clock must not be nil")
		}
		s.now = now

		return nil
	})
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(s *Station) error {
		if l == nil {
			return errors.New("station: logger must not be nil")
		}
		s.logger = l

		return nil
	})
}
