package link

import (
	"errors"
	"fmt"
	"time"

	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/logger"
)

// Defaults for the relay boards.
const (
	DefaultBaudRate        = 9600
	DefaultSettleDelay     = 20 * time.Millisecond
	DefaultPollInterval    = 10 * time.Millisecond
	DefaultResponseTimeout = 200 * time.Millisecond
	DefaultReadTimeout     = 100 * time.Millisecond
)

// Limits accepted by the options.
const (
	MaxSettleDelay = time.Second

	MinPollInterval = time.Millisecond
	MaxPollInterval = time.Second

	MinResponseTimeout = 10 * time.Millisecond
	MaxResponseTimeout = 10 * time.Second

	MinReadTimeout = time.Millisecond
	MaxReadTimeout = 10 * time.Second
)

// Config holds the serial line settings and the transaction timing.
type Config struct {
	baudRate int

	// settleDelay is the wait between flushing the port and writing a request.
	settleDelay time.Duration
	// pollInterval is the period of the reply availability check.
	pollInterval time.Duration
	// responseTimeout bounds the wait for the complete reply.
	responseTimeout time.Duration
	// readTimeout is the per-read timeout set when the port is opened.
	readTimeout time.Duration

	logger  logger.Logger
	metrics *Metrics
}

// DefaultConfig returns the configuration for the relay boards.
func DefaultConfig() *Config {
	return &Config{
		baudRate:        DefaultBaudRate,
		settleDelay:     DefaultSettleDelay,
		pollInterval:    DefaultPollInterval,
		responseTimeout: DefaultResponseTimeout,
		readTimeout:     DefaultReadTimeout,
		logger:          logger.GetLogger(),
	}
}

// NewConfig creates a configuration from the defaults and the given options,
// applied in order.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := DefaultConfig()

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.pollInterval > cfg.responseTimeout {
		return nil, fmt.Errorf("link: poll interval %v exceeds response timeout %v", cfg.pollInterval, cfg.responseTimeout)
	}

	return cfg, nil
}

func (cfg *Config) BaudRate() int { return cfg.baudRate }

func (cfg *Config) SettleDelay() time.Duration { return cfg.settleDelay }

func (cfg *Config) PollInterval() time.Duration { return cfg.pollInterval }

func (cfg *Config) ResponseTimeout() time.Duration { return cfg.responseTimeout }

func (cfg *Config) ReadTimeout() time.Duration { return cfg.readTimeout }

func (cfg *Config) GetLogger() logger.Logger { return cfg.logger }

// GetMetrics returns the shared counters, nil when every engine keeps its own.
func (cfg *Config) GetMetrics() *Metrics { return cfg.metrics }

// Option is a functional option for configuring a Config.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithBaudRate sets the line speed.
func WithBaudRate(baud int) Option {
	return optFunc(func(cfg *Config) error {
		if baud <= 0 {
			return fmt.Errorf("link: invalid baud rate %d", baud)
		}
		cfg.baudRate = baud

		return nil
	})
}

// WithSettleDelay sets the wait between flushing the port and writing a request.
func WithSettleDelay(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < 0 || d > MaxSettleDelay {
			return fmt.Errorf("link: settle delay %v out of range [0, %v]", d, MaxSettleDelay)
		}
		cfg.settleDelay = d

		return nil
	})
}

// WithPollInterval sets the period of the reply availability check.
func WithPollInterval(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < MinPollInterval || d > MaxPollInterval {
			return fmt.Errorf("link: poll interval %v out of range [%v, %v]", d, MinPollInterval, MaxPollInterval)
		}
		cfg.pollInterval = d

		return nil
	})
}

// WithResponseTimeout sets the overall wait for a complete reply.
func WithResponseTimeout(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < MinResponseTimeout || d > MaxResponseTimeout {
			return fmt.Errorf("link: response timeout %v out of range [%v, %v]", d, MinResponseTimeout, MaxResponseTimeout)
		}
		cfg.responseTimeout = d

		return nil
	})
}

// WithReadTimeout sets the per-read timeout applied when a port is opened.
func WithReadTimeout(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < MinReadTimeout || d > MaxReadTimeout {
			return fmt.Errorf("link: read timeout %v out of range [%v, %v]", d, MinReadTimeout, MaxReadTimeout)
		}
		cfg.readTimeout = d

		return nil
	})
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("link: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}

// WithMetrics makes every engine created with the configuration count into m,
// so that the counters survive a reconnection.
func WithMetrics(m *Metrics) Option {
	return optFunc(func(cfg *Config) error {
		if m == nil {
			return errors.New("link: metrics must not be nil")
		}
		cfg.metrics = m

		return nil
	})
}
