package link

import (
	"testing"
	"time"

	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/logger"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	require := require.New(t)

	cfg := DefaultConfig()
	require.Equal(9600, cfg.BaudRate())
	require.Equal(20*time.Millisecond, cfg.SettleDelay())
	require.Equal(10*time.Millisecond, cfg.PollInterval())
	require.Equal(200*time.Millisecond, cfg.ResponseTimeout())
	require.Equal(100*time.Millisecond, cfg.ReadTimeout())
	require.NotNil(cfg.GetLogger())
}

func TestNewConfig(t *testing.T) {
	require := require.New(t)

	l := logger.NewMockLogger()

	cfg, err := NewConfig(
		WithBaudRate(19200),
		WithSettleDelay(0),
		WithPollInterval(5*time.Millisecond),
		WithResponseTimeout(time.Second),
		WithReadTimeout(50*time.Millisecond),
		WithLogger(l),
	)
	require.NoError(err)
	require.Equal(19200, cfg.BaudRate())
	require.Equal(time.Duration(0), cfg.SettleDelay())
	require.Equal(5*time.Millisecond, cfg.PollInterval())
	require.Equal(time.Second, cfg.ResponseTimeout())
	require.Equal(50*time.Millisecond, cfg.ReadTimeout())
	require.Same(l, cfg.GetLogger())
}

func TestNewConfig_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"zero baud rate", WithBaudRate(0)},
		{"negative settle delay", WithSettleDelay(-time.Millisecond)},
		{"settle delay too long", WithSettleDelay(MaxSettleDelay + 1)},
		{"poll interval too short", WithPollInterval(0)},
		{"poll interval too long", WithPollInterval(MaxPollInterval + 1)},
		{"response timeout too short", WithResponseTimeout(time.Millisecond)},
		{"response timeout too long", WithResponseTimeout(MaxResponseTimeout + 1)},
		{"read timeout too short", WithReadTimeout(0)},
		{"read timeout too long", WithReadTimeout(MaxReadTimeout + 1)},
		{"nil logger", WithLogger(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(tt.opt)
			require.Error(t, err)
		})
	}
}

func TestNewConfig_PollIntervalExceedsTimeout(t *testing.T) {
	_, err := NewConfig(WithPollInterval(500*time.Millisecond), WithResponseTimeout(100*time.Millisecond))
	require.Error(t, err)
}
