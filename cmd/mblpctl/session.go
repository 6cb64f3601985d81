package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/acceptance"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/device"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/link"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/logger"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/mblp"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/station"
	"gopkg.in/natefinch/lumberjack.v2"
)

// simulatedPort is the port name reported in simulation mode.
const simulatedPort = "simulated"

// session is a connected station ready for device operations.
type session struct {
	cfg     *Config
	station *station.Station
	device  mblp.Address
	metrics *link.Metrics
}

// loadConfig loads the config file, applies the flags and installs the logger.
func loadConfig(flags *rootFlags) (*Config, error) {
	cfg, err := LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	cfg.merge(flags)

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	var w io.Writer = os.Stderr
	if cfg.LogFile != "" {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     90,
		})
	}
	logger.SetLogger(logger.NewSlogWriter(w, level, false))

	return cfg, nil
}

// stationOptions returns the station options for cfg. In simulation mode the
// serial port is replaced by an in-memory board.
func stationOptions(cfg *Config, metrics *link.Metrics, extra ...acceptance.Option) ([]station.Option, error) {
	linkCfg, err := link.NewConfig(append(cfg.linkOptions(), link.WithMetrics(metrics))...)
	if err != nil {
		return nil, err
	}

	opts := []station.Option{
		station.WithLinkConfig(linkCfg),
		station.WithTestOptions(append(cfg.testOptions(), extra...)...),
	}

	if cfg.Simulate {
		addr, ok, err := cfg.device()
		if err != nil {
			return nil, err
		}
		if !ok {
			addr = mblp.AddressFromUint32(defaultSimulatedAddress)
		}

		board, err := device.NewBoard(device.WithAddress(addr))
		if err != nil {
			return nil, err
		}

		opts = append(opts,
			station.WithOpener(board.Opener()),
			station.WithPortLister(func() ([]string, error) { return []string{simulatedPort}, nil }),
		)
	}

	return opts, nil
}

// openSession connects to the configured port and resolves the device address.
func openSession(ctx context.Context, flags *rootFlags, extra ...acceptance.Option) (*session, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	port := cfg.Port
	if cfg.Simulate && port == "" {
		port = simulatedPort
	}
	if port == "" {
		return nil, errors.New("no serial port given, use --port or the config file")
	}

	metrics := link.NewMetrics()

	opts, err := stationOptions(cfg, metrics, extra...)
	if err != nil {
		return nil, err
	}

	st, err := station.New(opts...)
	if err != nil {
		return nil, err
	}
	st.Start()

	if err := st.Connect(ctx, port); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("connect %s: %w", port, err)
	}

	addr, ok, err := cfg.device()
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	if !ok {
		addr = st.Snapshot().Device
	}

	return &session{cfg: cfg, station: st, device: addr, metrics: metrics}, nil
}

func (s *session) close() {
	_ = s.station.Close()
}
