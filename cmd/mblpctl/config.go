package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/acceptance"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/link"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/mblp"
	"gopkg.in/yaml.v3"
)

// defaultSimulatedAddress is the serial number of the simulated board when
// none is configured.
const defaultSimulatedAddress = 0x14030100

type rootFlags struct {
	configPath string
	port       string
	address    string
	logLevel   string
	logFile    string
	simulate   bool
}

// Config is the mblpctl configuration file.
type Config struct {
	Port     string     `yaml:"port" toml:"port"`
	Address  string     `yaml:"address" toml:"address"`
	LogLevel string     `yaml:"log_level" toml:"log_level"`
	LogFile  string     `yaml:"log_file" toml:"log_file"`
	Simulate bool       `yaml:"simulate" toml:"simulate"`
	Link     LinkConfig `yaml:"link" toml:"link"`
	Test     TestConfig `yaml:"test" toml:"test"`
}

// LinkConfig holds the serial line and transaction timing.
type LinkConfig struct {
	BaudRate          int `yaml:"baud_rate" toml:"baud_rate"`
	SettleDelayMs     int `yaml:"settle_delay_ms" toml:"settle_delay_ms"`
	PollIntervalMs    int `yaml:"poll_interval_ms" toml:"poll_interval_ms"`
	ResponseTimeoutMs int `yaml:"response_timeout_ms" toml:"response_timeout_ms"`
	ReadTimeoutMs     int `yaml:"read_timeout_ms" toml:"read_timeout_ms"`
}

// TestConfig holds the acceptance test timing.
type TestConfig struct {
	RelaySettleDelayMs int `yaml:"relay_settle_delay_ms" toml:"relay_settle_delay_ms"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "warn",
		Link: LinkConfig{
			BaudRate:          link.DefaultBaudRate,
			SettleDelayMs:     int(link.DefaultSettleDelay / time.Millisecond),
			PollIntervalMs:    int(link.DefaultPollInterval / time.Millisecond),
			ResponseTimeoutMs: int(link.DefaultResponseTimeout / time.Millisecond),
			ReadTimeoutMs:     int(link.DefaultReadTimeout / time.Millisecond),
		},
		Test: TestConfig{
			RelaySettleDelayMs: int(acceptance.DefaultRelaySettleDelay / time.Millisecond),
		},
	}
}

// LoadConfig reads a config file, TOML when the path ends in .toml and YAML
// otherwise. Fields missing from the file keep their default value. An empty
// path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse TOML: %w", err)
		}
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return cfg, nil
}

// merge applies the command line flags over the file values.
func (c *Config) merge(flags *rootFlags) {
	if flags.port != "" {
		c.Port = flags.port
	}
	if flags.address != "" {
		c.Address = flags.address
	}
	if flags.logLevel != "" {
		c.LogLevel = flags.logLevel
	}
	if flags.logFile != "" {
		c.LogFile = flags.logFile
	}
	if flags.simulate {
		c.Simulate = true
	}
}

// device returns the configured device address; ok is false when none is set.
func (c *Config) device() (addr mblp.Address, ok bool, err error) {
	if c.Address == "" {
		return mblp.Address{}, false, nil
	}

	addr, err = mblp.ParseAddress(strings.TrimPrefix(strings.ToLower(c.Address), "0x"))
	if err != nil {
		return mblp.Address{}, false, err
	}

	return addr, true, nil
}

func (c *Config) linkOptions() []link.Option {
	return []link.Option{
		link.WithBaudRate(c.Link.BaudRate),
		link.WithSettleDelay(ms(c.Link.SettleDelayMs)),
		link.WithPollInterval(ms(c.Link.PollIntervalMs)),
		link.WithResponseTimeout(ms(c.Link.ResponseTimeoutMs)),
		link.WithReadTimeout(ms(c.Link.ReadTimeoutMs)),
	}
}

func (c *Config) testOptions() []acceptance.Option {
	return []acceptance.Option{
		acceptance.WithRelaySettleDelay(ms(c.Test.RelaySettleDelayMs)),
	}
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
