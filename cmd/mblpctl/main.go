package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "mblpctl",
		Short: "Relay board test station",
		Long: `mblpctl talks MBLP to the four-relay boards over a serial port.
It reads and programs the board serial number, reads the firmware version
and runs the end-of-line acceptance test.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Config file path (YAML, or TOML with a .toml extension)")
	pf.StringVar(&flags.port, "port", "", "Serial port name (overrides config)")
	pf.StringVar(&flags.address, "address", "", "Device address as 8 hex digits (default: address read on connect)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&flags.logFile, "log-file", "", "Also write logs to this file, rotated at 10 MB")
	pf.BoolVar(&flags.simulate, "simulate", false, "Use an in-memory simulated board instead of a serial port")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newPortsCmd(flags))
	rootCmd.AddCommand(newFirmwareCmd(flags))
	rootCmd.AddCommand(newReadSerialCmd(flags))
	rootCmd.AddCommand(newSetSerialCmd(flags))
	rootCmd.AddCommand(newTestCmd(flags))

	return rootCmd
}
