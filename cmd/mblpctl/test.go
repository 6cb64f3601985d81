package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/acceptance"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/link"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

type testFlags struct {
	verbose     bool
	repeat      int
	metricsAddr string
}

func newTestCmd(flags *rootFlags) *cobra.Command {
	tf := &testFlags{repeat: 1}

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run the acceptance test on the device",
		Long: `Switch every relay off, check that no input is active, then energize
the relays one at a time and check that only the matching input follows.
The test stops at the first failing step.`,
		Example: `  mblpctl test --port /dev/ttyUSB0
  mblpctl test --simulate -v

  # Soak test with transaction metrics on :9100/metrics
  mblpctl test --port /dev/ttyUSB0 --repeat 100 --metrics-addr :9100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(cmd, flags, tf)
		},
	}

	cmd.Flags().BoolVarP(&tf.verbose, "verbose", "v", false, "Print every step and the station notices")
	cmd.Flags().IntVar(&tf.repeat, "repeat", 1, "Number of runs; the command fails if any run fails")
	cmd.Flags().StringVar(&tf.metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address while testing")

	return cmd
}

func runTest(cmd *cobra.Command, flags *rootFlags, tf *testFlags) error {
	if tf.repeat < 1 {
		return fmt.Errorf("invalid repeat count %d", tf.repeat)
	}

	out := cmd.OutOrStdout()

	progress := acceptance.WithProgress(func(step acceptance.Step) {
		if !tf.verbose {
			return
		}
		if step.Action == acceptance.ActionReadInputs {
			fmt.Fprintf(out, "  %-12s channel %2d  inputs 0x%02X\n", step.Action, step.Channel, step.Inputs)
			return
		}
		fmt.Fprintf(out, "  %-12s channel %2d\n", step.Action, step.Channel)
	})

	s, err := openSession(cmd.Context(), flags, progress)
	if err != nil {
		return err
	}
	defer s.close()

	if tf.metricsAddr != "" {
		srv := serveMetrics(tf.metricsAddr, s.metrics)
		defer srv.Close()
	}

	failed := 0
	for i := 1; i <= tf.repeat; i++ {
		label := fmt.Sprintf("device %s", s.device)
		if tf.repeat > 1 {
			label = fmt.Sprintf("run %d/%d: %s", i, tf.repeat, label)
		}

		if err := s.station.RunAcceptanceTest(cmd.Context(), s.device); err != nil {
			failed++
			printFail(out, "%s: %v", label, err)
		} else {
			printPass(out, "%s", label)
		}

		if cmd.Context().Err() != nil {
			break
		}
	}

	if tf.verbose {
		printNotices(out, s.station.Notices())
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d runs failed", failed, tf.repeat)
	}

	return nil
}

func serveMetrics(addr string, metrics *link.Metrics) *http.Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(link.NewCollector(metrics, nil))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()

	return srv
}
