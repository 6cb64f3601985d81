package main

import (
	"fmt"

	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/link"
	"github.com/spf13/cobra"
)

func newPortsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List the available serial ports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			ports := []string{simulatedPort}
			if !cfg.Simulate {
				ports, err = link.ListPorts()
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if len(ports) == 0 {
				fmt.Fprintln(out, "no serial ports found")
				return nil
			}
			for _, p := range ports {
				fmt.Fprintln(out, p)
			}

			return nil
		},
	}
}
