package main

import (
	"fmt"

	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/mblp"
	"github.com/spf13/cobra"
)

func newFirmwareCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "fw",
		Short: "Read the firmware version of the device",
		Example: `  mblpctl fw --port /dev/ttyUSB0
  mblpctl fw --port /dev/ttyUSB0 --address 14030100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer s.close()

			fw, err := s.station.ReadFirmwareVersion(cmd.Context(), s.device)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printField(out, "device", s.device)
			printField(out, "firmware", fw)

			return nil
		},
	}
}

func newReadSerialCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "read-sn",
		Short: "Read the serial number of the device",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer s.close()

			sn, err := s.station.ReadSerialNumber(cmd.Context(), s.device)
			if err != nil {
				return err
			}

			printField(cmd.OutOrStdout(), "serial number", fmt.Sprintf("%08X", sn))

			return nil
		},
	}
}

func newSetSerialCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set-sn <serial>",
		Short: "Program the serial number of the device",
		Long: `Program the serial number of the attached device. The serial number is
written as 8 hex digits and becomes the device address.`,
		Example: `  mblpctl set-sn 14030100 --port /dev/ttyUSB0`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			serial, err := mblp.ParseAddress(args[0])
			if err != nil {
				return err
			}

			s, err := openSession(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.station.SetSerialNumber(cmd.Context(), serial); err != nil {
				return err
			}

			sn, err := s.station.ReadSerialNumber(cmd.Context(), serial)
			if err != nil {
				return err
			}

			printPass(cmd.OutOrStdout(), "serial number %08X programmed", sn)

			return nil
		},
	}
}
