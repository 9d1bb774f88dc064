package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDevicesCommand(rt *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List audio input devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			devices, err := rt.app.ListDevices(cmd.Context())
			if err != nil {
				return err
			}
			if len(devices) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "No audio input devices found.")
				return nil
			}

			for i, d := range devices {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, d.Name)
			}
			return nil
		},
	}
}

func newUseDeviceCommand(rt *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "use-device <device_name>",
		Short: "Remember the device transcribe records from by default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			if err := rt.app.SetDevice(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Default device set to %q.\n", args[0])
			return nil
		},
	}
}
