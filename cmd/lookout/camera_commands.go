package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lookout/internal/preflight"
)

func newCameraCommand(ctx *commandContext) *cobra.Command {
	cameraCmd := &cobra.Command{
		Use:   "camera",
		Short: "Camera inspection utilities",
	}
	cameraCmd.AddCommand(newCameraListCommand())
	cameraCmd.AddCommand(newCameraCheckCommand(ctx))
	return cameraCmd
}

func newCameraListCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "list",
		Short:       "List video capture devices",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			probes := preflight.ListCameras()
			if len(probes) == 0 {
				fmt.Fprintln(stdout, "No video devices found")
				return nil
			}
			rows := make([][]string, 0, len(probes))
			for _, probe := range probes {
				rows = append(rows, []string{probe.Device, yesNo(probe.Readable)})
			}
			table := renderTable([]string{"Device", "Readable"}, rows, []columnAlignment{alignLeft, alignLeft})
			fmt.Fprintln(stdout, table)
			return nil
		},
	}
}

func newCameraCheckCommand(ctx *commandContext) *cobra.Command {
	var device string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check access to the configured capture device",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := device
			if target == "" {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				target = cfg.DevicePath()
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)
			probe := preflight.ProbeCamera(target)
			kind := statusOK
			if !probe.Detected || !probe.Readable {
				kind = statusWarn
			}
			fmt.Fprintln(stdout, renderStatusLine("Camera", kind, probe.CameraDetail(), colorize))
			if !probe.Detected {
				return fmt.Errorf("no camera at %s", target)
			}
			if !probe.Readable {
				return fmt.Errorf("camera %s is not readable by this user", probe.Device)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&device, "device", "", "Device node to check (defaults to the configured camera)")
	return cmd
}
