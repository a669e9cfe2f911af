package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"lookout/internal/daemon"
	"lookout/internal/logging"
	"lookout/internal/sightings"
)

// newWatchCommand runs the detection pipeline in the foreground without the
// IPC server, so a single terminal session can observe detections directly.
func newWatchCommand(ctx *commandContext) *cobra.Command {
	var logLevel string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the camera in the foreground (no daemon)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			level := logLevel
			if level == "" {
				level = cfg.Logging.Level
			}
			logger, err := logging.New(logging.Options{
				Level:  level,
				Format: "console",
			})
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			store, err := sightings.Open(cfg)
			if err != nil {
				return fmt.Errorf("open sighting store: %w", err)
			}
			defer store.Close()

			d, err := daemon.New(cfg, store, logger, "")
			if err != nil {
				return err
			}
			defer d.Close()

			signalCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := d.Start(signalCtx); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl-C to stop)\n", cfg.DevicePath())
			<-signalCtx.Done()
			fmt.Fprintln(cmd.OutOrStdout(), "Stopping...")
			return nil
		},
	}
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	return cmd
}
