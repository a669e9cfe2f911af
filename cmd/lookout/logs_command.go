package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"lookout/internal/ipc"
	"lookout/internal/logs"
)

// newLogsCommand tails the daemon log. It prefers the IPC LogTail operation
// so follow mode tracks the live per-run log file; when the daemon is not
// running it falls back to reading the lookout.log pointer directly.
func newLogsCommand(ctx *commandContext) *cobra.Command {
	var follow bool
	var lines int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Display daemon logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			initialLimit := lines
			if initialLimit < 0 {
				initialLimit = 0
			}
			initialOffset := int64(-1)
			if initialLimit == 0 {
				initialOffset = 0
			}

			client, dialErr := ctx.dialClient()
			if dialErr != nil {
				if follow {
					return dialErr
				}
				return tailLocalLog(cmd, filepath.Join(cfg.Paths.LogDir, "lookout.log"), initialLimit)
			}
			defer client.Close()

			cmdCtx := cmd.Context()
			offset := initialOffset
			limit := initialLimit
			printed := false

			for {
				resp, err := client.LogTail(ipc.LogTailRequest{
					Offset:     offset,
					Limit:      limit,
					Follow:     follow,
					WaitMillis: 1000,
				})
				if err != nil {
					return fmt.Errorf("tail logs: %w", err)
				}
				if resp == nil {
					return errors.New("log tail response missing")
				}
				for _, line := range resp.Lines {
					fmt.Fprintln(cmd.OutOrStdout(), line)
					printed = true
				}
				offset = resp.Offset
				limit = 0
				if !follow {
					if !printed {
						fmt.Fprintln(cmd.OutOrStdout(), "No log entries available")
					}
					return nil
				}
				select {
				case <-cmdCtx.Done():
					return nil
				default:
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	cmd.Flags().IntVarP(&lines, "lines", "n", 10, "Number of lines to show (0 for all)")
	return cmd
}

func tailLocalLog(cmd *cobra.Command, path string, limit int) error {
	result, err := logs.Tail(cmd.Context(), path, logs.TailOptions{Offset: -1, Limit: limit})
	if err != nil {
		return fmt.Errorf("read log file: %w", err)
	}
	if len(result.Lines) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No log entries available")
		return nil
	}
	for _, line := range result.Lines {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
