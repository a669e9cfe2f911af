package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lookout/internal/api"
	"lookout/internal/logging"
)

func newNotifyCommand(ctx *commandContext) *cobra.Command {
	notifyCmd := &cobra.Command{
		Use:   "notify",
		Short: "Notification utilities",
	}
	notifyCmd.AddCommand(newNotifyTestCommand(ctx))
	return notifyCmd
}

// newNotifyTestCommand sends a test message through the configured backend.
// It goes through the daemon when one is running so the test exercises the
// same process that sends real notifications; otherwise it sends directly.
func newNotifyTestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Send a test notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, dialErr := ctx.dialClient()
			if dialErr != nil {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				sent, message, err := api.SendTestNotification(cmd.Context(), cfg, logging.NewNop())
				if err != nil {
					return err
				}
				printNotifyResult(cmd, sent, message)
				return nil
			}
			defer client.Close()

			resp, err := client.TestNotification()
			if err != nil {
				return err
			}
			if resp == nil {
				return errors.New("missing notification response")
			}
			printNotifyResult(cmd, resp.Sent, resp.Message)
			return nil
		},
	}
}

func printNotifyResult(cmd *cobra.Command, sent bool, message string) {
	switch {
	case message != "":
		fmt.Fprintln(cmd.OutOrStdout(), message)
	case sent:
		fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
	default:
		fmt.Fprintln(cmd.OutOrStdout(), "Notification not sent")
	}
}
