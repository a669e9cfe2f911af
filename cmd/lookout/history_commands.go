package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"lookout/internal/api"
	"lookout/internal/ipc"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent sightings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.RecentSightings(limit)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp.Sightings)
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Sightings) == 0 {
					fmt.Fprintln(stdout, "No sightings recorded")
					return nil
				}
				rows := make([][]string, 0, len(resp.Sightings))
				for _, s := range resp.Sightings {
					rows = append(rows, []string{
						fmt.Sprintf("%d", s.ID),
						api.FormatDisplayTime(s.DetectedAt),
						api.FormatConfidence(s.Confidence),
						api.MethodLabel(s.Method),
						yesNo(s.Notified),
						sightingDelivery(s),
					})
				}
				table := renderTable(
					[]string{"ID", "Detected", "Confidence", "Method", "Notified", "Delivery"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(stdout, table)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of sightings to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit sightings as JSON")

	cmd.AddCommand(newHistoryClearCommand(ctx))
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded sightings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ClearHistory()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d sightings\n", resp.Removed)
				return nil
			})
		},
	}
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate sighting statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SightingStats()
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp)
				}
				stdout := cmd.OutOrStdout()
				if resp.Total == 0 {
					fmt.Fprintln(stdout, "No sightings recorded")
					return nil
				}
				rows := [][]string{
					{"Total sightings", fmt.Sprintf("%d", resp.Total)},
					{"Notified", fmt.Sprintf("%d", resp.Notified)},
					{"Delivery failures", fmt.Sprintf("%d", resp.Failed)},
					{"First sighting", api.FormatDisplayTime(resp.First)},
					{"Last sighting", api.FormatDisplayTime(resp.Last)},
				}
				rows = append(rows, methodCountRows(resp.ByMethod)...)
				table := renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprintln(stdout, table)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit statistics as JSON")
	return cmd
}

func methodCountRows(byMethod map[string]int) [][]string {
	methods := make([]string, 0, len(byMethod))
	for method := range byMethod {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	rows := make([][]string, 0, len(methods))
	for _, method := range methods {
		rows = append(rows, []string{api.MethodLabel(method) + " detections", fmt.Sprintf("%d", byMethod[method])})
	}
	return rows
}

func sightingDelivery(s ipc.Sighting) string {
	if s.DeliveryError != "" {
		return "failed: " + s.DeliveryError
	}
	if !s.Notified {
		return "throttled"
	}
	parts := make([]string, 0, 2)
	if s.Recipient != "" {
		parts = append(parts, s.Recipient)
	}
	if s.Backend != "" {
		parts = append(parts, "via "+s.Backend)
	}
	if len(parts) == 0 {
		return "sent"
	}
	return strings.Join(parts, " ")
}
