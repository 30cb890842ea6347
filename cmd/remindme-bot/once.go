package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"
)

func newIngestCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Run one intake cycle and print its summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(ctx))

			sum, err := a.intake.Cycle(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, sum)
		},
	}
}

func newDeliverCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "deliver",
		Short: "Scan once for due reminders, message their owners and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(ctx))

			sum, err := a.courier.Scan(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, sum)
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
