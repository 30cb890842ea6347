package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newWatermarkCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watermark",
		Short: "Inspect or move the ingestion cursor",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the ingestion cursor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(ctx))

			wm, err := a.reminders.Watermark.Get(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), wm.UTC().Format(time.RFC3339))
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <RFC3339|now|-duration>",
		Short: "Move the ingestion cursor",
		Example: `  remindme-bot watermark set 2026-10-18T12:00:00Z
  remindme-bot watermark set -2h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseCursor(args[0], time.Now())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(ctx))

			if err := a.reminders.Watermark.Set(ctx, at); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), at.UTC().Truncate(time.Second).Format(time.RFC3339))
			return err
		},
	})
	return cmd
}

// parseCursor accepts an RFC3339 instant, "now", or a negative offset from now
func parseCursor(s string, now time.Time) (time.Time, error) {
	if s == "now" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("watermark %q is neither RFC3339, now, nor a duration", s)
	}
	if d > 0 {
		return time.Time{}, fmt.Errorf("watermark offset %s must not point into the future", d)
	}
	return now.Add(d), nil
}
