package main

import (
	"context"

	"remindme/internal/services/reminders/repo"

	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the reminder tables and, when clickhouse is configured, the audit table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(ctx))

			if err := repo.Migrate(ctx, a.st.DB, a.st.Dialect); err != nil {
				return err
			}
			a.log.Info().Str("dialect", string(a.st.Dialect)).Msg("reminder schema applied")

			if a.auditCH == nil {
				return nil
			}
			if err := a.auditCH.Migrate(ctx); err != nil {
				return err
			}
			a.log.Info().Msg("audit schema applied")
			return nil
		},
	}
}
