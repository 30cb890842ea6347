package main

import (
	"remindme/internal/core/version"
	"remindme/internal/platform/config"

	"github.com/spf13/cobra"
)

const serviceName = "remindme-bot"

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	DryRun  bool
	User    string
	Keyword string
}

func newRootCommand() *cobra.Command {
	cfg := config.New().Prefix("REMINDME_")
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Watch the comment feed for reminder requests and message people when they are due",
		Version:       version.Info(serviceName).String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&opts.DryRun, "dryrun", cfg.MayBool("DRYRUN", false), "log replies and messages instead of sending them")
	pf.StringVar(&opts.User, "user", "", "bot account name, overrides REMINDME_BOT_USER")
	pf.StringVar(&opts.Keyword, "keyword", "", "command keyword, overrides REMINDME_KEYWORD")

	cmd.AddCommand(
		newRunCommand(opts),
		newIngestCommand(opts),
		newDeliverCommand(opts),
		newWatermarkCommand(opts),
		newMigrateCommand(opts),
	)
	return cmd
}
