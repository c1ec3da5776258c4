package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the orderbot command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "orderbot",
		Short: "Telegram order-intake bot",
		Long: `Telegram bot that registers ordering points, collects item quantities
and sends the administrator a daily summary before resetting the orders.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging (overrides LOG_LEVEL)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewDigestCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func logLevel(configured string, verbose bool) string {
	if verbose {
		return "debug"
	}
	return configured
}
