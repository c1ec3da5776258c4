package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"telegram-order-bot/internal/config"
	"telegram-order-bot/internal/report"
)

// OfflineOptions holds flags for digest and export.
type OfflineOptions struct {
	*RootOptions
	Date   string
	Output string

	// Clock is overridden in tests.
	Clock clockwork.Clock
}

func NewDigestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OfflineOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Print the text digest of the current open orders",
		Long: `Print the per-client digest of the open orders straight from storage.
Nothing is sent to Telegram and nothing is modified.

Example:
  DATA_DIR=./data orderbot digest`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := opts.summary()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), report.RenderText(t))
			return err
		},
	}
	cmd.Flags().StringVar(&opts.Date, "date", "", "date printed in the header (default today)")
	return cmd
}

func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OfflineOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the summary table of the current open orders to an .xlsx file",
		Long: `Write the summary spreadsheet of the open orders straight from storage.
Nothing is sent to Telegram and nothing is modified.

Example:
  orderbot export --out ./reports`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := opts.summary()
			if err != nil {
				return err
			}
			if t == nil {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), report.NothingToReport)
				return err
			}
			doc, err := report.XLSXRenderer{}.Render(t)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(opts.Output, 0o755); err != nil {
				return err
			}
			path := filepath.Join(opts.Output, doc.Filename)
			if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	cmd.Flags().StringVarP(&opts.Output, "out", "o", ".", "output directory")
	cmd.Flags().StringVar(&opts.Date, "date", "", "date used in the file name (default today)")
	return cmd
}

// summary builds the table from storage; nil means nothing to report.
func (o *OfflineOptions) summary() (*report.SummaryTable, error) {
	base, err := config.LoadBase()
	if err != nil {
		return nil, err
	}
	clock := o.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	st, err := openState(base, clock)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	date := o.Date
	if date == "" {
		date = clock.Now().In(base.Location()).Format("2006-01-02")
	}
	return report.BuildSummary(st.registry.List(), st.catalog, date), nil
}
