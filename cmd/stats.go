package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-fight-careers/internal/career"
	"github.com/pable/go-fight-careers/internal/report"
)

var statsColumn string

var statsCmd = &cobra.Command{
	Use:   "stats <fighter>",
	Short: "Summarize one career column for a fighter",
	Long: `Total, bout count, mean and median of a career column (default from
config: opponent_sig_strikes_landed). A fighter with no bouts yields an
empty summary. Any missing value leaves the aggregates undefined.`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsColumn, "column", "", "career column to summarize")
}

func runStats(cmd *cobra.Command, args []string) error {
	return withBouts(func(b *bouts) error {
		opts := cfg.Career
		if statsColumn != "" {
			opts.SummaryColumn = statsColumn
		}
		sum, err := career.Summarize(b.table, b.schema, args[0], opts)
		if err != nil {
			return err
		}
		report.PrintSummary(os.Stdout, sum)
		return nil
	})
}
