package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-fight-careers/internal/career"
	"github.com/pable/go-fight-careers/internal/report"
)

var compareColumn string

// compareCmd lays several careers side by side.
var compareCmd = &cobra.Command{
	Use:   "compare <fighter> <fighter> [<fighter>...]",
	Short: "Compare a career column across fighters by date",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareColumn, "column", "age_diff", "career column to compare")
	compareCmd.Flags().BoolVar(&chartTitleBouts, "title-bouts", false, "only title bouts")
}

func runCompare(cmd *cobra.Command, args []string) error {
	return withBouts(func(b *bouts) error {
		careers, err := career.BuildMany(cmd.Context(), b.table, b.schema, args, cfg.Career)
		if err != nil {
			return fighterError(err)
		}
		return report.PrintComparison(os.Stdout, careers, compareColumn, chartOptions())
	})
}
