package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pable/go-fight-careers/internal/report"
	"github.com/pable/go-fight-careers/internal/title"
)

var (
	titlesVacant   bool
	titlesTimeline bool
	titlesReigns   bool
	titlesFighter  string
)

// titlesCmd prints the title-bout tables.
var titlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "Show champion vs contender title bouts",
	Long: `Classify every title bout. A bout where one side carries the champion
flag becomes a champion/contender row; a bout where neither does was for a
vacant belt. By default the contested table is printed.

  --vacant     print vacant-belt bouts instead
  --timeline   print both in one table, vacant bouts labelled "Vacant"
  --reigns     per-champion counts of title bouts retained and lost`,
	Args: cobra.NoArgs,
	RunE: runTitles,
}

func init() {
	titlesCmd.Flags().BoolVar(&titlesVacant, "vacant", false, "show vacant-belt bouts")
	titlesCmd.Flags().BoolVar(&titlesTimeline, "timeline", false, "show contested and vacant bouts together")
	titlesCmd.Flags().BoolVar(&titlesReigns, "reigns", false, "show per-champion counts")
	titlesCmd.Flags().StringVar(&titlesFighter, "fighter", "", "only bouts involving this fighter")
	titlesCmd.MarkFlagsMutuallyExclusive("vacant", "timeline", "reigns")
}

func runTitles(cmd *cobra.Command, args []string) error {
	return withBouts(func(b *bouts) error {
		tb, err := title.Classify(b.table, b.schema, cfg.Titles)
		if err != nil {
			logConflicts(err)
			return fmt.Errorf("classify title bouts: %w", err)
		}
		tb = filterTitleBouts(tb, titlesFighter)

		switch {
		case titlesVacant:
			report.PrintVacant(os.Stdout, tb.Vacant)
		case titlesTimeline:
			report.PrintContested(os.Stdout, tb.Timeline())
		case titlesReigns:
			report.PrintReigns(os.Stdout, tb.Reigns(cfg.Titles))
		default:
			report.PrintContested(os.Stdout, tb.Contested)
		}
		fmt.Fprintf(os.Stdout, "\n(%d contested, %d vacant)\n", len(tb.Contested), len(tb.Vacant))
		return nil
	})
}

// logConflicts logs each bout in which both fighters were flagged champion.
func logConflicts(err error) {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return
	}
	for _, e := range joined.Unwrap() {
		var c *title.ConflictingChampionError
		if errors.As(e, &c) {
			logger.Warn("conflicting champion flags",
				zap.Int("row", c.Row),
				zap.String("event", c.EventName),
				zap.String("fighter_1", c.Fighter1),
				zap.String("fighter_2", c.Fighter2))
		}
	}
}

func filterTitleBouts(tb title.TitleBouts, fighter string) title.TitleBouts {
	if fighter == "" {
		return tb
	}
	match := func(names ...string) bool {
		for _, n := range names {
			if strings.EqualFold(n, fighter) {
				return true
			}
		}
		return false
	}
	var out title.TitleBouts
	for _, r := range tb.Contested {
		if match(r.Champion, r.Contender) {
			out.Contested = append(out.Contested, r)
		}
	}
	for _, r := range tb.Vacant {
		if match(r.ContenderA, r.ContenderB) {
			out.Vacant = append(out.Vacant, r)
		}
	}
	return out
}
