package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-fight-careers/internal/career"
	"github.com/pable/go-fight-careers/internal/report"
)

var (
	fightersMin    int
	fightersLimit  int
	fightersSearch string
)

var fightersCmd = &cobra.Command{
	Use:   "fighters",
	Short: "List fighters appearing in the dataset",
	Args:  cobra.NoArgs,
	RunE:  runFighters,
}

func init() {
	fightersCmd.Flags().IntVar(&fightersMin, "min", 1, "only fighters with at least N bouts")
	fightersCmd.Flags().IntVar(&fightersLimit, "limit", 50, "show at most N fighters (0 = all)")
	fightersCmd.Flags().StringVar(&fightersSearch, "search", "", "case-insensitive name filter")
}

func runFighters(cmd *cobra.Command, args []string) error {
	return withBouts(func(b *bouts) error {
		idx := career.NewIndexWithTitles(b.table, b.schema, cfg.Titles.TitleFlag, cfg.Titles.FlagValue)
		list := filterFighters(idx.Fighters(), fightersMin, fightersSearch, fightersLimit)
		if len(list) == 0 {
			fmt.Fprintln(os.Stdout, "No fighters match.")
			return nil
		}
		report.PrintFighters(os.Stdout, list)
		fmt.Fprintf(os.Stdout, "\n(%d of %d fighters)\n", len(list), idx.Len())
		return nil
	})
}

func filterFighters(all []career.FighterCount, min int, search string, limit int) []career.FighterCount {
	search = strings.ToLower(search)
	var out []career.FighterCount
	for _, f := range all {
		if f.Fights < min {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(f.Name), search) {
			continue
		}
		out = append(out, f)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
