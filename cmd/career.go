package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-fight-careers/internal/career"
	"github.com/pable/go-fight-careers/internal/model"
	"github.com/pable/go-fight-careers/internal/report"
)

var (
	careerColumns []string
	careerAll     bool
	careerLast    int
)

// careerCmd prints one fighter's bouts from their own point of view.
var careerCmd = &cobra.Command{
	Use:   "career <fighter>",
	Short: "Show a fighter's career, newest bout first",
	Long: `Build the fighter's career from every bout they appear in on either side.
Each row is oriented so that the fighter's attributes carry the plain column
names and the opponent's carry the opponent_ prefix, followed by the
configured difference columns (fighter minus opponent).

By default a compact set of columns is shown; use --columns to choose or
--all to print every career column.`,
	Args: cobra.ExactArgs(1),
	RunE: runCareer,
}

func init() {
	careerCmd.Flags().StringSliceVar(&careerColumns, "columns", nil, "comma-separated career columns to print")
	careerCmd.Flags().BoolVar(&careerAll, "all", false, "print every career column")
	careerCmd.Flags().IntVar(&careerLast, "last", 0, "only the N most recent bouts")
}

func runCareer(cmd *cobra.Command, args []string) error {
	return withBouts(func(b *bouts) error {
		rows, err := career.Build(b.table, b.schema, args[0], cfg.Career)
		if err != nil {
			return fighterError(err)
		}
		if careerLast > 0 && careerLast < len(rows.Rows) {
			rows.Rows = rows.Rows[:careerLast]
		}

		cols, err := careerView(rows, careerColumns, careerAll)
		if err != nil {
			return err
		}
		report.PrintCareerTable(os.Stdout, rows, cols)
		return nil
	})
}

// careerView picks the printed columns: explicit ones (validated), all of
// them, or the compact default.
func careerView(rows *model.CareerRows, explicit []string, all bool) ([]string, error) {
	if all {
		return rows.Columns, nil
	}
	known := make(map[string]bool, len(rows.Columns))
	for _, c := range rows.Columns {
		known[c] = true
	}
	if len(explicit) > 0 {
		var unknown []string
		for _, c := range explicit {
			if !known[c] {
				unknown = append(unknown, c)
			}
		}
		if len(unknown) > 0 {
			return nil, fmt.Errorf("%w: %s", career.ErrUnknownColumn, strings.Join(unknown, ", "))
		}
		return explicit, nil
	}

	want := []string{cfg.Career.DateColumn, cfg.Titles.EventName, cfg.Columns.Identity, cfg.Columns.Opponent, cfg.Titles.Result}
	for _, d := range cfg.Career.Diffs {
		want = append(want, d.Name)
	}
	want = append(want, cfg.Career.SummaryColumn)

	var cols []string
	seen := make(map[string]bool)
	for _, c := range want {
		if known[c] && !seen[c] {
			cols = append(cols, c)
			seen[c] = true
		}
	}
	return cols, nil
}

// fighterError adds a hint to fighter lookups that matched nothing.
func fighterError(err error) error {
	var nf *career.FighterNotFoundError
	if errors.As(err, &nf) && len(nf.Suggestions) == 0 {
		return fmt.Errorf("%w; run 'fightcareers fighters --search <name>' to look up spellings", err)
	}
	return err
}
