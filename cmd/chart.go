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
	chartColumn     string
	chartKind       string
	chartTitleBouts bool
	chartAscending  bool
	chartOpponent   string
	chartWidth      int
	chartColor      bool
)

var chartCmd = &cobra.Command{
	Use:   "chart <fighter>",
	Short: "Draw a career column as a text chart",
	Long: `Draw one career column per bout.

  --kind diff   signed bars around zero, for difference columns (default
                when the column ends in _diff)
  --kind line   the metric in date order, optionally beside an opponent
                column given with --opponent-column`,
	Args: cobra.ExactArgs(1),
	RunE: runChart,
}

func init() {
	f := chartCmd.Flags()
	f.StringVar(&chartColumn, "column", "age_diff", "career column to draw")
	f.StringVar(&chartKind, "kind", "", "diff or line (default by column name)")
	f.BoolVar(&chartTitleBouts, "title-bouts", false, "only title bouts")
	f.BoolVar(&chartAscending, "asc", false, "oldest bout first (diff charts)")
	f.StringVar(&chartOpponent, "opponent-column", "", "second series for line charts")
	f.IntVar(&chartWidth, "width", 40, "bar width in characters")
	f.BoolVar(&chartColor, "color", false, "colour bars")
}

func runChart(cmd *cobra.Command, args []string) error {
	r, err := chartRenderer(chartKind, chartColumn)
	if err != nil {
		return err
	}
	return withBouts(func(b *bouts) error {
		rows, err := career.Build(b.table, b.schema, args[0], cfg.Career)
		if err != nil {
			return fighterError(err)
		}
		return r.Render(os.Stdout, rows, chartColumn, chartOptions())
	})
}

func chartOptions() report.ChartOptions {
	return report.ChartOptions{
		TitleBoutsOnly: chartTitleBouts,
		TitleColumn:    cfg.Titles.TitleFlag,
		TitleFlag:      cfg.Titles.FlagValue,
		DateColumn:     cfg.Career.DateColumn,
		Ascending:      chartAscending,
		Width:          chartWidth,
		OpponentColumn: chartOpponent,
		Color:          chartColor,
	}
}

func chartRenderer(kind, column string) (report.Renderer, error) {
	if kind == "" {
		kind = "line"
		if strings.HasSuffix(column, "_diff") {
			kind = "diff"
		}
	}
	switch kind {
	case "diff":
		return report.DiffBars{}, nil
	case "line":
		return report.MetricLine{}, nil
	}
	return nil, fmt.Errorf("unknown chart kind %q (want diff or line)", kind)
}
