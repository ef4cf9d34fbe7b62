package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pable/go-fight-careers/internal/career"
	"github.com/pable/go-fight-careers/internal/model"
	"github.com/pable/go-fight-careers/internal/report"
	"github.com/pable/go-fight-careers/internal/title"
)

// overviewCmd describes the selected dataset.
var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show a high-level overview of a dataset",
	Long: `Display the resolved column layout of the selected dataset (shared
columns, fighter_1/fighter_2 pairs, unpaired columns), the number of
distinct fighters, title and vacant-title bout counts, and the date range.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBouts(func(b *bouts) error {
			report.PrintOverview(os.Stdout, overviewOf(b))
			return nil
		})
	},
}

func overviewOf(b *bouts) report.Overview {
	o := report.Overview{
		Dataset:  b.meta,
		Fighters: career.NewIndex(b.table, b.schema).Len(),
	}
	for _, c := range b.schema.Shared {
		o.Shared = append(o.Shared, c.Name)
	}
	for _, p := range b.schema.Pairs {
		o.Pairs = append(o.Pairs, p.Base)
	}
	for _, c := range b.schema.Unpaired {
		o.Unpaired = append(o.Unpaired, c.Name)
	}

	if tb, err := title.Classify(b.table, b.schema, cfg.Titles); err != nil {
		logger.Warn("title bouts not counted", zap.Error(err))
	} else {
		o.TitleBouts = len(tb.Contested) + len(tb.Vacant)
		o.Vacant = len(tb.Vacant)
	}

	if col, ok := b.schema.Column(cfg.Career.DateColumn); ok {
		for _, row := range b.table.Rows {
			d := row[col.Index]
			if d.IsMissing() || d.Kind() != model.KindDate {
				continue
			}
			if o.FirstDate.IsMissing() || d.Time().Before(o.FirstDate.Time()) {
				o.FirstDate = d
			}
			if o.LastDate.IsMissing() || d.Time().After(o.LastDate.Time()) {
				o.LastDate = d
			}
		}
	}
	return o
}
