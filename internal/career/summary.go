package career

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/pable/go-fight-careers/internal/model"
	"github.com/pable/go-fight-careers/internal/schema"
)

// Summarize builds the fighter's career and aggregates opts.SummaryColumn over
// it: total, fight count, mean and median. A fighter with no bouts yields an
// empty career, zero total and NaN mean/median. Any missing cell makes the
// total, mean and median NaN.
func Summarize(t *model.BoutTable, s *schema.Schema, fighter string, opts Options) (model.FighterSummary, error) {
	sum := model.FighterSummary{Column: opts.SummaryColumn}

	rows, err := Build(t, s, fighter, opts)
	switch {
	case errors.Is(err, ErrFighterNotFound):
		rows = &model.CareerRows{Fighter: fighter, Columns: columnOrder(s, opts)}
	case err != nil:
		return model.FighterSummary{}, err
	}
	sum.Career = rows
	sum.Fights = rows.Len()

	if sum.Fights > 0 && !hasColumn(rows, opts.SummaryColumn) {
		return model.FighterSummary{}, fmt.Errorf("%w: summary column %q", ErrUnknownColumn, opts.SummaryColumn)
	}

	vals := make([]float64, 0, sum.Fights)
	for _, v := range rows.Column(opts.SummaryColumn) {
		if v.IsMissing() || v.Kind() != model.KindNumber {
			sum.Missing++
			continue
		}
		vals = append(vals, v.Float())
	}

	if sum.Missing > 0 {
		sum.Total, sum.Mean, sum.Median = math.NaN(), math.NaN(), math.NaN()
		return sum, nil
	}
	for _, v := range vals {
		sum.Total += v
	}
	sum.Mean = mean(vals)
	sum.Median = median(vals)
	return sum, nil
}

func hasColumn(rows *model.CareerRows, column string) bool {
	for _, c := range rows.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// mean returns NaN for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var s float64
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}

// median returns NaN for an empty slice.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
