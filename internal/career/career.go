// Package career builds fighter-centric career timelines from a two-sided bout
// table.
package career

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pable/go-fight-careers/internal/model"
	"github.com/pable/go-fight-careers/internal/reorient"
	"github.com/pable/go-fight-careers/internal/schema"
)

var (
	ErrFighterNotFound = errors.New("fighter not found")
	ErrUnknownColumn   = errors.New("unknown column")
)

// FighterNotFoundError is returned when no bout involves the requested fighter.
type FighterNotFoundError struct {
	Fighter     string
	Suggestions []string
}

func (e *FighterNotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("%s: %q", ErrFighterNotFound, e.Fighter)
	}
	return fmt.Sprintf("%s: %q (did you mean %s?)", ErrFighterNotFound, e.Fighter,
		strings.Join(quoteAll(e.Suggestions), ", "))
}

func (e *FighterNotFoundError) Unwrap() error { return ErrFighterNotFound }

// Diff is a derived column: subject value minus opponent value of one paired base.
type Diff struct {
	Name string `yaml:"name"`
	Base string `yaml:"base"`
}

// Options controls career construction.
type Options struct {
	DateColumn    string `yaml:"date_column"`
	Diffs         []Diff `yaml:"diffs"`
	SummaryColumn string `yaml:"summary_column"`
}

// DefaultOptions matches the bout dataset's column names.
func DefaultOptions() Options {
	return Options{
		DateColumn: "event_date",
		Diffs: []Diff{
			{Name: "height_diff", Base: "Height (m)"},
			{Name: "reach_diff", Base: "Reach (in)"},
			{Name: "age_diff", Base: "fight_day_age (yrs)"},
		},
		SummaryColumn: "opponent_sig_strikes_landed",
	}
}

// Build returns the fighter's career: every bout they fought, reoriented so
// their own statistics are unprefixed and the opponent's carry the opponent
// label, newest first. Bouts on the same date keep their input order.
func Build(t *model.BoutTable, s *schema.Schema, fighter string, opts Options) (*model.CareerRows, error) {
	if err := checkOptions(s, opts); err != nil {
		return nil, err
	}

	out := &model.CareerRows{
		Fighter: fighter,
		Columns: columnOrder(s, opts),
	}

	for i, row := range t.Rows {
		if !reorient.Involves(s, row, fighter) {
			continue
		}
		side, err := reorient.ResolveSide(s, row, i, fighter)
		if err != nil {
			return nil, err
		}
		p, err := reorient.Reorient(s, row, side)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		cr := model.CareerRow{
			Fighter:     fighter,
			Side:        side,
			SourceIndex: i,
			Shared:      make(map[string]model.Value, len(s.Shared)),
			Subject:     p.Subject,
			Against:     p.Opponent,
			Derived:     make(map[string]model.Value, len(opts.Diffs)),
		}
		if v := p.Opponent[s.OpponentLabel(s.Identity().Base)]; v.Kind() == model.KindString {
			cr.Opponent = v.Str()
		}
		for _, c := range s.Shared {
			cr.Shared[c.Name] = row[c.Index]
		}
		for _, d := range opts.Diffs {
			cr.Derived[d.Name] = diff(p.Subject[s.SubjectLabel(d.Base)], p.Opponent[s.OpponentLabel(d.Base)])
		}
		out.Rows = append(out.Rows, cr)
	}

	if len(out.Rows) == 0 {
		return nil, &FighterNotFoundError{
			Fighter:     fighter,
			Suggestions: NewIndex(t, s).Suggest(fighter, 3),
		}
	}

	if opts.DateColumn != "" {
		sortNewestFirst(out.Rows, opts.DateColumn)
	}
	return out, nil
}

// diff subtracts two numeric cells; a missing side yields a missing result.
// A base the dataset does not pair arrives as two missing cells.
func diff(a, b model.Value) model.Value {
	if a.IsMissing() || b.IsMissing() || a.Kind() != model.KindNumber || b.Kind() != model.KindNumber {
		return model.Missing()
	}
	return model.Number(a.Float() - b.Float())
}

// sortNewestFirst orders rows by date descending. Undated rows go last; ties
// keep input order.
func sortNewestFirst(rows []model.CareerRow, dateColumn string) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Shared[dateColumn], rows[j].Shared[dateColumn]
		switch {
		case a.IsMissing():
			return false
		case b.IsMissing():
			return true
		}
		return dateAfter(a, b)
	})
}

func dateAfter(a, b model.Value) bool {
	if a.Kind() == model.KindDate && b.Kind() == model.KindDate {
		return a.Time().After(b.Time())
	}
	if a.Kind() == model.KindNumber && b.Kind() == model.KindNumber {
		return a.Float() > b.Float()
	}
	return a.String() > b.String()
}

func checkOptions(s *schema.Schema, opts Options) error {
	if opts.DateColumn != "" {
		if _, ok := s.Column(opts.DateColumn); !ok {
			return fmt.Errorf("%w: date column %q", ErrUnknownColumn, opts.DateColumn)
		}
	}
	return nil
}

// columnOrder is the header of a career table: shared columns, the subject's
// statistics, the opponent's statistics, then the derived differences.
func columnOrder(s *schema.Schema, opts Options) []string {
	cols := make([]string, 0, len(s.Shared)+2*len(s.Pairs)+len(opts.Diffs))
	for _, c := range s.Shared {
		cols = append(cols, c.Name)
	}
	for _, p := range s.Pairs {
		cols = append(cols, s.SubjectLabel(p.Base))
	}
	for _, p := range s.Pairs {
		cols = append(cols, s.OpponentLabel(p.Base))
	}
	for _, d := range opts.Diffs {
		cols = append(cols, d.Name)
	}
	return cols
}

func quoteAll(xs []string) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = fmt.Sprintf("%q", x)
	}
	return out
}
