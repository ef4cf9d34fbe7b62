package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/pable/go-fight-careers/internal/career"
	"github.com/pable/go-fight-careers/internal/model"
)

// ChartOptions controls which bouts a chart shows and how it is drawn.
type ChartOptions struct {
	TitleBoutsOnly bool    // keep bouts whose TitleColumn equals TitleFlag
	TitleColumn    string  // default "is_title_bout"
	TitleFlag      float64 // default 2, the dataset's "yes"
	DateColumn     string // default "event_date"
	Ascending      bool   // DiffBars only; line charts are always chronological
	Width          int    // bar width in cells, default 40
	OpponentColumn string // MetricLine: second series drawn beside the first
	Color          bool   // colour bars by sign
}

func (o ChartOptions) withDefaults() ChartOptions {
	if o.TitleColumn == "" {
		o.TitleColumn = "is_title_bout"
	}
	if o.TitleFlag == 0 {
		o.TitleFlag = 2
	}
	if o.DateColumn == "" {
		o.DateColumn = "event_date"
	}
	if o.Width <= 0 {
		o.Width = 40
	}
	return o
}

// Renderer draws one column of a career as text.
type Renderer interface {
	Render(w io.Writer, rows *model.CareerRows, column string, opts ChartOptions) error
}

// DiffBars draws a signed bar per bout: negative values extend left of the
// axis, positive values right.
type DiffBars struct{}

// MetricLine draws a metric per bout in date order, optionally beside an
// opponent metric.
type MetricLine struct{}

type point struct {
	date     model.Value
	opponent string
	value    model.Value
	second   model.Value
}

func collect(rows *model.CareerRows, column string, opts ChartOptions, ascending bool) ([]point, error) {
	if !hasColumn(rows, column) {
		return nil, fmt.Errorf("%w: %q", career.ErrUnknownColumn, column)
	}
	if opts.OpponentColumn != "" && !hasColumn(rows, opts.OpponentColumn) {
		return nil, fmt.Errorf("%w: %q", career.ErrUnknownColumn, opts.OpponentColumn)
	}
	var pts []point
	for i := range rows.Rows {
		r := &rows.Rows[i]
		if opts.TitleBoutsOnly {
			flag, _ := r.Get(opts.TitleColumn)
			if flag.Float() != opts.TitleFlag {
				continue
			}
		}
		p := point{opponent: r.Opponent}
		p.date, _ = r.Get(opts.DateColumn)
		p.value, _ = r.Get(column)
		if opts.OpponentColumn != "" {
			p.second, _ = r.Get(opts.OpponentColumn)
		}
		pts = append(pts, p)
	}
	sort.SliceStable(pts, func(i, j int) bool {
		a, b := pts[i].date, pts[j].date
		if a.IsMissing() || b.IsMissing() {
			return !a.IsMissing() && b.IsMissing()
		}
		if ascending {
			return a.Time().Before(b.Time())
		}
		return a.Time().After(b.Time())
	})
	return pts, nil
}

func hasColumn(rows *model.CareerRows, column string) bool {
	for _, c := range rows.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// heading turns "age_diff" into "Age Difference" and other columns into title case.
func heading(column string) string {
	if strings.HasSuffix(column, "_diff") {
		first := strings.SplitN(column, "_", 2)[0]
		return capitalize(first) + " Difference"
	}
	words := strings.Fields(strings.ReplaceAll(column, "_", " "))
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func scope(opts ChartOptions) string {
	if opts.TitleBoutsOnly {
		return "Title Bouts"
	}
	return "Career"
}

func maxAbs(vals ...[]point) float64 {
	m := 0.0
	for _, pts := range vals {
		for _, p := range pts {
			for _, v := range []model.Value{p.value, p.second} {
				if !v.IsMissing() && v.Kind() == model.KindNumber {
					m = math.Max(m, math.Abs(v.Float()))
				}
			}
		}
	}
	return m
}

func barLen(v, limit float64, width int) int {
	if limit == 0 || math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Abs(v) / limit * float64(width)))
}

func nameWidth(pts []point) int {
	n := len("OPPONENT")
	for _, p := range pts {
		if l := len([]rune(p.opponent)); l > n {
			n = l
		}
	}
	return n
}

// Render implements Renderer.
func (DiffBars) Render(w io.Writer, rows *model.CareerRows, column string, opts ChartOptions) error {
	opts = opts.withDefaults()
	pts, err := collect(rows, column, opts, opts.Ascending)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%s in %s for %s\n\n", heading(column), scope(opts), rows.Fighter)
	if len(pts) == 0 {
		fmt.Fprintln(w, "(no bouts)")
		return nil
	}

	half := opts.Width / 2
	limit := maxAbs(pts)
	nw := nameWidth(pts)
	for _, p := range pts {
		v := p.value.Float()
		n := barLen(v, limit, half)
		left := strings.Repeat(" ", half)
		right := ""
		switch {
		case v < 0:
			left = strings.Repeat(" ", half-n) + paint(strings.Repeat("█", n), color.FgRed, opts.Color)
		case v > 0:
			right = paint(strings.Repeat("█", n), color.FgBlue, opts.Color)
		}
		fmt.Fprintf(w, "%-10s  %-*s %s|%s %s\n", p.date.String(), nw, p.opponent, left, right, p.value.String())
	}
	return nil
}

// Render implements Renderer.
func (MetricLine) Render(w io.Writer, rows *model.CareerRows, column string, opts ChartOptions) error {
	opts = opts.withDefaults()
	pts, err := collect(rows, column, opts, true)
	if err != nil {
		return err
	}
	title := heading(column)
	if opts.OpponentColumn != "" {
		title += " and " + heading(opts.OpponentColumn)
	}
	fmt.Fprintf(w, "\n%s in %s for %s\n\n", title, scope(opts), rows.Fighter)
	if len(pts) == 0 {
		fmt.Fprintln(w, "(no bouts)")
		return nil
	}

	limit := maxAbs(pts)
	nw := nameWidth(pts)
	width := opts.Width
	if opts.OpponentColumn != "" {
		width /= 2
	}
	for _, p := range pts {
		line := fmt.Sprintf("%-10s  %-*s %8s %-*s", p.date.String(), nw, p.opponent,
			p.value.String(), width, paint(strings.Repeat("█", barLen(p.value.Float(), limit, width)), color.FgBlue, opts.Color))
		if opts.OpponentColumn != "" {
			line += fmt.Sprintf(" | %8s %s", p.second.String(),
				paint(strings.Repeat("░", barLen(p.second.Float(), limit, width)), color.FgRed, opts.Color))
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
	return nil
}

func paint(s string, attr color.Attribute, on bool) string {
	if !on || s == "" {
		return s
	}
	return color.New(attr).Sprint(s)
}

// PrintComparison lays two or more careers side by side, one row per bout date
// in chronological order. Each cell holds the fighter's value of column and
// the opponent faced that day.
func PrintComparison(w io.Writer, careers []*model.CareerRows, column string, opts ChartOptions) error {
	opts = opts.withDefaults()
	opts.OpponentColumn = ""

	type cellKey struct {
		date    string
		fighter int
	}
	cells := make(map[cellKey][]string)
	dates := make(map[string]model.Value)
	for i, c := range careers {
		pts, err := collect(c, column, opts, true)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Fighter, err)
		}
		for _, p := range pts {
			k := cellKey{p.date.String(), i}
			cells[k] = append(cells[k], fmt.Sprintf("%s (vs %s)", p.value.String(), p.opponent))
			dates[k.date] = p.date
		}
	}

	order := make([]string, 0, len(dates))
	for d := range dates {
		order = append(order, d)
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := dates[order[i]], dates[order[j]]
		if a.IsMissing() || b.IsMissing() {
			return !a.IsMissing() && b.IsMissing()
		}
		return a.Time().Before(b.Time())
	})

	fmt.Fprintf(w, "\nComparison of %s in %s\n\n", heading(column), scope(opts))
	table := newTable(w)
	cols := []string{"DATE"}
	for _, c := range careers {
		cols = append(cols, c.Fighter)
	}
	header(table, cols)
	for _, d := range order {
		row := []any{d}
		for i := range careers {
			row = append(row, strings.Join(cells[cellKey{d, i}], "; "))
		}
		table.Append(row...)
	}
	table.Render()
	return nil
}
