package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-fight-careers/internal/career"
	"github.com/pable/go-fight-careers/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func header(t *tablewriter.Table, cols []string) {
	h := make([]any, len(cols))
	for i, c := range cols {
		h[i] = c
	}
	t.Header(h...)
}

// fmtNum renders a float with two decimals, or "—" for NaN.
func fmtNum(f float64) string {
	if math.IsNaN(f) {
		return "—"
	}
	return fmt.Sprintf("%.2f", f)
}

// fmtName renders a fighter name, or "—" when empty.
func fmtName(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

// PrintCareerTable prints one row per bout. columns selects and orders the
// output; nil prints every career column.
func PrintCareerTable(w io.Writer, rows *model.CareerRows, columns []string) {
	if len(columns) == 0 {
		columns = rows.Columns
	}
	table := newTable(w)
	header(table, columns)
	for i := range rows.Rows {
		r := &rows.Rows[i]
		cells := make([]any, len(columns))
		for c, name := range columns {
			v, _ := r.Get(name)
			cells[c] = v.String()
		}
		table.Append(cells...)
	}
	table.Render()
	fmt.Fprintf(w, "\n%s: %d bouts\n", rows.Fighter, rows.Len())
}

// PrintSummary prints the aggregate of one career column.
func PrintSummary(w io.Writer, s model.FighterSummary) {
	name := ""
	if s.Career != nil {
		name = s.Career.Fighter
	}
	fmt.Fprintf(w, "\nFighter: %s  |  Column: %s\n\n", name, s.Column)

	table := newTable(w)
	table.Header("FIGHTS", "MISSING", "TOTAL", "MEAN", "MEDIAN")
	table.Append(
		strconv.Itoa(s.Fights),
		strconv.Itoa(s.Missing),
		fmtNum(s.Total),
		fmtNum(s.Mean),
		fmtNum(s.Median),
	)
	table.Render()
	if s.Missing > 0 {
		fmt.Fprintf(w, "\n%d of %d bouts have no %s; aggregates are undefined.\n", s.Missing, s.Fights, s.Column)
	}
}

// PrintContested prints champion-versus-contender bouts. It also prints the
// combined timeline, where vacant bouts have no contender.
func PrintContested(w io.Writer, rows []model.ChampionContenderRow) {
	table := newTable(w)
	table.Header("EVENT", "DATE", "CHAMPION", "CONTENDER",
		"CH_AGE", "CO_AGE", "CH_STREAK", "CO_STREAK", "CH_RES", "CO_RES")
	for _, r := range rows {
		table.Append(
			r.EventName.String(),
			r.EventDate.String(),
			r.Champion,
			fmtName(r.Contender),
			r.ChampionAge.String(),
			r.ContenderAge.String(),
			r.ChampionStreak.String(),
			r.ContenderStreak.String(),
			r.ChampionResult.String(),
			r.ContenderResult.String(),
		)
	}
	table.Render()
}

// PrintVacant prints bouts for a vacant belt.
func PrintVacant(w io.Writer, rows []model.VacantBoutRow) {
	table := newTable(w)
	table.Header("EVENT", "DATE", "CONTENDER_A", "CONTENDER_B",
		"A_AGE", "B_AGE", "A_STREAK", "B_STREAK", "A_RES", "B_RES")
	for _, r := range rows {
		table.Append(
			r.EventName.String(),
			r.EventDate.String(),
			r.ContenderA,
			r.ContenderB,
			r.ContenderAAge.String(),
			r.ContenderBAge.String(),
			r.ContenderAStreak.String(),
			r.ContenderBStreak.String(),
			r.ContenderAResult.String(),
			r.ContenderBResult.String(),
		)
	}
	table.Render()
}

// PrintReigns prints per-champion title bout counts.
func PrintReigns(w io.Writer, reigns []model.ChampionReign) {
	table := newTable(w)
	table.Header("CHAMPION", "BOUTS", "RETAINED", "LOST", "OTHER", "FIRST", "LAST")
	for _, r := range reigns {
		table.Append(
			r.Champion,
			strconv.Itoa(r.Defences),
			strconv.Itoa(r.Retained),
			strconv.Itoa(r.Lost),
			strconv.Itoa(r.Other),
			r.FirstDate.String(),
			r.LastDate.String(),
		)
	}
	table.Render()
}

// PrintFighters prints the known-fighters index.
func PrintFighters(w io.Writer, fighters []career.FighterCount) {
	table := newTable(w)
	table.Header("FIGHTER", "BOUTS", "AS_F1", "AS_F2", "TITLE")
	for _, f := range fighters {
		table.Append(
			f.Name,
			strconv.Itoa(f.Fights),
			strconv.Itoa(f.Side1),
			strconv.Itoa(f.Side2),
			strconv.Itoa(f.Titles),
		)
	}
	table.Render()
}

// PrintDatasets prints stored imports.
func PrintDatasets(w io.Writer, sets []model.DatasetSummary) {
	table := newTable(w)
	table.Header("ID", "SOURCE", "IMPORTED", "ROWS", "COLUMNS")
	for _, s := range sets {
		id := s.ID
		if len(id) > 8 {
			id = id[:8]
		}
		table.Append(id, s.Source, s.ImportedAt, strconv.Itoa(s.Rows), strconv.Itoa(s.Columns))
	}
	table.Render()
}

// Overview is a dataset-level description.
type Overview struct {
	Dataset    model.DatasetSummary
	Shared     []string
	Pairs      []string
	Unpaired   []string
	Fighters   int
	TitleBouts int
	Vacant     int
	FirstDate  model.Value
	LastDate   model.Value
}

// PrintOverview prints the dataset header, the resolved column layout and the
// bout counts.
func PrintOverview(w io.Writer, o Overview) {
	fmt.Fprintf(w, "\nDataset: %s  |  Source: %s  |  Imported: %s\n\n", o.Dataset.ID, o.Dataset.Source, o.Dataset.ImportedAt)

	table := newTable(w)
	table.Header("BOUTS", "COLUMNS", "SHARED", "PAIRS", "UNPAIRED", "FIGHTERS", "TITLE", "VACANT", "FROM", "TO")
	table.Append(
		strconv.Itoa(o.Dataset.Rows),
		strconv.Itoa(o.Dataset.Columns),
		strconv.Itoa(len(o.Shared)),
		strconv.Itoa(len(o.Pairs)),
		strconv.Itoa(len(o.Unpaired)),
		strconv.Itoa(o.Fighters),
		strconv.Itoa(o.TitleBouts),
		strconv.Itoa(o.Vacant),
		o.FirstDate.String(),
		o.LastDate.String(),
	)
	table.Render()

	if len(o.Unpaired) > 0 {
		fmt.Fprintln(w, "\nUnpaired columns:")
		for _, c := range o.Unpaired {
			fmt.Fprintf(w, "  * %s\n", c)
		}
	}
}

// PrintQueryResult prints the rows of a raw SQL query.
func PrintQueryResult(w io.Writer, cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}
	table := newTable(w)
	header(table, cols)
	for _, row := range rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		table.Append(cells...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}
