package report

import (
	"encoding/csv"
	"io"

	"github.com/pable/go-fight-careers/internal/model"
)

// csvCell writes missing values as empty fields.
func csvCell(v model.Value) string {
	if v.IsMissing() {
		return ""
	}
	return v.String()
}

// WriteCareerCSV writes career rows with the given columns; nil writes all.
func WriteCareerCSV(w io.Writer, rows *model.CareerRows, columns []string) error {
	if len(columns) == 0 {
		columns = rows.Columns
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	rec := make([]string, len(columns))
	for i := range rows.Rows {
		for c, name := range columns {
			v, _ := rows.Rows[i].Get(name)
			rec[c] = csvCell(v)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteContestedCSV writes champion/contender rows.
func WriteContestedCSV(w io.Writer, rows []model.ChampionContenderRow) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"event_name", "event_date", "champion", "contender",
		"champion_age", "contender_age", "champion_streak", "contender_streak",
		"champion_result", "contender_result"})
	for _, r := range rows {
		cw.Write([]string{
			csvCell(r.EventName), csvCell(r.EventDate), r.Champion, r.Contender,
			csvCell(r.ChampionAge), csvCell(r.ContenderAge),
			csvCell(r.ChampionStreak), csvCell(r.ContenderStreak),
			csvCell(r.ChampionResult), csvCell(r.ContenderResult),
		})
	}
	cw.Flush()
	return cw.Error()
}

// WriteVacantCSV writes vacant-belt rows.
func WriteVacantCSV(w io.Writer, rows []model.VacantBoutRow) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"event_name", "event_date", "contender_a", "contender_b",
		"contender_a_age", "contender_b_age", "contender_a_streak", "contender_b_streak",
		"contender_a_result", "contender_b_result"})
	for _, r := range rows {
		cw.Write([]string{
			csvCell(r.EventName), csvCell(r.EventDate), r.ContenderA, r.ContenderB,
			csvCell(r.ContenderAAge), csvCell(r.ContenderBAge),
			csvCell(r.ContenderAStreak), csvCell(r.ContenderBStreak),
			csvCell(r.ContenderAResult), csvCell(r.ContenderBResult),
		})
	}
	cw.Flush()
	return cw.Error()
}

// WriteQueryCSV writes the rows of a raw SQL query with a header line.
func WriteQueryCSV(w io.Writer, cols []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
