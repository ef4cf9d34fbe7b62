package title

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-fight-careers/internal/model"
	"github.com/pable/go-fight-careers/internal/schema"
)

var columns = []string{
	"event_name", "event_date", "is_title_bout",
	"fighter_1", "fighter_2",
	"is_champion_fighter_1", "is_champion_fighter_2",
	"fight_day_age (yrs)_fighter_1", "fight_day_age (yrs)_fighter_2",
	"W/L_streak_fighter_1", "W/L_streak_fighter_2",
	"fight_result_fighter_1", "fight_result_fighter_2",
}

func bout(event string, d time.Time, title float64, f1, f2 string, c1, c2 float64, r1, r2 string) []model.Value {
	return []model.Value{
		model.String(event), model.Date(d), model.Number(title),
		model.String(f1), model.String(f2),
		model.Number(c1), model.Number(c2),
		model.Number(30), model.Number(28),
		model.Number(3), model.Missing(),
		model.String(r1), model.String(r2),
	}
}

func on(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func fixture(t *testing.T) (*model.BoutTable, *schema.Schema) {
	t.Helper()
	tbl := &model.BoutTable{
		Columns: columns,
		Rows: [][]model.Value{
			bout("UFC 10", on(2019, 3, 2), 2, "Ann Lee", "Bea Cruz", 2, 1, "W", "L"),
			bout("UFC 11", on(2019, 6, 1), 1, "Ann Lee", "Eve Park", 1, 1, "W", "L"),
			bout("UFC 12", on(2020, 1, 4), 2, "Cara Diaz", "Ann Lee", 1, 2, "W", "L"),
			bout("UFC 13", on(2020, 8, 8), 2, "Dee Moss", "Eve Park", 1, 1, "L", "W"),
			bout("UFC 14", on(2021, 2, 6), 2, "Cara Diaz", "Bea Cruz", 2, 1, "D", "D"),
		},
	}
	s, err := schema.Resolve(columns, schema.DefaultConvention())
	require.NoError(t, err)
	return tbl, s
}

func TestClassify(t *testing.T) {
	tbl, s := fixture(t)
	tb, err := Classify(tbl, s, DefaultFields())
	require.NoError(t, err)

	require.Len(t, tb.Contested, 3)
	require.Len(t, tb.Vacant, 1)

	side1 := tb.Contested[0]
	assert.Equal(t, "Ann Lee", side1.Champion)
	assert.Equal(t, "Bea Cruz", side1.Contender)
	assert.Equal(t, 30.0, side1.ChampionAge.Float())
	assert.Equal(t, 28.0, side1.ContenderAge.Float())
	assert.Equal(t, 3.0, side1.ChampionStreak.Float())
	assert.True(t, side1.ContenderStreak.IsMissing())
	assert.Equal(t, "W", side1.ChampionResult.Str())
	assert.Equal(t, "UFC 10", side1.EventName.Str())

	side2 := tb.Contested[1]
	assert.Equal(t, 2, side2.SourceIndex)
	assert.Equal(t, "Ann Lee", side2.Champion, "side-2 champion swaps the columns")
	assert.Equal(t, "Cara Diaz", side2.Contender)
	assert.Equal(t, 28.0, side2.ChampionAge.Float())
	assert.Equal(t, 30.0, side2.ContenderAge.Float())
	assert.Equal(t, "L", side2.ChampionResult.Str())
	assert.Equal(t, "W", side2.ContenderResult.Str())

	v := tb.Vacant[0]
	assert.Equal(t, 3, v.SourceIndex)
	assert.Equal(t, "Dee Moss", v.ContenderA)
	assert.Equal(t, "Eve Park", v.ContenderB)
	assert.Equal(t, "W", v.ContenderBResult.Str())
	assert.Equal(t, 30.0, v.ContenderAAge.Float())
}

func TestClassifySkipsNonTitleBouts(t *testing.T) {
	tbl, s := fixture(t)
	tb, err := Classify(tbl, s, DefaultFields())
	require.NoError(t, err)

	for _, c := range tb.Contested {
		assert.NotEqual(t, 1, c.SourceIndex)
	}
	for _, v := range tb.Vacant {
		assert.NotEqual(t, 1, v.SourceIndex)
	}
}

func TestClassifyConflictingChampion(t *testing.T) {
	tbl, s := fixture(t)
	tbl.Rows = append(tbl.Rows,
		bout("UFC 15", on(2021, 5, 1), 2, "Ann Lee", "Dee Moss", 2, 2, "W", "L"),
		bout("UFC 16", on(2021, 9, 1), 2, "Bea Cruz", "Eve Park", 2, 2, "W", "L"),
	)

	tb, err := Classify(tbl, s, DefaultFields())
	require.Error(t, err)
	assert.Empty(t, tb.Contested)
	assert.True(t, errors.Is(err, ErrConflictingChampion))

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok, "every conflicting bout is reported")
	require.Len(t, joined.Unwrap(), 2)

	var ce *ConflictingChampionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 5, ce.Row)
	assert.Equal(t, "UFC 15", ce.EventName)
	assert.Equal(t, "Ann Lee", ce.Fighter1)
	assert.Equal(t, "Dee Moss", ce.Fighter2)
}

func TestClassifyUnknownColumn(t *testing.T) {
	tbl, s := fixture(t)
	f := DefaultFields()
	f.Streak = "win_streak"
	_, err := Classify(tbl, s, f)
	assert.True(t, errors.Is(err, ErrUnknownColumn), "got %v", err)
	assert.Contains(t, err.Error(), "win_streak")
}

func TestClassifyRowShape(t *testing.T) {
	tbl, s := fixture(t)
	tbl.Rows[2] = tbl.Rows[2][:4]
	_, err := Classify(tbl, s, DefaultFields())
	assert.Error(t, err)
}

func TestTimeline(t *testing.T) {
	tbl, s := fixture(t)
	tb, err := Classify(tbl, s, DefaultFields())
	require.NoError(t, err)

	rows := tb.Timeline()
	require.Len(t, rows, 4)
	var idx []int
	for _, r := range rows {
		idx = append(idx, r.SourceIndex)
	}
	assert.Equal(t, []int{0, 2, 3, 4}, idx)

	vacant := rows[2]
	assert.Equal(t, model.VacantChampion, vacant.Champion)
	assert.Empty(t, vacant.Contender)
	assert.True(t, vacant.ChampionAge.IsMissing())
	assert.Equal(t, "UFC 13", vacant.EventName.Str())
}

func TestReigns(t *testing.T) {
	tbl, s := fixture(t)
	tb, err := Classify(tbl, s, DefaultFields())
	require.NoError(t, err)

	reigns := tb.Reigns(DefaultFields())
	require.Len(t, reigns, 2)

	ann := reigns[0]
	assert.Equal(t, "Ann Lee", ann.Champion)
	assert.Equal(t, 2, ann.Defences)
	assert.Equal(t, 1, ann.Retained)
	assert.Equal(t, 1, ann.Lost)
	assert.Equal(t, "2019-03-02", ann.FirstDate.String())
	assert.Equal(t, "2020-01-04", ann.LastDate.String())

	cara := reigns[1]
	assert.Equal(t, "Cara Diaz", cara.Champion)
	assert.Equal(t, 1, cara.Other)
}

func TestReignsTieBreakByName(t *testing.T) {
	tb := TitleBouts{Contested: []model.ChampionContenderRow{
		{Champion: "Zoe Hart", ChampionResult: model.String("W")},
		{Champion: "Cara Diaz", ChampionResult: model.String("W")},
		{Champion: "Mia Fox", ChampionResult: model.String("L")},
		{Champion: "Mia Fox", ChampionResult: model.String("W")},
	}}

	var names []string
	for _, r := range tb.Reigns(DefaultFields()) {
		names = append(names, r.Champion)
	}
	assert.Equal(t, []string{"Mia Fox", "Cara Diaz", "Zoe Hart"}, names)
}
