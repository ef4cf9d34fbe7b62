package report

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-fight-careers/internal/career"
	"github.com/pable/go-fight-careers/internal/model"
)

func day(y int, m time.Month, d int) model.Value {
	return model.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func bout(date model.Value, opponent string, title float64, ageDiff model.Value) model.CareerRow {
	return model.CareerRow{
		Fighter:  "Ann",
		Opponent: opponent,
		Shared:   map[string]model.Value{"event_date": date, "is_title_bout": model.Number(title)},
		Subject:  map[string]model.Value{"fighter": model.String("Ann")},
		Against:  map[string]model.Value{"opponent": model.String(opponent)},
		Derived:  map[string]model.Value{"age_diff": ageDiff},
	}
}

func sampleCareer() *model.CareerRows {
	return &model.CareerRows{
		Fighter: "Ann",
		Columns: []string{"event_date", "is_title_bout", "fighter", "opponent", "age_diff"},
		Rows: []model.CareerRow{
			bout(day(2022, 5, 1), "Cara", 2, model.Number(-4)),
			bout(day(2021, 1, 9), "Bea", 1, model.Number(2)),
			bout(day(2020, 3, 7), "Dee", 2, model.Missing()),
		},
	}
}

func TestPrintCareerTable(t *testing.T) {
	var buf bytes.Buffer
	PrintCareerTable(&buf, sampleCareer(), []string{"event_date", "opponent", "age_diff"})
	out := buf.String()

	assert.Contains(t, out, "2022-05-01")
	assert.Contains(t, out, "Cara")
	assert.Contains(t, out, "-4")
	assert.Contains(t, out, "—")
	assert.Contains(t, out, "Ann: 3 bouts")
	assert.NotContains(t, out, "is_title_bout")
}

func TestPrintSummaryUndefined(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, model.FighterSummary{
		Career:  &model.CareerRows{Fighter: "Ann"},
		Column:  "opponent_sig_strikes_landed",
		Fights:  2,
		Missing: 1,
		Total:   math.NaN(),
		Mean:    math.NaN(),
		Median:  math.NaN(),
	})
	out := buf.String()
	assert.Contains(t, out, "Fighter: Ann")
	assert.Contains(t, out, "1 of 2 bouts have no opponent_sig_strikes_landed")
	assert.NotContains(t, out, "NaN")
}

func TestPrintContestedShowsVacantTimeline(t *testing.T) {
	var buf bytes.Buffer
	PrintContested(&buf, []model.ChampionContenderRow{
		{EventName: model.String("UFC 1"), EventDate: day(2020, 1, 1), Champion: "Ann", Contender: "Bea",
			ChampionAge: model.Number(30), ContenderAge: model.Number(28)},
		{EventName: model.String("UFC 2"), EventDate: day(2020, 6, 1), Champion: model.VacantChampion},
	})
	out := buf.String()
	assert.Contains(t, out, "Ann")
	assert.Contains(t, out, "Bea")
	assert.Contains(t, out, model.VacantChampion)
	assert.Contains(t, out, "UFC 2")
}

func TestPrintDatasetsTruncatesID(t *testing.T) {
	var buf bytes.Buffer
	PrintDatasets(&buf, []model.DatasetSummary{{ID: "0123456789abcdef", Source: "bouts.csv", Rows: 10, Columns: 4}})
	out := buf.String()
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789abcdef")
}

func TestDiffBarsTitleBoutsAscending(t *testing.T) {
	var buf bytes.Buffer
	err := DiffBars{}.Render(&buf, sampleCareer(), "age_diff", ChartOptions{TitleBoutsOnly: true, Ascending: true, Width: 20})
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, "Age Difference in Title Bouts for Ann")
	assert.NotContains(t, out, "Bea", "non-title bout must be filtered")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	bars := lines[len(lines)-2:]
	assert.True(t, strings.HasPrefix(bars[0], "2020-03-07"), "oldest first: %q", bars[0])
	assert.True(t, strings.HasPrefix(bars[1], "2022-05-01"), "newest last: %q", bars[1])

	// -4 is the largest magnitude, so it fills the whole left half.
	assert.Contains(t, bars[1], strings.Repeat("█", 10)+"|")
	assert.True(t, strings.HasSuffix(bars[0], "—"))
}

func TestTitleBoutsOnlyUsesFlagValue(t *testing.T) {
	var buf bytes.Buffer
	err := MetricLine{}.Render(&buf, sampleCareer(), "age_diff", ChartOptions{TitleBoutsOnly: true})
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "Bea", "flag 1 is not a title bout")
	assert.Contains(t, buf.String(), "Cara")

	// datasets that encode the flag as 0/1
	c := sampleCareer()
	for i := range c.Rows {
		c.Rows[i].Shared["is_title_bout"] = model.Number(c.Rows[i].Shared["is_title_bout"].Float() - 1)
	}
	buf.Reset()
	err = MetricLine{}.Render(&buf, c, "age_diff", ChartOptions{TitleBoutsOnly: true, TitleFlag: 1})
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "Bea")
	assert.Contains(t, buf.String(), "Dee")
}

func TestPrintComparisonTitleBoutsOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintComparison(&buf, []*model.CareerRows{sampleCareer()}, "age_diff", ChartOptions{TitleBoutsOnly: true}))
	assert.NotContains(t, buf.String(), "2021-01-09")
	assert.Contains(t, buf.String(), "2022-05-01")
}

func TestDiffBarsDescendingSignedBars(t *testing.T) {
	var buf bytes.Buffer
	err := DiffBars{}.Render(&buf, sampleCareer(), "age_diff", ChartOptions{Width: 8})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	bars := lines[len(lines)-3:]
	assert.True(t, strings.HasPrefix(bars[0], "2022-05-01"))
	assert.Contains(t, bars[0], "████|")
	assert.True(t, strings.HasPrefix(bars[1], "2021-01-09"))
	assert.Contains(t, bars[1], "|██ 2")
}

func TestRenderUnknownColumn(t *testing.T) {
	for _, r := range []Renderer{DiffBars{}, MetricLine{}} {
		err := r.Render(&bytes.Buffer{}, sampleCareer(), "reach_diff", ChartOptions{})
		assert.True(t, errors.Is(err, career.ErrUnknownColumn), "%T: %v", r, err)
	}
}

func TestMetricLineCombo(t *testing.T) {
	c := sampleCareer()
	c.Columns = append(c.Columns, "opponent_age")
	for i := range c.Rows {
		c.Rows[i].Against["opponent_age"] = model.Number(float64(25 + i))
	}

	var buf bytes.Buffer
	err := MetricLine{}.Render(&buf, c, "age_diff", ChartOptions{OpponentColumn: "opponent_age", Width: 20})
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, "Age Difference and Opponent Age in Career for Ann")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	bars := lines[len(lines)-3:]
	assert.True(t, strings.HasPrefix(bars[0], "2020-03-07"))
	assert.True(t, strings.HasPrefix(bars[2], "2022-05-01"))
	assert.Contains(t, bars[0], "| ")
	assert.Contains(t, bars[0], "░")
}

func TestMetricLineNoBouts(t *testing.T) {
	c := &model.CareerRows{Fighter: "Zed", Columns: []string{"age_diff"}}
	var buf bytes.Buffer
	require.NoError(t, MetricLine{}.Render(&buf, c, "age_diff", ChartOptions{}))
	assert.Contains(t, buf.String(), "(no bouts)")
}

func TestPrintComparison(t *testing.T) {
	other := &model.CareerRows{
		Fighter: "Bea",
		Columns: []string{"event_date", "is_title_bout", "fighter", "opponent", "age_diff"},
		Rows:    []model.CareerRow{bout(day(2021, 1, 9), "Ann", 1, model.Number(-2))},
	}
	other.Rows[0].Fighter = "Bea"

	var buf bytes.Buffer
	require.NoError(t, PrintComparison(&buf, []*model.CareerRows{sampleCareer(), other}, "age_diff", ChartOptions{}))
	out := buf.String()

	assert.Contains(t, out, "2 (vs Bea)")
	assert.Contains(t, out, "-2 (vs Ann)")
	assert.Less(t, strings.Index(out, "2020-03-07"), strings.Index(out, "2022-05-01"))
}

func TestHeading(t *testing.T) {
	assert.Equal(t, "Height Difference", heading("height_diff"))
	assert.Equal(t, "Opponent Sig Strikes Landed", heading("opponent_sig_strikes_landed"))
}

func TestWriteCareerCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCareerCSV(&buf, sampleCareer(), []string{"event_date", "opponent", "age_diff"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "event_date,opponent,age_diff", lines[0])
	assert.Equal(t, "2022-05-01,Cara,-4", lines[1])
	assert.Equal(t, "2020-03-07,Dee,", lines[3], "missing cells are empty")
}

func TestQueryResult(t *testing.T) {
	var buf bytes.Buffer
	PrintQueryResult(&buf, []string{"name"}, nil)
	assert.Contains(t, buf.String(), "(no rows)")

	buf.Reset()
	require.NoError(t, WriteQueryCSV(&buf, []string{"name", "n"}, [][]string{{"Ann, Lee", "3"}}))
	assert.Equal(t, "name,n\n\"Ann, Lee\",3\n", buf.String())
}
