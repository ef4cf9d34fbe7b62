package career

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pable/go-fight-careers/internal/model"
	"github.com/pable/go-fight-careers/internal/schema"
)

var valueEqual = cmp.Comparer(func(a, b model.Value) bool { return a.Equal(b) })

var columns = []string{
	"event_name",
	"event_date",
	"is_title_bout",
	"fighter_1",
	"fighter_2",
	"fight_day_age (yrs)_fighter_1",
	"fight_day_age (yrs)_fighter_2",
	"Height (m)_fighter_1",
	"Height (m)_fighter_2",
	"sig_strikes_landed_fighter_1",
	"sig_strikes_landed_fighter_2",
}

func date(y int, m time.Month, d int) model.Value {
	return model.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func num(f float64) model.Value { return model.Number(f) }

var none = model.Missing()

// fixture: Ann Lee fights four times, twice from each side, two of them on
// the same day and one undated.
func fixture(t *testing.T) (*model.BoutTable, *schema.Schema) {
	t.Helper()
	str := model.String
	tbl := &model.BoutTable{
		Columns: columns,
		Rows: [][]model.Value{
			{str("UFC 1"), date(2020, 1, 1), num(2), str("Ann Lee"), str("Bea Cruz"), num(30), num(28), num(1.80), num(1.75), num(50), num(40)},
			{str("UFC 2"), date(2021, 6, 1), num(1), str("Cara Diaz"), str("Ann Lee"), num(25), num(31), num(1.70), num(1.80), num(20), num(60)},
			{str("UFC 2"), date(2021, 6, 1), num(1), str("Ann Lee"), str("Dee Moss"), num(31), num(33), num(1.80), none, num(10), num(30)},
			{str("UFC 0"), none, num(1), str("Bea Cruz"), str("Cara Diaz"), num(27), num(24), num(1.75), num(1.70), none, none},
			{str("UFC 0"), none, num(1), str("Eve Park"), str("Ann Lee"), num(22), num(29), num(1.60), num(1.80), num(5), num(7)},
		},
	}
	s, err := schema.Resolve(tbl.Columns, schema.DefaultConvention())
	require.NoError(t, err)
	return tbl, s
}

func testOptions() Options {
	return Options{
		DateColumn: "event_date",
		Diffs: []Diff{
			{Name: "age_diff", Base: "fight_day_age (yrs)"},
			{Name: "height_diff", Base: "Height (m)"},
		},
		SummaryColumn: "opponent_sig_strikes_landed",
	}
}

func sourceIndexes(c *model.CareerRows) []int {
	out := make([]int, len(c.Rows))
	for i, r := range c.Rows {
		out[i] = r.SourceIndex
	}
	return out
}

func TestBuildOrdersNewestFirst(t *testing.T) {
	tbl, s := fixture(t)
	c, err := Build(tbl, s, "Ann Lee", testOptions())
	require.NoError(t, err)

	// same-day bouts keep input order, undated bouts go last
	assert.Equal(t, []int{1, 2, 0, 4}, sourceIndexes(c))
	assert.Equal(t, "Ann Lee", c.Fighter)
	for _, r := range c.Rows {
		assert.Equal(t, "Ann Lee", r.Subject["fighter"].Str())
		assert.Equal(t, r.Opponent, r.Against["opponent"].Str())
	}
}

func TestBuildReorientsAndDiffs(t *testing.T) {
	tbl, s := fixture(t)
	c, err := Build(tbl, s, "Ann Lee", testOptions())
	require.NoError(t, err)

	asSide1 := c.Rows[2] // UFC 1 vs Bea Cruz
	assert.Equal(t, model.Side1, asSide1.Side)
	assert.Equal(t, "Bea Cruz", asSide1.Opponent)
	assert.Equal(t, 2.0, asSide1.Derived["age_diff"].Float())
	assert.InDelta(t, 0.05, asSide1.Derived["height_diff"].Float(), 1e-9)
	assert.Equal(t, 40.0, asSide1.Against["opponent_sig_strikes_landed"].Float())

	asSide2 := c.Rows[0] // UFC 2 vs Cara Diaz
	assert.Equal(t, model.Side2, asSide2.Side)
	assert.Equal(t, "Cara Diaz", asSide2.Opponent)
	assert.Equal(t, 60.0, asSide2.Subject["sig_strikes_landed"].Float())
	assert.Equal(t, 20.0, asSide2.Against["opponent_sig_strikes_landed"].Float())
	assert.Equal(t, 6.0, asSide2.Derived["age_diff"].Float())

	noHeight := c.Rows[1] // Dee Moss has no height
	assert.True(t, noHeight.Derived["height_diff"].IsMissing())
	assert.Equal(t, -2.0, noHeight.Derived["age_diff"].Float())

	v, ok := asSide1.Get("event_name")
	require.True(t, ok)
	assert.Equal(t, "UFC 1", v.Str())
}

func TestBuildColumnOrder(t *testing.T) {
	tbl, s := fixture(t)
	c, err := Build(tbl, s, "Bea Cruz", testOptions())
	require.NoError(t, err)

	want := []string{
		"event_name", "event_date", "is_title_bout",
		"fighter", "fight_day_age (yrs)", "Height (m)", "sig_strikes_landed",
		"opponent", "opponent_fight_day_age (yrs)", "opponent_Height (m)", "opponent_sig_strikes_landed",
		"age_diff", "height_diff",
	}
	if diff := cmp.Diff(want, c.Columns); diff != "" {
		t.Errorf("columns (-want +got):\n%s", diff)
	}
}

func TestBuildWithoutDateKeepsInputOrder(t *testing.T) {
	tbl, s := fixture(t)
	opts := testOptions()
	opts.DateColumn = ""
	c, err := Build(tbl, s, "Ann Lee", opts)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 4}, sourceIndexes(c))
}

func TestBuildIsPureAndRepeatable(t *testing.T) {
	tbl, s := fixture(t)
	before := make([][]model.Value, len(tbl.Rows))
	for i, r := range tbl.Rows {
		before[i] = append([]model.Value(nil), r...)
	}

	a, err := Build(tbl, s, "Ann Lee", testOptions())
	require.NoError(t, err)
	b, err := Build(tbl, s, "Ann Lee", testOptions())
	require.NoError(t, err)

	if diff := cmp.Diff(a, b, valueEqual); diff != "" {
		t.Errorf("second build differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(before, tbl.Rows, valueEqual); diff != "" {
		t.Errorf("bout table mutated:\n%s", diff)
	}
}

func TestBuildFighterNotFound(t *testing.T) {
	tbl, s := fixture(t)
	_, err := Build(tbl, s, "ann", testOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFighterNotFound))

	var nf *FighterNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, []string{"Ann Lee"}, nf.Suggestions)
	assert.Contains(t, err.Error(), `did you mean "Ann Lee"`)

	_, err = Build(tbl, s, "Zed", testOptions())
	require.True(t, errors.As(err, &nf))
	assert.Empty(t, nf.Suggestions)
}

func TestBuildUnknownColumns(t *testing.T) {
	tbl, s := fixture(t)

	opts := testOptions()
	opts.DateColumn = "fight_date"
	_, err := Build(tbl, s, "Ann Lee", opts)
	assert.True(t, errors.Is(err, ErrUnknownColumn), "got %v", err)
}

func TestBuildDiffWithoutPairedBaseIsMissing(t *testing.T) {
	tbl, s := fixture(t)
	opts := testOptions()
	opts.Diffs = append(opts.Diffs, Diff{Name: "reach_diff", Base: "Reach (in)"})
	c, err := Build(tbl, s, "Ann Lee", opts)
	require.NoError(t, err)
	assert.Contains(t, c.Columns, "reach_diff")
	for _, r := range c.Rows {
		assert.True(t, r.Derived["reach_diff"].IsMissing())
	}
	assert.Equal(t, 2.0, c.Rows[2].Derived["age_diff"].Float())
}

func TestBuildOneBoutWithDefaultOptions(t *testing.T) {
	cols := []string{
		"event_date", "fighter_1", "fighter_2",
		"fight_day_age (yrs)_fighter_1", "fight_day_age (yrs)_fighter_2",
		"Height (m)_fighter_1", "Height (m)_fighter_2",
	}
	s, err := schema.Resolve(cols, schema.DefaultConvention())
	require.NoError(t, err)
	tbl := &model.BoutTable{Columns: cols, Rows: [][]model.Value{{
		date(2020, 1, 1), model.String("A"), model.String("B"), num(30), num(28), num(1.80), num(1.75),
	}}}

	c, err := Build(tbl, s, "A", DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	r := c.Rows[0]
	assert.Equal(t, "B", r.Opponent)
	assert.Equal(t, 30.0, r.Subject["fight_day_age (yrs)"].Float())
	assert.Equal(t, 28.0, r.Against["opponent_fight_day_age (yrs)"].Float())
	assert.Equal(t, 2.0, r.Derived["age_diff"].Float())
	assert.InDelta(t, 0.05, r.Derived["height_diff"].Float(), 1e-9)
	assert.True(t, r.Derived["reach_diff"].IsMissing())
}

func TestBuildSelfBoutIsUnresolved(t *testing.T) {
	tbl, s := fixture(t)
	tbl.Rows = append(tbl.Rows, []model.Value{
		model.String("UFC 3"), date(2022, 1, 1), num(1), model.String("Ann Lee"), model.String("Ann Lee"),
		none, none, none, none, none, none,
	})
	_, err := Build(tbl, s, "Ann Lee", testOptions())
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	tbl, s := fixture(t)
	sum, err := Summarize(tbl, s, "Ann Lee", testOptions())
	require.NoError(t, err)

	assert.Equal(t, 4, sum.Fights)
	assert.Equal(t, 0, sum.Missing)
	assert.Equal(t, 95.0, sum.Total)
	assert.Equal(t, 23.75, sum.Mean)
	assert.Equal(t, 25.0, sum.Median)
	assert.Equal(t, "opponent_sig_strikes_landed", sum.Column)
}

func TestSummarizeMissingCellIsUndefined(t *testing.T) {
	tbl, s := fixture(t)
	sum, err := Summarize(tbl, s, "Bea Cruz", testOptions())
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Fights)
	assert.Equal(t, 1, sum.Missing)
	assert.True(t, math.IsNaN(sum.Total))
	assert.True(t, math.IsNaN(sum.Mean))
	assert.True(t, math.IsNaN(sum.Median))
}

func TestSummarizeNoBouts(t *testing.T) {
	tbl, s := fixture(t)
	sum, err := Summarize(tbl, s, "Zed", testOptions())
	require.NoError(t, err)

	assert.Equal(t, 0, sum.Fights)
	assert.Equal(t, 0.0, sum.Total)
	assert.True(t, math.IsNaN(sum.Mean))
	assert.True(t, math.IsNaN(sum.Median))
	assert.Equal(t, 0, sum.Career.Len())
	assert.NotEmpty(t, sum.Career.Columns)
}

func TestSummarizeUnknownColumn(t *testing.T) {
	tbl, s := fixture(t)
	opts := testOptions()
	opts.SummaryColumn = "opponent_takedowns"
	_, err := Summarize(tbl, s, "Ann Lee", opts)
	assert.True(t, errors.Is(err, ErrUnknownColumn), "got %v", err)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.0, median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 3, 2}))
	assert.True(t, math.IsNaN(median(nil)))
}

func TestBuildMany(t *testing.T) {
	defer goleak.VerifyNone(t)

	tbl, s := fixture(t)
	out, err := BuildMany(context.Background(), tbl, s, []string{"Cara Diaz", "Ann Lee", "Bea Cruz"}, testOptions())
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "Cara Diaz", out[0].Fighter)
	assert.Equal(t, 4, out[1].Len())
	assert.Equal(t, 2, out[2].Len())
}

func TestBuildManyStopsOnError(t *testing.T) {
	defer goleak.VerifyNone(t)

	tbl, s := fixture(t)
	_, err := BuildMany(context.Background(), tbl, s, []string{"Ann Lee", "Nobody"}, testOptions())
	assert.True(t, errors.Is(err, ErrFighterNotFound), "got %v", err)
}

func TestBuildManyCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	tbl, s := fixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := BuildMany(ctx, tbl, s, []string{"Ann Lee"}, testOptions())
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestIndex(t *testing.T) {
	tbl, s := fixture(t)
	idx := NewIndexWithTitles(tbl, s, "is_title_bout", 2)

	assert.Equal(t, 5, idx.Len())
	assert.True(t, idx.Has("Eve Park"))
	assert.False(t, idx.Has("eve park"))

	got := idx.Fighters()
	require.Len(t, got, 5)
	assert.Equal(t, FighterCount{Name: "Ann Lee", Fights: 4, Side1: 2, Side2: 2, Titles: 1}, got[0])
	assert.Equal(t, "Bea Cruz", got[1].Name, "ties break by name")
	assert.Equal(t, "Cara Diaz", got[2].Name)
	assert.Equal(t, 1, got[1].Titles)
	assert.Equal(t, 0, got[2].Titles)
}

func TestSuggest(t *testing.T) {
	tbl, s := fixture(t)
	idx := NewIndex(tbl, s)

	assert.Equal(t, []string{"Bea Cruz"}, idx.Suggest("bea cruz", 3))
	assert.Equal(t, []string{"Cara Diaz", "Eve Park"}, idx.Suggest(" AR", 3))
	assert.Len(t, idx.Suggest("e", 2), 2)
	assert.Nil(t, idx.Suggest("  ", 3))
}
