// Package title splits title bouts into champion-versus-contender bouts and
// bouts for a vacant belt.
package title

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pable/go-fight-careers/internal/model"
	"github.com/pable/go-fight-careers/internal/schema"
)

var (
	ErrConflictingChampion = errors.New("conflicting champion data")
	ErrUnknownColumn       = errors.New("unknown column")
)

// ConflictingChampionError is a title bout in which both sides are flagged as
// the incumbent champion.
type ConflictingChampionError struct {
	Row       int
	EventName string
	Fighter1  string
	Fighter2  string
}

func (e *ConflictingChampionError) Error() string {
	return fmt.Sprintf("%s: row %d (%s): both %q and %q flagged champion",
		ErrConflictingChampion, e.Row, e.EventName, e.Fighter1, e.Fighter2)
}

func (e *ConflictingChampionError) Unwrap() error { return ErrConflictingChampion }

// Fields names the columns the classifier reads.
type Fields struct {
	TitleFlag    string  `yaml:"title_flag"`    // shared
	ChampionFlag string  `yaml:"champion_flag"` // paired base
	FlagValue    float64 `yaml:"flag_value"`    // value meaning "yes"
	Age          string  `yaml:"age"`           // paired base
	Streak       string  `yaml:"streak"`        // paired base
	Result       string  `yaml:"result"`        // paired base
	EventName    string  `yaml:"event_name"`    // shared
	EventDate    string  `yaml:"event_date"`    // shared
	WinResult    string  `yaml:"win_result"`    // result value counted as a retained belt
	LossResult   string  `yaml:"loss_result"`
}

// DefaultFields matches the bout dataset, whose boolean flags are encoded 1/2.
func DefaultFields() Fields {
	return Fields{
		TitleFlag:    "is_title_bout",
		ChampionFlag: "is_champion",
		FlagValue:    2,
		Age:          "fight_day_age (yrs)",
		Streak:       "W/L_streak",
		Result:       "fight_result",
		EventName:    "event_name",
		EventDate:    "event_date",
		WinResult:    "W",
		LossResult:   "L",
	}
}

// TitleBouts is the classifier output. Every title bout lands in exactly one of
// the two slices, in input order.
type TitleBouts struct {
	Contested []model.ChampionContenderRow
	Vacant    []model.VacantBoutRow
}

type resolved struct {
	titleFlag schema.Column
	champion  schema.Pair
	age       schema.Pair
	streak    schema.Pair
	result    schema.Pair
	identity  schema.Pair
	eventName schema.Column
	eventDate schema.Column
	hasName   bool
	hasDate   bool
}

func resolve(s *schema.Schema, f Fields) (resolved, error) {
	var r resolved
	var ok bool
	var missing []string

	if r.titleFlag, ok = s.Column(f.TitleFlag); !ok {
		missing = append(missing, f.TitleFlag)
	}
	for _, p := range []struct {
		dst  *schema.Pair
		base string
	}{{&r.champion, f.ChampionFlag}, {&r.age, f.Age}, {&r.streak, f.Streak}, {&r.result, f.Result}} {
		if *p.dst, ok = s.Pair(p.base); !ok {
			missing = append(missing, p.base)
		}
	}
	if len(missing) > 0 {
		return r, fmt.Errorf("%w: %s", ErrUnknownColumn, strings.Join(missing, ", "))
	}
	r.identity = s.Identity()
	r.eventName, r.hasName = s.Column(f.EventName)
	r.eventDate, r.hasDate = s.Column(f.EventDate)
	return r, nil
}

// Classify labels every title bout. A bout whose side-1 champion flag is set
// has the side-1 fighter as champion; side 2 likewise; neither makes the bout
// vacant. Both flags set is contradictory and reported for every such bout.
func Classify(t *model.BoutTable, s *schema.Schema, f Fields) (TitleBouts, error) {
	r, err := resolve(s, f)
	if err != nil {
		return TitleBouts{}, err
	}

	var out TitleBouts
	var conflicts []error
	for i, row := range t.Rows {
		if len(row) != len(s.Columns) {
			return TitleBouts{}, fmt.Errorf("row %d: %d cells, %d columns", i, len(row), len(s.Columns))
		}
		if !isFlag(row[r.titleFlag.Index], f.FlagValue) {
			continue
		}
		c1 := isFlag(row[r.champion.Side1.Index], f.FlagValue)
		c2 := isFlag(row[r.champion.Side2.Index], f.FlagValue)

		var name, date model.Value
		if r.hasName {
			name = row[r.eventName.Index]
		}
		if r.hasDate {
			date = row[r.eventDate.Index]
		}

		switch {
		case c1 && c2:
			conflicts = append(conflicts, &ConflictingChampionError{
				Row:       i,
				EventName: name.String(),
				Fighter1:  row[r.identity.Side1.Index].String(),
				Fighter2:  row[r.identity.Side2.Index].String(),
			})
		case c1 || c2:
			champ, cont := model.Side1, model.Side2
			if c2 {
				champ, cont = model.Side2, model.Side1
			}
			out.Contested = append(out.Contested, model.ChampionContenderRow{
				EventName:       name,
				EventDate:       date,
				SourceIndex:     i,
				Champion:        cell(row, r.identity, champ).Str(),
				Contender:       cell(row, r.identity, cont).Str(),
				ChampionAge:     cell(row, r.age, champ),
				ContenderAge:    cell(row, r.age, cont),
				ChampionStreak:  cell(row, r.streak, champ),
				ContenderStreak: cell(row, r.streak, cont),
				ChampionResult:  cell(row, r.result, champ),
				ContenderResult: cell(row, r.result, cont),
			})
		default:
			out.Vacant = append(out.Vacant, model.VacantBoutRow{
				EventName:        name,
				EventDate:        date,
				SourceIndex:      i,
				ContenderA:       cell(row, r.identity, model.Side1).Str(),
				ContenderB:       cell(row, r.identity, model.Side2).Str(),
				ContenderAAge:    cell(row, r.age, model.Side1),
				ContenderBAge:    cell(row, r.age, model.Side2),
				ContenderAStreak: cell(row, r.streak, model.Side1),
				ContenderBStreak: cell(row, r.streak, model.Side2),
				ContenderAResult: cell(row, r.result, model.Side1),
				ContenderBResult: cell(row, r.result, model.Side2),
			})
		}
	}
	if len(conflicts) > 0 {
		return TitleBouts{}, errors.Join(conflicts...)
	}
	return out, nil
}

// Timeline merges both outputs back into one champion/contender table in input
// order. Vacant bouts carry the VacantChampion label, an empty contender and
// missing statistics on both sides.
func (tb TitleBouts) Timeline() []model.ChampionContenderRow {
	out := make([]model.ChampionContenderRow, 0, len(tb.Contested)+len(tb.Vacant))
	out = append(out, tb.Contested...)
	for _, v := range tb.Vacant {
		out = append(out, model.ChampionContenderRow{
			EventName:   v.EventName,
			EventDate:   v.EventDate,
			SourceIndex: v.SourceIndex,
			Champion:    model.VacantChampion,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SourceIndex < out[j].SourceIndex })
	return out
}

// Reigns groups contested bouts by champion, most title bouts first and then
// by name. Defences counts every bout the champion entered as incumbent;
// Retained and Lost follow the champion's result.
func (tb TitleBouts) Reigns(f Fields) []model.ChampionReign {
	byName := make(map[string]*model.ChampionReign)
	var order []string
	for _, b := range tb.Contested {
		r := byName[b.Champion]
		if r == nil {
			r = &model.ChampionReign{Champion: b.Champion, FirstDate: b.EventDate, LastDate: b.EventDate}
			byName[b.Champion] = r
			order = append(order, b.Champion)
		}
		r.Defences++
		switch strings.TrimSpace(b.ChampionResult.String()) {
		case f.WinResult:
			r.Retained++
		case f.LossResult:
			r.Lost++
		default:
			r.Other++
		}
		if before(b.EventDate, r.FirstDate) {
			r.FirstDate = b.EventDate
		}
		if before(r.LastDate, b.EventDate) || (r.LastDate.IsMissing() && !b.EventDate.IsMissing()) {
			r.LastDate = b.EventDate
		}
	}

	out := make([]model.ChampionReign, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Defences != out[j].Defences {
			return out[i].Defences > out[j].Defences
		}
		return out[i].Champion < out[j].Champion
	})
	return out
}

func cell(row []model.Value, p schema.Pair, side model.Side) model.Value {
	c, ok := p.For(side)
	if !ok {
		return model.Missing()
	}
	return row[c.Index]
}

func isFlag(v model.Value, want float64) bool {
	return !v.IsMissing() && v.Kind() == model.KindNumber && v.Float() == want
}

// before orders dates; a missing date is never before anything.
func before(a, b model.Value) bool {
	if a.IsMissing() {
		return false
	}
	if b.IsMissing() {
		return true
	}
	if a.Kind() == model.KindDate && b.Kind() == model.KindDate {
		return a.Time().Before(b.Time())
	}
	return a.String() < b.String()
}
