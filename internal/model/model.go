package model

import (
	"math"
	"strconv"
	"time"
)

// Side identifies which of the two symmetric slots a fighter occupies in a bout.
type Side int

const (
	SideUnresolved Side = 0
	Side1          Side = 1
	Side2          Side = 2
)

func (s Side) String() string {
	switch s {
	case Side1:
		return "1"
	case Side2:
		return "2"
	default:
		return "?"
	}
}

// Other returns the opposing side. SideUnresolved has no opposite.
func (s Side) Other() Side {
	switch s {
	case Side1:
		return Side2
	case Side2:
		return Side1
	default:
		return SideUnresolved
	}
}

// ---- Cells ----

// Kind is the dynamic type of a Value.
type Kind int

const (
	KindMissing Kind = iota
	KindString
	KindNumber
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "missing"
	}
}

// ParseKind is the inverse of Kind.String. Unknown names map to KindMissing.
func ParseKind(s string) Kind {
	switch s {
	case "string":
		return KindString
	case "number":
		return KindNumber
	case "date":
		return KindDate
	default:
		return KindMissing
	}
}

// DateLayout is the canonical textual form of date cells.
const DateLayout = "2006-01-02"

// Value is one cell of a bout table. The zero Value is missing.
type Value struct {
	kind Kind
	str  string
	num  float64
	date time.Time
}

func Missing() Value { return Value{} }
func String(s string) Value { return Value{kind: KindString, str: s} }
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }
func Date(t time.Time) Value { return Value{kind: KindDate, date: t} }
func (v Value) Kind() Kind { return v.kind }
func (v Value) Str() string { return v.str }
func (v Value) Time() time.Time { return v.date }

// IsMissing reports whether the cell carries no usable value. A NaN number is missing.
func (v Value) IsMissing() bool {
	return v.kind == KindMissing || (v.kind == KindNumber && math.IsNaN(v.num))
}

// Float returns the numeric value, or NaN for anything that is not a present number.
func (v Value) Float() float64 {
	if v.kind != KindNumber {
		return math.NaN()
	}
	return v.num
}

// Equal compares kind and payload. Two missing cells are equal; NaN numbers are
// treated as missing.
func (v Value) Equal(o Value) bool {
	if v.IsMissing() || o.IsMissing() {
		return v.IsMissing() && o.IsMissing()
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindDate:
		return v.date.Equal(o.date)
	}
	return true
}

// String renders the cell for display. Missing cells render as "—".
func (v Value) String() string {
	if v.IsMissing() {
		return "—"
	}
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindDate:
		return v.date.Format(DateLayout)
	}
	return ""
}

// ---- Input ----

// BoutTable is the flat two-sided dataset: one row per bout. Every row has
// len(Columns) cells. Core operations never mutate a BoutTable.
type BoutTable struct {
	Columns []string
	Rows    [][]Value
}

// ---- Career ----

// CareerRow is one bout seen from the subject fighter's perspective.
type CareerRow struct {
	Fighter     string
	Opponent    string
	Side        Side // side the subject occupied in the source row
	SourceIndex int  // row position in the source BoutTable

	Shared  map[string]Value // side-independent bout attributes
	Subject map[string]Value // base name → subject's value
	Against map[string]Value // opponent label → opponent's value
	Derived map[string]Value // differential columns
}

// Get looks a column up across shared, subject, opponent and derived fields.
func (r *CareerRow) Get(column string) (Value, bool) {
	for _, m := range []map[string]Value{r.Derived, r.Subject, r.Against, r.Shared} {
		if v, ok := m[column]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// CareerRows is the career timeline of one fighter, newest bout first.
type CareerRows struct {
	Fighter string
	Columns []string
	Rows    []CareerRow
}

// Len returns the number of bouts in the timeline.
func (c *CareerRows) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Rows)
}

// Column returns one column across all rows, in row order.
func (c *CareerRows) Column(name string) []Value {
	out := make([]Value, 0, c.Len())
	if c == nil {
		return out
	}
	for i := range c.Rows {
		v, _ := c.Rows[i].Get(name)
		out = append(out, v)
	}
	return out
}

// FighterSummary is the aggregate view over one column of a career.
type FighterSummary struct {
	Career  *CareerRows
	Column  string
	Fights  int
	Missing int // cells of Column that were missing
	Total   float64
	Mean    float64 // NaN when undefined
	Median  float64 // NaN when undefined
}

// ---- Title bouts ----

// VacantChampion is the champion label used for title bouts with no incumbent.
const VacantChampion = "Vacant"

// ChampionContenderRow is a title bout with a recognised incumbent.
type ChampionContenderRow struct {
	EventName   Value
	EventDate   Value
	SourceIndex int

	Champion  string
	Contender string

	ChampionAge     Value
	ContenderAge    Value
	ChampionStreak  Value
	ContenderStreak Value
	ChampionResult  Value
	ContenderResult Value
}

// VacantBoutRow is a title bout for a vacant belt. Contender A is the side-1
// fighter, contender B the side-2 fighter.
type VacantBoutRow struct {
	EventName   Value
	EventDate   Value
	SourceIndex int

	ContenderA string
	ContenderB string

	ContenderAAge    Value
	ContenderBAge    Value
	ContenderAStreak Value
	ContenderBStreak Value
	ContenderAResult Value
	ContenderBResult Value
}

// ChampionReign summarises the title bouts one champion entered as incumbent.
type ChampionReign struct {
	Champion  string
	Defences  int
	Retained  int
	Lost      int
	Other     int // draws, no contests, unknown results
	FirstDate Value
	LastDate  Value
}

// ---- Datasets ----

// DatasetSummary is a lightweight record for stored datasets.
type DatasetSummary struct {
	ID         string
	Source     string
	ImportedAt string
	Rows       int
	Columns    int
}

// ColumnInfo describes one stored column.
type ColumnInfo struct {
	Position int
	Name     string
	Kind     Kind
}
