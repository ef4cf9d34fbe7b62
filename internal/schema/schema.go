// Package schema resolves the column layout of a two-sided bout table: which
// columns are side-independent and which exist once per side.
package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pable/go-fight-careers/internal/model"
)

var (
	ErrUnpairedColumn  = errors.New("unpaired column")
	ErrMissingIdentity = errors.New("missing identity columns")
	ErrDuplicateColumn = errors.New("duplicate column")
)

// UnpairedColumnError lists columns whose counterpart on the other side is absent.
type UnpairedColumnError struct {
	Columns []string
}

func (e *UnpairedColumnError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnpairedColumn, strings.Join(e.Columns, ", "))
}

func (e *UnpairedColumnError) Unwrap() error { return ErrUnpairedColumn }

// Convention describes how side-specific columns are named.
type Convention struct {
	Side1Marker string   `yaml:"side1_marker"`
	Side2Marker string   `yaml:"side2_marker"`
	Identity    string   `yaml:"identity"`        // base name of the fighter-name pair
	Opponent    string   `yaml:"opponent"`        // label for the opponent's identity
	Prefix      string   `yaml:"opponent_prefix"` // prepended to every other opponent base
	Shared      []string `yaml:"shared"`          // forced shared even when a marker matches
	Excluded    []string `yaml:"excluded"`        // marker columns deliberately left unpaired

	// AllowUnpaired records one-sided columns in Schema.Unpaired instead of failing.
	AllowUnpaired bool `yaml:"allow_unpaired"`
}

// DefaultConvention is the fighter_1 / fighter_2 layout of the bout dataset.
func DefaultConvention() Convention {
	return Convention{
		Side1Marker: "fighter_1",
		Side2Marker: "fighter_2",
		Identity:    "fighter",
		Opponent:    "opponent",
		Prefix:      "opponent_",
	}
}

// Column is a resolved column position.
type Column struct {
	Name  string
	Index int
}

// Pair is one statistic recorded once per side.
type Pair struct {
	Base  string
	Side1 Column
	Side2 Column
}

// For returns the column holding the given side's value.
func (p Pair) For(side model.Side) (Column, bool) {
	switch side {
	case model.Side1:
		return p.Side1, true
	case model.Side2:
		return p.Side2, true
	}
	return Column{}, false
}

// Schema is the resolved layout of a bout table. It is immutable once built and
// safe to share between goroutines.
type Schema struct {
	Columns  []string
	Shared   []Column
	Pairs    []Pair // ordered by first appearance of either side
	Unpaired []Column

	conv     Convention
	index    map[string]int
	pairs    map[string]int
	identity Pair
}

type sideHit struct {
	base string
	side model.Side
}

// Resolve classifies every column of a bout table. A column is paired when it
// carries a side marker and is not on the shared allowlist.
func Resolve(columns []string, conv Convention) (*Schema, error) {
	conv = withDefaults(conv)
	s := &Schema{
		Columns: append([]string(nil), columns...),
		conv:    conv,
		index:   make(map[string]int, len(columns)),
		pairs:   make(map[string]int),
	}

	shared := toSet(conv.Shared)
	excluded := toSet(conv.Excluded)

	type halves struct {
		s1, s2 *Column
	}
	byBase := make(map[string]*halves)
	var order []string

	for i, name := range columns {
		if _, dup := s.index[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		s.index[name] = i

		if _, ok := shared[name]; ok {
			s.Shared = append(s.Shared, Column{Name: name, Index: i})
			continue
		}
		hit, ok := split(name, conv)
		if !ok {
			s.Shared = append(s.Shared, Column{Name: name, Index: i})
			continue
		}
		if _, ok := excluded[name]; ok {
			continue
		}
		h := byBase[hit.base]
		if h == nil {
			h = &halves{}
			byBase[hit.base] = h
			order = append(order, hit.base)
		}
		col := &Column{Name: name, Index: i}
		if hit.side == model.Side1 {
			if h.s1 != nil {
				return nil, fmt.Errorf("%w: %q and %q share base %q", ErrDuplicateColumn, h.s1.Name, name, hit.base)
			}
			h.s1 = col
		} else {
			if h.s2 != nil {
				return nil, fmt.Errorf("%w: %q and %q share base %q", ErrDuplicateColumn, h.s2.Name, name, hit.base)
			}
			h.s2 = col
		}
	}

	var unpaired []Column
	for _, base := range order {
		h := byBase[base]
		switch {
		case h.s1 != nil && h.s2 != nil:
			s.pairs[base] = len(s.Pairs)
			s.Pairs = append(s.Pairs, Pair{Base: base, Side1: *h.s1, Side2: *h.s2})
		case h.s1 != nil:
			unpaired = append(unpaired, *h.s1)
		default:
			unpaired = append(unpaired, *h.s2)
		}
	}
	if len(unpaired) > 0 {
		sort.Slice(unpaired, func(i, j int) bool { return unpaired[i].Index < unpaired[j].Index })
		if !conv.AllowUnpaired {
			names := make([]string, len(unpaired))
			for i, c := range unpaired {
				names[i] = c.Name
			}
			return nil, &UnpairedColumnError{Columns: names}
		}
		s.Unpaired = unpaired
	}

	id, ok := s.pairs[conv.Identity]
	if !ok {
		return nil, fmt.Errorf("%w: need %q and %q", ErrMissingIdentity,
			joinBase(conv.Identity, conv.Side1Marker), joinBase(conv.Identity, conv.Side2Marker))
	}
	s.identity = s.Pairs[id]
	return s, nil
}

// Identity returns the pair holding the fighter names.
func (s *Schema) Identity() Pair { return s.identity }

// Pair looks up a paired statistic by base name.
func (s *Schema) Pair(base string) (Pair, bool) {
	i, ok := s.pairs[base]
	if !ok {
		return Pair{}, false
	}
	return s.Pairs[i], true
}

// Column looks up any column by its source name.
func (s *Schema) Column(name string) (Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return Column{}, false
	}
	return Column{Name: name, Index: i}, true
}

// OpponentLabel is the career-row name of the opponent's value for a base.
func (s *Schema) OpponentLabel(base string) string {
	if base == s.conv.Identity {
		return s.conv.Opponent
	}
	return s.conv.Prefix + base
}

// SubjectLabel is the career-row name of the subject's value for a base.
func (s *Schema) SubjectLabel(base string) string { return base }

// Convention returns the naming convention the schema was resolved with.
func (s *Schema) Convention() Convention { return s.conv }

// split recognises a side marker inside a column name. The marker must be a
// whole token: preceded by start or '_', followed by end, '_' or ' '.
func split(name string, conv Convention) (sideHit, bool) {
	for _, m := range []struct {
		marker string
		side   model.Side
	}{{conv.Side1Marker, model.Side1}, {conv.Side2Marker, model.Side2}} {
		base, ok := stripMarker(name, m.marker)
		if ok {
			return sideHit{base: base, side: m.side}, true
		}
	}
	return sideHit{}, false
}

func stripMarker(name, marker string) (string, bool) {
	from := 0
	for {
		at := strings.Index(name[from:], marker)
		if at < 0 {
			return "", false
		}
		at += from
		end := at + len(marker)
		startOK := at == 0 || name[at-1] == '_'
		endOK := end == len(name) || name[end] == '_' || name[end] == ' '
		if startOK && endOK {
			head := strings.TrimSuffix(name[:at], "_")
			tail := name[end:]
			if head == "" {
				// fighter_1 → fighter, fighter_1_url → fighter_url
				return strings.TrimSuffix(marker, sideDigits(marker)) + tail, true
			}
			return head + tail, true
		}
		from = at + 1
	}
}

// sideDigits returns the trailing "_N" of a marker such as "fighter_1".
func sideDigits(marker string) string {
	i := strings.LastIndexByte(marker, '_')
	if i < 0 {
		return ""
	}
	return marker[i:]
}

func joinBase(base, marker string) string {
	if strings.HasPrefix(marker, base) {
		return marker
	}
	return base + "_" + marker
}

func withDefaults(c Convention) Convention {
	d := DefaultConvention()
	if c.Side1Marker == "" {
		c.Side1Marker = d.Side1Marker
	}
	if c.Side2Marker == "" {
		c.Side2Marker = d.Side2Marker
	}
	if c.Identity == "" {
		c.Identity = d.Identity
	}
	if c.Opponent == "" {
		c.Opponent = d.Opponent
	}
	if c.Prefix == "" {
		c.Prefix = d.Prefix
	}
	return c
}

func toSet(xs []string) map[string]struct{} {
	m := make(map[string]struct{}, len(xs))
	for _, x := range xs {
		m[x] = struct{}{}
	}
	return m
}
