// Package reorient relabels the side-1 / side-2 statistics of a bout into the
// perspective of one named fighter.
package reorient

import (
	"errors"
	"fmt"

	"github.com/pable/go-fight-careers/internal/model"
	"github.com/pable/go-fight-careers/internal/schema"
)

var (
	ErrSideUnresolved = errors.New("side unresolved")
	ErrRowShape       = errors.New("row does not match schema")
)

// SideUnresolvedError reports a row on which a fighter could not be placed.
type SideUnresolvedError struct {
	Fighter string
	Row     int
	Side1   string
	Side2   string
}

func (e *SideUnresolvedError) Error() string {
	return fmt.Sprintf("%s: %q in row %d (side 1 %q, side 2 %q)",
		ErrSideUnresolved, e.Fighter, e.Row, e.Side1, e.Side2)
}

func (e *SideUnresolvedError) Unwrap() error { return ErrSideUnresolved }

// Perspective is one bout relabelled for a subject fighter.
type Perspective struct {
	Side     model.Side
	Subject  map[string]model.Value // base name → subject's value
	Opponent map[string]model.Value // opponent label → other side's value
}

// SideOf returns the side whose identity column holds fighter. A row where the
// name appears on neither side, or on both, is unresolved.
func SideOf(s *schema.Schema, row []model.Value, fighter string) model.Side {
	id := s.Identity()
	if id.Side1.Index >= len(row) || id.Side2.Index >= len(row) {
		return model.SideUnresolved
	}
	on1 := isFighter(row[id.Side1.Index], fighter)
	on2 := isFighter(row[id.Side2.Index], fighter)
	switch {
	case on1 && !on2:
		return model.Side1
	case on2 && !on1:
		return model.Side2
	}
	return model.SideUnresolved
}

// ResolveSide is SideOf with the unresolved case turned into an error. rowIndex
// is only used for the error message.
func ResolveSide(s *schema.Schema, row []model.Value, rowIndex int, fighter string) (model.Side, error) {
	side := SideOf(s, row, fighter)
	if side != model.SideUnresolved {
		return side, nil
	}
	e := &SideUnresolvedError{Fighter: fighter, Row: rowIndex}
	id := s.Identity()
	if id.Side1.Index < len(row) {
		e.Side1 = row[id.Side1.Index].String()
	}
	if id.Side2.Index < len(row) {
		e.Side2 = row[id.Side2.Index].String()
	}
	return model.SideUnresolved, e
}

// Involves reports whether fighter appears on either side of the row.
func Involves(s *schema.Schema, row []model.Value, fighter string) bool {
	id := s.Identity()
	if id.Side1.Index >= len(row) || id.Side2.Index >= len(row) {
		return false
	}
	return isFighter(row[id.Side1.Index], fighter) || isFighter(row[id.Side2.Index], fighter)
}

// Reorient splits every paired column of row into the subject's and the
// opponent's value. Values are copied, never derived.
func Reorient(s *schema.Schema, row []model.Value, side model.Side) (Perspective, error) {
	if len(row) != len(s.Columns) {
		return Perspective{}, fmt.Errorf("%w: %d cells, %d columns", ErrRowShape, len(row), len(s.Columns))
	}
	other := side.Other()
	if other == model.SideUnresolved {
		return Perspective{}, fmt.Errorf("reorient: %w", ErrSideUnresolved)
	}

	p := Perspective{
		Side:     side,
		Subject:  make(map[string]model.Value, len(s.Pairs)),
		Opponent: make(map[string]model.Value, len(s.Pairs)),
	}
	for _, pair := range s.Pairs {
		mine, _ := pair.For(side)
		theirs, _ := pair.For(other)
		p.Subject[s.SubjectLabel(pair.Base)] = row[mine.Index]
		p.Opponent[s.OpponentLabel(pair.Base)] = row[theirs.Index]
	}
	return p, nil
}

func isFighter(v model.Value, fighter string) bool {
	return v.Kind() == model.KindString && v.Str() == fighter
}
