package career

import (
	"sort"
	"strings"

	"github.com/pable/go-fight-careers/internal/model"
	"github.com/pable/go-fight-careers/internal/schema"
)

// FighterCount is one entry of the known-fighters index.
type FighterCount struct {
	Name   string
	Fights int
	Side1  int // bouts fought from the side-1 slot
	Side2  int
	Titles int // title bouts, when the index was built with a title column
}

// Index lists every fighter named in a bout table.
type Index struct {
	counts map[string]*FighterCount
}

// NewIndex scans the identity columns of every row.
func NewIndex(t *model.BoutTable, s *schema.Schema) *Index {
	return NewIndexWithTitles(t, s, "", 0)
}

// NewIndexWithTitles is NewIndex that also counts bouts whose titleColumn
// equals flag.
func NewIndexWithTitles(t *model.BoutTable, s *schema.Schema, titleColumn string, flag float64) *Index {
	idx := &Index{counts: make(map[string]*FighterCount)}
	id := s.Identity()
	titleCol, hasTitle := s.Column(titleColumn)

	for _, row := range t.Rows {
		if id.Side1.Index >= len(row) || id.Side2.Index >= len(row) {
			continue
		}
		isTitle := hasTitle && titleCol.Index < len(row) && row[titleCol.Index].Float() == flag
		for _, c := range []struct {
			col  schema.Column
			side model.Side
		}{{id.Side1, model.Side1}, {id.Side2, model.Side2}} {
			v := row[c.col.Index]
			if v.Kind() != model.KindString || v.Str() == "" {
				continue
			}
			fc := idx.counts[v.Str()]
			if fc == nil {
				fc = &FighterCount{Name: v.Str()}
				idx.counts[v.Str()] = fc
			}
			fc.Fights++
			if c.side == model.Side1 {
				fc.Side1++
			} else {
				fc.Side2++
			}
			if isTitle {
				fc.Titles++
			}
		}
	}
	return idx
}

// Has reports whether the fighter appears in any bout.
func (x *Index) Has(name string) bool {
	_, ok := x.counts[name]
	return ok
}

// Len is the number of distinct fighters.
func (x *Index) Len() int { return len(x.counts) }

// Fighters returns all entries sorted by fight count descending, then name.
func (x *Index) Fighters() []FighterCount {
	out := make([]FighterCount, 0, len(x.counts))
	for _, fc := range x.counts {
		out = append(out, *fc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Fights != out[j].Fights {
			return out[i].Fights > out[j].Fights
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Suggest returns up to limit known names that match name case-insensitively,
// exactly first and then by substring.
func (x *Index) Suggest(name string, limit int) []string {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return nil
	}
	var exact, partial []string
	for known := range x.counts {
		k := strings.ToLower(known)
		switch {
		case k == want:
			exact = append(exact, known)
		case strings.Contains(k, want) || strings.Contains(want, k):
			partial = append(partial, known)
		}
	}
	sort.Strings(exact)
	sort.Strings(partial)
	out := append(exact, partial...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
