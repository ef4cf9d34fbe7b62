// Package dataset reads a bout table from CSV and coerces each column to a
// single cell kind.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pable/go-fight-careers/internal/model"
)

// Options controls type coercion.
type Options struct {
	DateColumns   []string `yaml:"date_columns"`
	DateLayouts   []string `yaml:"date_layouts"`
	StringColumns []string `yaml:"string_columns"` // never coerced to numbers
	MissingTokens []string `yaml:"missing_tokens"` // cells read as missing, compared case-insensitively
	Delimiter     rune     `yaml:"-"`
}

// DefaultOptions fits the bout dataset export.
func DefaultOptions() Options {
	return Options{
		DateColumns:   []string{"event_date"},
		DateLayouts:   []string{"2006-01-02", "2006-01-02 15:04:05", "January 2, 2006", "01/02/2006"},
		StringColumns: []string{"fighter_1", "fighter_2"},
		MissingTokens: []string{"", "nan", "na", "n/a", "null", "none", "--"},
	}
}

// ReadFile opens path and reads it with ReadCSV.
func ReadFile(path string, opts Options) (*model.BoutTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, opts)
}

// ReadCSV reads a header row followed by one row per bout. A column becomes
// numeric when every present cell parses as a number, a date when it is listed
// in DateColumns, and text otherwise.
func ReadCSV(r io.Reader, opts Options) (*model.BoutTable, error) {
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: empty input")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var raw [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(raw)+1, err)
		}
		raw = append(raw, rec)
	}

	missing := lowerSet(opts.MissingTokens)
	dates := toSet(opts.DateColumns)
	texts := toSet(opts.StringColumns)

	kinds := make([]model.Kind, len(header))
	for c, name := range header {
		switch {
		case has(dates, name):
			kinds[c] = model.KindDate
		case has(texts, name):
			kinds[c] = model.KindString
		default:
			kinds[c] = inferKind(raw, c, missing)
		}
	}

	t := &model.BoutTable{Columns: header, Rows: make([][]model.Value, len(raw))}
	for i, rec := range raw {
		row := make([]model.Value, len(header))
		for c := range header {
			cell := strings.TrimSpace(rec[c])
			if has(missing, strings.ToLower(cell)) {
				continue
			}
			v, err := coerce(cell, kinds[c], opts.DateLayouts)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", i+1, header[c], err)
			}
			row[c] = v
		}
		t.Rows[i] = row
	}
	return t, nil
}

// Kinds reports the kind of each column, taken from the first present cell.
func Kinds(t *model.BoutTable) []model.Kind {
	out := make([]model.Kind, len(t.Columns))
	for c := range t.Columns {
		for _, row := range t.Rows {
			if k := row[c].Kind(); k != model.KindMissing {
				out[c] = k
				break
			}
		}
	}
	return out
}

func inferKind(raw [][]string, c int, missing map[string]struct{}) model.Kind {
	seen := false
	for _, rec := range raw {
		cell := strings.TrimSpace(rec[c])
		if has(missing, strings.ToLower(cell)) {
			continue
		}
		seen = true
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return model.KindString
		}
	}
	if !seen {
		return model.KindString
	}
	return model.KindNumber
}

func coerce(cell string, kind model.Kind, layouts []string) (model.Value, error) {
	switch kind {
	case model.KindNumber:
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return model.Value{}, err
		}
		return model.Number(f), nil
	case model.KindDate:
		for _, layout := range layouts {
			if t, err := time.Parse(layout, cell); err == nil {
				return model.Date(t), nil
			}
		}
		return model.Value{}, fmt.Errorf("unrecognised date %q", cell)
	}
	return model.String(cell), nil
}

func toSet(xs []string) map[string]struct{} {
	m := make(map[string]struct{}, len(xs))
	for _, x := range xs {
		m[x] = struct{}{}
	}
	return m
}

func lowerSet(xs []string) map[string]struct{} {
	m := make(map[string]struct{}, len(xs))
	for _, x := range xs {
		m[strings.ToLower(x)] = struct{}{}
	}
	return m
}

func has(m map[string]struct{}, k string) bool {
	_, ok := m[k]
	return ok
}
