package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pable/go-fight-careers/internal/model"
)

var (
	ErrEmptyPrefix     = errors.New("empty dataset id prefix")
	ErrAmbiguousPrefix = errors.New("ambiguous dataset id prefix")
)

// dateLayout keeps the time of day so same-day bouts stay ordered.
// Cells written with model.DateLayout are still read.
const dateLayout = time.RFC3339Nano

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// InsertDataset stores a bout table under meta.ID in one transaction. Missing
// cells are not written. Row and column counts are taken from t.
func (db *DB) InsertDataset(meta model.DatasetSummary, t *model.BoutTable, kinds []model.Kind) error {
	if len(kinds) != len(t.Columns) {
		return fmt.Errorf("insert dataset: %d kinds for %d columns", len(kinds), len(t.Columns))
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO datasets(id, source, imported_at, row_count, column_count)
		VALUES (?, ?, ?, ?, ?)`,
		meta.ID, meta.Source, meta.ImportedAt, len(t.Rows), len(t.Columns),
	)
	if err != nil {
		return fmt.Errorf("insert dataset %s: %w", meta.ID, err)
	}

	colStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO bout_columns(dataset_id, position, name, kind)
		VALUES (?,?,?,?)`)
	if err != nil {
		return err
	}
	defer colStmt.Close()
	for i, name := range t.Columns {
		if _, err := colStmt.Exec(meta.ID, i, name, kinds[i].String()); err != nil {
			return fmt.Errorf("insert column %q: %w", name, err)
		}
	}

	cellStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO bout_cells(dataset_id, row_idx, position, text_value, num_value)
		VALUES (?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer cellStmt.Close()
	for r, row := range t.Rows {
		for c, v := range row {
			if v.IsMissing() {
				continue
			}
			text, num := encodeCell(v)
			if _, err := cellStmt.Exec(meta.ID, r, c, text, num); err != nil {
				return fmt.Errorf("insert cell row %d column %q: %w", r, t.Columns[c], err)
			}
		}
	}
	return tx.Commit()
}

// ListDatasets returns all stored datasets, newest import first.
func (db *DB) ListDatasets() ([]model.DatasetSummary, error) {
	rows, err := db.conn.Query(`
		SELECT id, source, imported_at, row_count, column_count
		FROM datasets ORDER BY imported_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DatasetSummary
	for rows.Next() {
		var s model.DatasetSummary
		if err := rows.Scan(&s.ID, &s.Source, &s.ImportedAt, &s.Rows, &s.Columns); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LatestDataset returns the most recent import, or nil if the store is empty.
func (db *DB) LatestDataset() (*model.DatasetSummary, error) {
	var s model.DatasetSummary
	err := db.conn.QueryRow(`
		SELECT id, source, imported_at, row_count, column_count
		FROM datasets ORDER BY imported_at DESC, id LIMIT 1`).
		Scan(&s.ID, &s.Source, &s.ImportedAt, &s.Rows, &s.Columns)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetDatasetByPrefix finds the dataset whose id starts with prefix. The prefix
// is matched literally and must name exactly one dataset.
func (db *DB) GetDatasetByPrefix(prefix string) (*model.DatasetSummary, error) {
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}
	rows, err := db.conn.Query(`
		SELECT id, source, imported_at, row_count, column_count
		FROM datasets WHERE id LIKE ? ESCAPE '\' ORDER BY id LIMIT 2`, likeEscaper.Replace(prefix)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var found []model.DatasetSummary
	for rows.Next() {
		var s model.DatasetSummary
		if err := rows.Scan(&s.ID, &s.Source, &s.ImportedAt, &s.Rows, &s.Columns); err != nil {
			return nil, err
		}
		found = append(found, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return &found[0], nil
	}
	return nil, fmt.Errorf("%w: %q matches %s, %s and possibly more", ErrAmbiguousPrefix, prefix, found[0].ID, found[1].ID)
}

// GetColumns returns the stored column layout of a dataset in position order.
func (db *DB) GetColumns(id string) ([]model.ColumnInfo, error) {
	rows, err := db.conn.Query(`
		SELECT position, name, kind FROM bout_columns
		WHERE dataset_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ColumnInfo
	for rows.Next() {
		var ci model.ColumnInfo
		var kind string
		if err := rows.Scan(&ci.Position, &ci.Name, &kind); err != nil {
			return nil, err
		}
		ci.Kind = model.ParseKind(kind)
		out = append(out, ci)
	}
	return out, rows.Err()
}

// LoadBouts rebuilds the bout table of a dataset. Cells absent from the store
// come back missing.
func (db *DB) LoadBouts(id string) (*model.BoutTable, error) {
	var rowCount int
	err := db.conn.QueryRow("SELECT row_count FROM datasets WHERE id = ?", id).Scan(&rowCount)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("dataset %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	cols, err := db.GetColumns(id)
	if err != nil {
		return nil, err
	}
	t := &model.BoutTable{Columns: make([]string, len(cols)), Rows: make([][]model.Value, rowCount)}
	for i, c := range cols {
		t.Columns[i] = c.Name
	}
	for r := range t.Rows {
		t.Rows[r] = make([]model.Value, len(cols))
	}

	rows, err := db.conn.Query(`
		SELECT row_idx, position, text_value, num_value FROM bout_cells
		WHERE dataset_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var r, c int
		var text sql.NullString
		var num sql.NullFloat64
		if err := rows.Scan(&r, &c, &text, &num); err != nil {
			return nil, err
		}
		if r < 0 || r >= rowCount || c < 0 || c >= len(cols) {
			return nil, fmt.Errorf("dataset %s: cell (%d, %d) out of range", id, r, c)
		}
		v, err := decodeCell(cols[c].Kind, text, num)
		if err != nil {
			return nil, fmt.Errorf("row %d column %q: %w", r, cols[c].Name, err)
		}
		t.Rows[r][c] = v
	}
	return t, rows.Err()
}

// DeleteDataset removes a dataset and all its cells. Returns false if no
// dataset had that id.
func (db *DB) DeleteDataset(id string) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM bout_cells WHERE dataset_id = ?",
		"DELETE FROM bout_columns WHERE dataset_id = ?",
	} {
		if _, err := tx.Exec(q, id); err != nil {
			return false, err
		}
	}
	res, err := tx.Exec("DELETE FROM datasets WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, tx.Commit()
}

// QueryRaw runs an arbitrary query and returns every cell formatted as text.
// NULL cells come back empty.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		rec := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
			case []byte:
				rec[i] = string(x)
			default:
				rec[i] = fmt.Sprint(x)
			}
		}
		out = append(out, rec)
	}
	return cols, out, rows.Err()
}

func encodeCell(v model.Value) (any, any) {
	switch v.Kind() {
	case model.KindNumber:
		return nil, v.Float()
	case model.KindDate:
		return v.Time().Format(dateLayout), nil
	}
	return v.Str(), nil
}

func decodeCell(kind model.Kind, text sql.NullString, num sql.NullFloat64) (model.Value, error) {
	switch kind {
	case model.KindNumber:
		if !num.Valid || math.IsNaN(num.Float64) {
			return model.Missing(), nil
		}
		return model.Number(num.Float64), nil
	case model.KindDate:
		if !text.Valid {
			return model.Missing(), nil
		}
		t, err := time.Parse(dateLayout, text.String)
		if err != nil {
			if t, err = time.Parse(model.DateLayout, text.String); err != nil {
				return model.Value{}, err
			}
		}
		return model.Date(t), nil
	}
	if !text.Valid {
		return model.Missing(), nil
	}
	return model.String(text.String), nil
}
