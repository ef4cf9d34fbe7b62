package storage

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stamped into PRAGMA user_version. Bump it whenever
// schema.sql changes shape.
const schemaVersion = 1

// ErrSchemaVersion is returned when a database was written by an incompatible
// build. Dropping and re-importing is the only upgrade path.
var ErrSchemaVersion = errors.New("incompatible database schema")

// DB is the store of imported bout datasets.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens (or creates) the dataset store at path. ":memory:" gives a
// private in-process store.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	if path != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)"
	}
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// in-memory databases are per connection
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, path: path}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) migrate() error {
	var v int
	if err := db.conn.QueryRow(`PRAGMA user_version`).Scan(&v); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	switch v {
	case 0, schemaVersion:
	default:
		return fmt.Errorf("%w: %s has version %d, this build uses %d; run 'fightcareers drop' and re-import",
			ErrSchemaVersion, db.path, v, schemaVersion)
	}
	if _, err := db.conn.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	if _, err := db.conn.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion)); err != nil {
		return fmt.Errorf("stamp schema version: %w", err)
	}
	return nil
}

// Path is the location the store was opened from.
func (db *DB) Path() string { return db.path }

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
