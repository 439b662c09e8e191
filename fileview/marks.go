package fileview

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteMarkStore keeps mark bits per path in a SQLite database.
type SQLiteMarkStore struct {
	db *sql.DB
}

// OpenMarkStore opens or creates the database at path. ":memory:" gives a
// store that lives as long as the process.
func OpenMarkStore(path string) (*SQLiteMarkStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// one connection, so ":memory:" sees a single database
	db.SetMaxOpenConns(1)

	s := &SQLiteMarkStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteMarkStore) initSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS marks (
    path TEXT PRIMARY KEY,
    bits INTEGER NOT NULL
);`)
	return err
}

func (s *SQLiteMarkStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteMarkStore) LoadMarks(path string) (uint32, error) {
	var bits int64
	err := s.db.QueryRow(`SELECT bits FROM marks WHERE path = ?`, path).Scan(&bits)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load marks for %s: %w", path, err)
	}
	return uint32(bits), nil
}

// SaveMarks stores bits for path. Clearing every mark removes the row.
func (s *SQLiteMarkStore) SaveMarks(path string, bits uint32) error {
	var err error
	if bits == 0 {
		_, err = s.db.Exec(`DELETE FROM marks WHERE path = ?`, path)
	} else {
		_, err = s.db.Exec(`
INSERT INTO marks (path, bits) VALUES (?, ?)
ON CONFLICT(path) DO UPDATE SET bits = excluded.bits`, path, int64(bits))
	}
	if err != nil {
		return fmt.Errorf("save marks for %s: %w", path, err)
	}
	return nil
}

// RenameMarks moves the marks of oldPath to newPath, replacing any marks
// newPath had.
func (s *SQLiteMarkStore) RenameMarks(oldPath, newPath string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM marks WHERE path = ?`, newPath); err != nil {
		return fmt.Errorf("rename marks: %w", err)
	}
	if _, err := tx.Exec(`UPDATE marks SET path = ? WHERE path = ?`, newPath, oldPath); err != nil {
		return fmt.Errorf("rename marks: %w", err)
	}
	return tx.Commit()
}
