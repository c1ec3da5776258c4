package storage

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var ddl embed.FS

// DB stores documents as JSON text rows in a single SQLite table.
type DB struct{ *sql.DB }

func New(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create dir: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, err
	}
	// sqlite принимает одного писателя
	db.SetMaxOpenConns(1)
	if err = migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db}, nil
}

func migrate(db *sql.DB) error {
	b, err := ddl.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(string(b))
	return err
}

func (d *DB) Load(name string, v any) (bool, error) {
	if name == "" {
		return false, errEmptyName
	}
	var body string
	err := d.QueryRow(`SELECT body FROM documents WHERE name=?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage: read %s: %w", name, err)
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return false, fmt.Errorf("storage: decode %s: %w", name, err)
	}
	return true, nil
}

func (d *DB) Save(name string, v any) error {
	if name == "" {
		return errEmptyName
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", name, err)
	}
	_, err = d.Exec(`
        INSERT INTO documents (name, body, updated_at)
        VALUES (?,?,?)
        ON CONFLICT(name) DO UPDATE SET body=excluded.body,
            updated_at=excluded.updated_at
    `, name, string(b), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("storage: save %s: %w", name, err)
	}
	return nil
}
