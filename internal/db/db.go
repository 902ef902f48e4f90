package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tgienger/taskboard/internal/board"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when a row addressed by id does not exist
var ErrNotFound = errors.New("not found")

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// Open creates a database connection at path and initializes the schema
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &DB{db}, nil
}

// DefaultPath returns the database file under the XDG data directory
func DefaultPath() (string, error) {
	// Use XDG data directory or fallback to home directory
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "taskboard", "taskboard.db"), nil
}

// GetSetting retrieves a setting value by key
func (db *DB) GetSetting(key string) (string, error) {
	var value string
	err := db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetSetting sets a setting value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

const (
	settingLastArea    = "last_area_id"
	settingLastProject = "last_project_id"
)

// LastScope returns the scope saved by SaveScope, main if none
func (db *DB) LastScope() (board.Scope, error) {
	areaID, err := db.GetSetting(settingLastArea)
	if err != nil {
		return board.Scope{}, err
	}
	projectID, err := db.GetSetting(settingLastProject)
	if err != nil {
		return board.Scope{}, err
	}
	return board.Scope{AreaID: areaID, ProjectID: projectID}, nil
}

// SaveScope remembers the selected scope across launches
func (db *DB) SaveScope(scope board.Scope) error {
	if err := db.SetSetting(settingLastArea, scope.AreaID); err != nil {
		return err
	}
	return db.SetSetting(settingLastProject, scope.ProjectID)
}

func newID(prefix string) string {
	return prefix + "-" + uuid.New().String()
}

// nullable maps "" to NULL
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// scopeColumns returns the area_id and project_id values for a scope
func scopeColumns(scope board.Scope) (any, any) {
	if scope.IsProject() {
		return nil, scope.ProjectID
	}
	return nullable(scope.AreaID), nil
}

func notFound(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func nextPosition(ctx context.Context, q querier, table, where string, args ...any) (int, error) {
	var pos int
	err := q.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM "+table+" WHERE "+where, args...,
	).Scan(&pos)
	return pos, err
}
