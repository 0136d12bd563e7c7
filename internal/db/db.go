// Package db provides SQLite storage for folio: a mirror of the CMS content
// and the inbox of contact messages.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultDir is the per-project state directory.
const DefaultDir = ".folio"

// DefaultFile is the database file name inside DefaultDir.
const DefaultFile = "folio.db"

// DB wraps a SQLite connection for folio operations.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens (or creates) a folio database at the given path.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}

	conn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec(Schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &DB{conn: conn, path: dbPath}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.conn != nil {
		return d.conn.Close()
	}
	return nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Now returns the current time as an ISO 8601 string.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// DiscoverDB finds the folio database by walking up from cwd.
// Returns the path to .folio/folio.db or empty string if not found.
func DiscoverDB() string {
	return discover(filepath.Join(DefaultDir, DefaultFile))
}

// DiscoverFile walks up from cwd looking for rel and returns its path,
// or empty string if not found.
func DiscoverFile(rel string) string {
	return discover(rel)
}

func discover(rel string) string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, rel)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// FindProjectRoot walks up from cwd looking for a .git directory.
func FindProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// Counts holds row counts per table.
type Counts struct {
	Projects   int    `json:"projects"`
	Posts      int    `json:"posts"`
	Skills     int    `json:"skills"`
	Authors    int    `json:"authors"`
	Messages   int    `json:"messages"`
	Unnotified int    `json:"unnotified"`
	LastSynced string `json:"last_synced,omitempty"`
}

// Counts returns row counts for every table and the latest sync time.
func (d *DB) Counts(ctx context.Context) (*Counts, error) {
	c := &Counts{}
	var last sql.NullString
	err := d.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM projects),
			(SELECT COUNT(*) FROM posts),
			(SELECT COUNT(*) FROM skills),
			(SELECT COUNT(*) FROM authors),
			(SELECT COUNT(*) FROM contact_messages),
			(SELECT COUNT(*) FROM contact_messages WHERE notified_at IS NULL),
			(SELECT MAX(t) FROM (
				SELECT MAX(synced_at) AS t FROM projects
				UNION ALL SELECT MAX(synced_at) FROM posts
				UNION ALL SELECT MAX(synced_at) FROM skills
				UNION ALL SELECT MAX(synced_at) FROM authors))`).Scan(
		&c.Projects, &c.Posts, &c.Skills, &c.Authors, &c.Messages, &c.Unnotified, &last,
	)
	if err != nil {
		return nil, fmt.Errorf("count rows: %w", err)
	}
	c.LastSynced = last.String
	return c, nil
}

// Underlying returns the raw sql.DB connection.
func (d *DB) Underlying() *sql.DB {
	return d.conn
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// jsonCol encodes v for a JSON text column. Empty values are stored as NULL.
func jsonCol(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	switch string(b) {
	case "null", "[]", "{}":
		return nil, nil
	}
	return string(b), nil
}

func scanJSON(col sql.NullString, v any) error {
	if !col.Valid || col.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(col.String), v)
}
