package engine

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists the management history to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at the given path.
func NewStore(dbPath string) (*Store, error) {
	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			action     TEXT NOT NULL,
			entry      TEXT NOT NULL,
			detail     TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_events_entry ON events(entry);
	`)
	return err
}

// Record appends an event, filling in ID and CreatedAt.
func (s *Store) Record(ev *Event) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.Exec(`INSERT INTO events (action, entry, detail, created_at) VALUES (?, ?, ?, ?)`,
		ev.Action, ev.Entry, ev.Detail, ev.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return err
	}
	ev.ID, err = res.LastInsertId()
	return err
}

// Recent returns up to limit events, most recent first. A limit <= 0
// returns everything.
func (s *Store) Recent(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`SELECT id, action, entry, detail, created_at FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ForEntry returns all events for one entry name, oldest first.
func (s *Store) ForEntry(name string) ([]*Event, error) {
	rows, err := s.db.Query(`SELECT id, action, entry, detail, created_at FROM events WHERE entry=? ORDER BY id ASC`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]*Event, error) {
	var events []*Event
	for rows.Next() {
		var ev Event
		var created string
		if err := rows.Scan(&ev.ID, &ev.Action, &ev.Entry, &ev.Detail, &created); err != nil {
			return nil, err
		}
		ev.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		events = append(events, &ev)
	}
	return events, rows.Err()
}
