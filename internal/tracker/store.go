// Package tracker is the issue-tracker store: analyzed items filed as issues
// keyed by a numeric id, with a structured text body and a label set. The
// core analysis pipeline never depends on it; it is a downstream consumer.
package tracker

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/stylemate/stylemate/internal/item"
)

const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// Issue is one tracked item. Item is the parse of Body, nil when the body
// lacks the required fields.
type Issue struct {
	ID        int64
	Title     string
	Body      string
	Labels    []string
	State     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Item      *item.Item
}

// Store is the issue-tracker surface: create/list/update/close keyed by a
// numeric issue id.
type Store interface {
	Create(it *item.Item, tags ...string) (int64, error)
	Get(id int64) (*Issue, error)
	List(state string) ([]Issue, error)
	Update(id int64, it *item.Item) error
	CloseIssue(id int64) error
	Close() error
}

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (and if needed initializes) the issue database at
// dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS issues (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		labels TEXT NOT NULL,
		state TEXT NOT NULL DEFAULT 'open',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create issues table: %w", err)
	}
	return nil
}

// Create files a new issue for the item and returns its id.
func (s *SQLiteStore) Create(it *item.Item, tags ...string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	labels, err := json.Marshal(Labels(it, tags...))
	if err != nil {
		return 0, fmt.Errorf("failed to marshal labels: %w", err)
	}

	now := time.Now().UTC()
	res, err := s.db.Exec(
		"INSERT INTO issues (title, body, labels, state, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		it.Name, FormatBody(it), string(labels), StateOpen, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert issue: %w", err)
	}
	return res.LastInsertId()
}

// Get retrieves a single issue by id. Returns nil, nil when it does not
// exist.
func (s *SQLiteStore) Get(id int64) (*Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT id, title, body, labels, state, created_at, updated_at FROM issues WHERE id = ?", id)
	issue, err := scanIssue(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get issue %d: %w", id, err)
	}
	return issue, nil
}

// List returns all issues in the given state ("" for all), oldest first.
func (s *SQLiteStore) List(state string) ([]Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, title, body, labels, state, created_at, updated_at FROM issues ORDER BY id"
	args := []any{}
	if state != "" {
		query = "SELECT id, title, body, labels, state, created_at, updated_at FROM issues WHERE state = ? ORDER BY id"
		args = append(args, state)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	defer rows.Close()

	var issues []Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		issues = append(issues, *issue)
	}
	return issues, rows.Err()
}

// Update rewrites an issue's title, body and labels from the item.
func (s *SQLiteStore) Update(id int64, it *item.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	labels, err := json.Marshal(Labels(it))
	if err != nil {
		return fmt.Errorf("failed to marshal labels: %w", err)
	}
	res, err := s.db.Exec(
		"UPDATE issues SET title = ?, body = ?, labels = ?, updated_at = ? WHERE id = ?",
		it.Name, FormatBody(it), string(labels), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update issue %d: %w", id, err)
	}
	return requireRow(res, id)
}

// CloseIssue marks an issue closed.
func (s *SQLiteStore) CloseIssue(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		"UPDATE issues SET state = ?, updated_at = ? WHERE id = ?",
		StateClosed, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to close issue %d: %w", id, err)
	}
	return requireRow(res, id)
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("issue %d not found", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIssue(row rowScanner) (*Issue, error) {
	var issue Issue
	var labels string
	if err := row.Scan(&issue.ID, &issue.Title, &issue.Body, &labels, &issue.State, &issue.CreatedAt, &issue.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(labels), &issue.Labels); err != nil {
		return nil, fmt.Errorf("failed to unmarshal labels: %w", err)
	}
	if parsed, ok := ParseBody(issue.Body); ok {
		issue.Item = parsed
	}
	return &issue, nil
}
