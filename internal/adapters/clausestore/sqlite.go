package clausestore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/0xcro3dile/claimcheck-go/internal/domain/entities"
)

// SQLiteStore implements ports.ClauseStore with SQLite persistence, so a
// restarted watcher or server does not re-segment every policy.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore opens (or creates) clauses.db under dataPath.
func NewSQLiteStore(dataPath string) (*SQLiteStore, error) {
	if dataPath == "" {
		dataPath = "./data"
	}

	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataPath, "clauses.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return store, nil
}

// initSchema creates the necessary tables. A documents row marks a document
// as cached even when it produced no clauses.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		version TEXT NOT NULL DEFAULT '',
		clause_count INTEGER NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS clauses (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		page_number INTEGER NOT NULL,
		title TEXT NOT NULL,
		text TEXT NOT NULL,
		source TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_clauses_document_id ON clauses(document_id, position);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return s.addVersionColumn()
}

// addVersionColumn upgrades databases created before entries were versioned.
// Their rows keep an empty version and are re-segmented on next use.
func (s *SQLiteStore) addVersionColumn() error {
	rows, err := s.db.Query("PRAGMA table_info(documents)")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		if name == "version" {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	_, err = s.db.Exec("ALTER TABLE documents ADD COLUMN version TEXT NOT NULL DEFAULT ''")
	return err
}

// Put replaces the entry stored for a document in one transaction.
func (s *SQLiteStore) Put(ctx context.Context, documentID string, entry entities.CachedClauses) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM clauses WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("clearing clauses: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO documents (id, version, clause_count, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)",
		documentID, entry.Version, len(entry.Clauses),
	); err != nil {
		return fmt.Errorf("recording document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO clauses (id, document_id, position, page_number, title, text, source)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, c := range entry.Clauses {
		_, err = stmt.ExecContext(ctx, c.ID, documentID, i, c.PageNumber, c.Title, c.Text, c.Source)
		if err != nil {
			return fmt.Errorf("inserting clause: %w", err)
		}
	}

	return tx.Commit()
}

// Get returns the entry for a document with clauses in document order.
func (s *SQLiteStore) Get(ctx context.Context, documentID string) (entities.CachedClauses, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		entry entities.CachedClauses
		count int
	)
	err := s.db.QueryRowContext(ctx, "SELECT version, clause_count FROM documents WHERE id = ?", documentID).
		Scan(&entry.Version, &count)
	if err == sql.ErrNoRows {
		return entry, false, nil
	}
	if err != nil {
		return entry, false, fmt.Errorf("looking up document: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, page_number, title, text, source
		FROM clauses
		WHERE document_id = ?
		ORDER BY position
	`, documentID)
	if err != nil {
		return entry, false, fmt.Errorf("querying clauses: %w", err)
	}
	defer rows.Close()

	entry.Clauses = make([]entities.Clause, 0, count)
	for rows.Next() {
		var c entities.Clause
		if err := rows.Scan(&c.ID, &c.PageNumber, &c.Title, &c.Text, &c.Source); err != nil {
			return entry, false, fmt.Errorf("scanning row: %w", err)
		}
		entry.Clauses = append(entry.Clauses, c)
	}
	if err := rows.Err(); err != nil {
		return entry, false, fmt.Errorf("reading rows: %w", err)
	}

	return entry, true, nil
}

// Delete removes all clauses for a document.
func (s *SQLiteStore) Delete(ctx context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM clauses WHERE document_id = ?", documentID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", documentID)
	return err
}

// Clear removes all data from the store.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM clauses"); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents")
	return err
}

// Count returns the number of cached documents.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
