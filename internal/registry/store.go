package registry

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Elyot88/Image-QR-weblink/internal/models"
)

// Store persists the last fetched set of link records so the view panel
// has data between refreshes and across restarts. The cached set is only
// ever replaced wholesale; it is never patched entry by entry.
type Store struct {
	conn *sql.DB
	mu   sync.RWMutex
}

// OpenStore creates or opens the cache database at the given path.
func OpenStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	store := &Store{conn: conn}

	if err := store.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate cache database: %w", err)
	}

	return store, nil
}

// migrate creates the cache table if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS stored_links (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		url TEXT NOT NULL,
		content_type TEXT NOT NULL DEFAULT '',
		file_size INTEGER DEFAULT 0,
		image_size TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_stored_links_created_at ON stored_links(created_at);
	`

	_, err := s.conn.Exec(schema)
	return err
}

// ReplaceAll swaps the cached set for the given one in a single
// transaction, so readers never observe a partial set.
func (s *Store) ReplaceAll(links []models.StoredLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM stored_links`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO stored_links (id, filename, url, content_type, file_size, image_size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, link := range links {
		if _, err := stmt.Exec(link.ID, link.Filename, link.URL, link.ContentType, link.FileSize, link.ImageSize, link.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert link %s: %w", link.ID, err)
		}
	}

	return tx.Commit()
}

// All returns the cached set, newest first.
func (s *Store) All() ([]models.StoredLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.conn.Query(`
		SELECT id, filename, url, content_type, file_size, image_size, created_at
		FROM stored_links ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}
	defer rows.Close()

	var links []models.StoredLink
	for rows.Next() {
		var link models.StoredLink
		if err := rows.Scan(&link.ID, &link.Filename, &link.URL, &link.ContentType, &link.FileSize, &link.ImageSize, &link.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}
