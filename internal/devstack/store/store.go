// Package store provides the sqlite-backed storage for the local development
// backend, with the schema and seed data the client expects.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

	"github.com/NaijaReels/naijareels-go/internal/infrastructure/observability/logging"
)

// Store wraps the sqlite connection used by the devstack handlers.
type Store struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL DEFAULT '',
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'customer',
		password_hash TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS movies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		genre TEXT NOT NULL DEFAULT '',
		release_year INTEGER NOT NULL DEFAULT 0,
		daily_rate REAL NOT NULL DEFAULT 0,
		price REAL NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS inventories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		movie_id INTEGER NOT NULL UNIQUE REFERENCES movies(id) ON DELETE CASCADE,
		total_copies INTEGER NOT NULL DEFAULT 0,
		available_copies INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS rentals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		movie_id INTEGER NOT NULL REFERENCES movies(id),
		user_id INTEGER NOT NULL REFERENCES users(id),
		rented_at TEXT NOT NULL,
		returned_at TEXT,
		status TEXT NOT NULL DEFAULT 'active'
	)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_rentals_user ON rentals(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_rentals_movie ON rentals(movie_id)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_genre ON movies(genre)`,
}

// NewStore opens the sqlite database at path and ensures the schema exists.
func NewStore(path string, logger *logging.ChanneledLogger) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open devstack database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("devstack database ping failed: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.createSchema(); err != nil {
		return nil, err
	}
	if err := s.seed(); err != nil {
		return nil, err
	}

	logger.Startup().Info("Devstack database ready", "path", path)
	return s, nil
}

func (s *Store) createSchema() error {
	for _, tableSQL := range tables {
		if _, err := s.db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}
	for _, indexSQL := range indexes {
		if _, err := s.db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// seed idempotently creates the default admin account.
func (s *Store) seed() error {
	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE username = 'admin')").Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO users (username, email, role, password_hash) VALUES (?, ?, 'admin', ?)`,
		"admin", "admin@localhost", string(hash))
	if err != nil {
		return fmt.Errorf("failed to insert admin user: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}
