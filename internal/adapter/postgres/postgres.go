// Package postgres implements the repository ports using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// DB wraps a *sql.DB; the per-entity repositories hang off it.
type DB struct {
	sql *sql.DB
}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

// Users returns the UserRepository backed by this connection.
func (d *DB) Users() *UserRepo { return &UserRepo{db: d} }

// Posts returns the PostRepository backed by this connection.
func (d *DB) Posts() *PostRepo { return &PostRepo{db: d} }

// Sessions returns the SessionRepository backed by this connection.
func (d *DB) Sessions() *SessionRepo { return &SessionRepo{db: d} }

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		// user_name is UNIQUE at the storage level so concurrent
		// registrations cannot race past the service-level existence check.
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			user_name VARCHAR(100) UNIQUE NOT NULL,
			password_hash VARCHAR(100) NOT NULL,
			email VARCHAR(100) NOT NULL DEFAULT '',
			access_token VARCHAR(100) NOT NULL
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_access_token ON users(access_token);`,
		// user_name is intentionally not a foreign key: posts survive their
		// author's deletion.
		`CREATE TABLE IF NOT EXISTS posts (
			id BIGSERIAL PRIMARY KEY,
			title VARCHAR(100) NOT NULL,
			user_name VARCHAR(100) NOT NULL,
			content VARCHAR(1000) NOT NULL,
			post_time VARCHAR(100) NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);`,
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
