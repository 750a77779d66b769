// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bookmarks

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore keeps the bookmark set in a SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an already-migrated database handle.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// OpenSQLiteStore opens (or creates) the database file at path and applies
// pending migrations.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create bookmark directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bookmark database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open bookmark database: %w", err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout=5000`); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate bookmark database: %w", err)
	}

	return NewSQLiteStore(db), nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, "migrations")
}

// Load returns every bookmarked id.
func (s *SQLiteStore) Load(ctx context.Context) (Set, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM bookmarks`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	set := NewSet()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		set.Add(id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bookmarks: %w", err)
	}
	return set, nil
}

// Save replaces the table contents with set in one transaction. Ids
// already present keep their created_at.
func (s *SQLiteStore) Save(ctx context.Context, set Set) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `CREATE TEMP TABLE IF NOT EXISTS keep_bookmarks (user_id TEXT PRIMARY KEY)`); err != nil {
		return fmt.Errorf("failed to prepare bookmark update: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM keep_bookmarks`); err != nil {
		return fmt.Errorf("failed to prepare bookmark update: %w", err)
	}

	for _, id := range set.IDs() {
		if _, err = tx.ExecContext(ctx, `INSERT INTO keep_bookmarks (user_id) VALUES (?)`, id); err != nil {
			return fmt.Errorf("failed to stage bookmark %s: %w", id, err)
		}
		if _, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO bookmarks (user_id) VALUES (?)`, id); err != nil {
			return fmt.Errorf("failed to insert bookmark %s: %w", id, err)
		}
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM bookmarks WHERE user_id NOT IN (SELECT user_id FROM keep_bookmarks)`); err != nil {
		return fmt.Errorf("failed to remove stale bookmarks: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bookmarks: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
