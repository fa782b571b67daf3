package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/weekmenu/internal/logger"
	"github.com/julianstephens/weekmenu/internal/migration"
	"github.com/julianstephens/weekmenu/internal/models"
	"github.com/julianstephens/weekmenu/migrations"
)

type Store struct {
	path string
	db   *sql.DB
}

func New(path string) *Store {
	return &Store{path: path}
}

// Init opens the database file, creating it and its directory when missing,
// and brings the schema up to date.
func (s *Store) Init(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	// A single connection keeps writers from tripping over SQLITE_BUSY
	db.SetMaxOpenConns(1)
	s.db = db

	if err := s.runMigrations(ctx); err != nil {
		s.db = nil
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) Location() string {
	return s.path
}

func (s *Store) runMigrations(ctx context.Context) error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	runner, err := migration.NewRunner(s.db, subFS, migration.DriverSQLite)
	if err != nil {
		return err
	}
	_, err = runner.Apply(ctx, func(msg string) {
		logger.Debug(msg, "index", s.path)
	})
	return err
}

// ReplaceAll swaps the whole name list in one transaction.
func (s *Store) ReplaceAll(ctx context.Context, names []string, syncedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM recipe_names"); err != nil {
		return fmt.Errorf("failed to clear recipe names: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO recipe_names (name, name_folded) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	// Duplicates are skipped by the insert, so count what actually landed
	inserted := 0
	for _, name := range names {
		res, err := stmt.ExecContext(ctx, name, models.FoldRecipeName(name))
		if err != nil {
			return fmt.Errorf("failed to insert recipe name %q: %w", name, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sync_state (id, synced_at, name_count) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET synced_at = excluded.synced_at, name_count = excluded.name_count
	`, syncedAt.UTC().Format(time.RFC3339), inserted)
	if err != nil {
		return fmt.Errorf("failed to record sync state: %w", err)
	}

	return tx.Commit()
}

func (s *Store) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM recipe_names ORDER BY name_folded, name")
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe names: %w", err)
	}
	return scanNames(rows)
}

// Search returns names containing term, case-insensitively.
func (s *Store) Search(ctx context.Context, term string, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM recipe_names WHERE instr(name_folded, ?) > 0 ORDER BY name_folded, name LIMIT ?",
		models.FoldRecipeName(term), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search recipe names: %w", err)
	}
	return scanNames(rows)
}

func (s *Store) Status(ctx context.Context) (models.IndexStatus, error) {
	var syncedAt string
	var status models.IndexStatus
	err := s.db.QueryRowContext(ctx, "SELECT synced_at, name_count FROM sync_state WHERE id = 1").Scan(&syncedAt, &status.Count)
	if errors.Is(err, sql.ErrNoRows) {
		return models.IndexStatus{}, nil
	}
	if err != nil {
		return models.IndexStatus{}, fmt.Errorf("failed to read sync state: %w", err)
	}
	status.SyncedAt, err = time.Parse(time.RFC3339, syncedAt)
	if err != nil {
		return models.IndexStatus{}, fmt.Errorf("invalid sync timestamp %q: %w", syncedAt, err)
	}
	return status, nil
}

func scanNames(rows *sql.Rows) ([]string, error) {
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
