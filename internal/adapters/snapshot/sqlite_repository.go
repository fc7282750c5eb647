package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/email-munger/internal/core"
	"go.uber.org/zap"
)

// SQLiteRepository is a SQLite implementation of core.SnapshotRepository
type SQLiteRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteRepository creates a new SQLite snapshot repository
func NewSQLiteRepository(dbPath string, logger *zap.Logger) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS profile_snapshots (
			run_id TEXT NOT NULL,
			pass INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			profiles BLOB NOT NULL,
			PRIMARY KEY (run_id, pass)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_created_at ON profile_snapshots(created_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		logger: logger,
	}, nil
}

// Save stores a snapshot, replacing any with the same run and pass
func (r *SQLiteRepository) Save(ctx context.Context, s *core.Snapshot) error {
	encoded, err := encode(s)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO profile_snapshots (run_id, pass, created_at, profiles)
		VALUES (?, ?, ?, ?)
	`, encoded.runID, encoded.pass, encoded.createdAt, encoded.profiles)
	if err != nil {
		r.logger.Error("Failed to insert snapshot", zap.Error(err), zap.String("run_id", s.RunID))
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return nil
}

// Load returns the latest pass stored for runID
func (r *SQLiteRepository) Load(ctx context.Context, runID string) (*core.Snapshot, error) {
	return r.queryOne(ctx, `
		SELECT run_id, pass, created_at, profiles
		FROM profile_snapshots
		WHERE run_id = ?
		ORDER BY pass DESC
		LIMIT 1
	`, runID)
}

// Latest returns the most recently created snapshot of any run
func (r *SQLiteRepository) Latest(ctx context.Context) (*core.Snapshot, error) {
	return r.queryOne(ctx, `
		SELECT run_id, pass, created_at, profiles
		FROM profile_snapshots
		ORDER BY created_at DESC, pass DESC
		LIMIT 1
	`)
}

func (r *SQLiteRepository) queryOne(ctx context.Context, query string, args ...any) (*core.Snapshot, error) {
	var stored row
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&stored.runID, &stored.pass, &stored.createdAt, &stored.profiles)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}
	return decode(&stored)
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	if err := r.db.Close(); err != nil {
		r.logger.Error("Failed to close SQLite database", zap.Error(err))
		return fmt.Errorf("failed to close SQLite database: %w", err)
	}
	return nil
}
