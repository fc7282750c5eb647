package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/email-munger/internal/core"
	"go.uber.org/zap"
)

// MySQLRepository is a MySQL implementation of core.SnapshotRepository
type MySQLRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLRepository creates a new MySQL snapshot repository
func NewMySQLRepository(dsn string, logger *zap.Logger) (*MySQLRepository, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS profile_snapshots (
			run_id VARCHAR(64) NOT NULL,
			pass INT NOT NULL,
			created_at VARCHAR(40) NOT NULL,
			profiles LONGBLOB NOT NULL,
			PRIMARY KEY (run_id, pass),
			INDEX idx_created_at (created_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLRepository{
		db:     db,
		logger: logger,
	}, nil
}

// Save stores a snapshot, replacing any with the same run and pass
func (r *MySQLRepository) Save(ctx context.Context, s *core.Snapshot) error {
	encoded, err := encode(s)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO profile_snapshots (run_id, pass, created_at, profiles)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			created_at = VALUES(created_at),
			profiles = VALUES(profiles)
	`, encoded.runID, encoded.pass, encoded.createdAt, encoded.profiles)
	if err != nil {
		r.logger.Error("Failed to insert snapshot", zap.Error(err), zap.String("run_id", s.RunID))
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return nil
}

// Load returns the latest pass stored for runID
func (r *MySQLRepository) Load(ctx context.Context, runID string) (*core.Snapshot, error) {
	return r.queryOne(ctx, `
		SELECT run_id, pass, created_at, profiles
		FROM profile_snapshots
		WHERE run_id = ?
		ORDER BY pass DESC
		LIMIT 1
	`, runID)
}

// Latest returns the most recently created snapshot of any run
func (r *MySQLRepository) Latest(ctx context.Context) (*core.Snapshot, error) {
	return r.queryOne(ctx, `
		SELECT run_id, pass, created_at, profiles
		FROM profile_snapshots
		ORDER BY created_at DESC, pass DESC
		LIMIT 1
	`)
}

func (r *MySQLRepository) queryOne(ctx context.Context, query string, args ...any) (*core.Snapshot, error) {
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
func (r *MySQLRepository) Close() error {
	if err := r.db.Close(); err != nil {
		r.logger.Error("Failed to close MySQL database", zap.Error(err))
		return fmt.Errorf("failed to close MySQL database: %w", err)
	}
	return nil
}
