package snapshot

import (
	"context"
	"fmt"
	"sync"

	"github.com/mikey/email-munger/internal/core"
	"go.uber.org/zap"
)

// MemoryRepository keeps snapshots in process memory. Snapshots are stored
// encoded, so callers never share state with the repository.
type MemoryRepository struct {
	rows   map[string]map[int]*row
	order  []*row
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewMemoryRepository creates a new in-memory snapshot repository
func NewMemoryRepository(logger *zap.Logger) *MemoryRepository {
	return &MemoryRepository{
		rows:   make(map[string]map[int]*row),
		logger: logger,
	}
}

// Save stores a snapshot, replacing any with the same run and pass
func (r *MemoryRepository) Save(ctx context.Context, s *core.Snapshot) error {
	encoded, err := encode(s)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	passes, ok := r.rows[s.RunID]
	if !ok {
		passes = make(map[int]*row)
		r.rows[s.RunID] = passes
	}
	passes[s.Pass] = encoded
	r.order = append(r.order, encoded)

	r.logger.Debug("Stored snapshot",
		zap.String("run_id", s.RunID),
		zap.Int("pass", s.Pass),
		zap.Int("profiles", len(s.Profiles)))
	return nil
}

// Load returns the latest pass stored for runID
func (r *MemoryRepository) Load(ctx context.Context, runID string) (*core.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *row
	for pass, encoded := range r.rows[runID] {
		if found == nil || pass > found.pass {
			found = encoded
		}
	}
	if found == nil {
		return nil, fmt.Errorf("run %s: %w", runID, core.ErrSnapshotNotFound)
	}
	return decode(found)
}

// Latest returns the most recently saved snapshot of any run
func (r *MemoryRepository) Latest(ctx context.Context) (*core.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return nil, core.ErrSnapshotNotFound
	}
	return decode(r.order[len(r.order)-1])
}

// Close releases the stored snapshots
func (r *MemoryRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.rows)
	r.order = nil
	return nil
}
