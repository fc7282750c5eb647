package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mikey/email-munger/internal/core"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// row is the stored form of a snapshot: one row per (run, pass).
type row struct {
	runID     string
	pass      int
	createdAt string
	profiles  []byte
}

func encode(s *core.Snapshot) (*row, error) {
	profiles, err := json.Marshal(s.Profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profiles: %w", err)
	}
	return &row{
		runID:     s.RunID,
		pass:      s.Pass,
		createdAt: s.CreatedAt.UTC().Format(timeLayout),
		profiles:  profiles,
	}, nil
}

func decode(r *row) (*core.Snapshot, error) {
	createdAt, err := time.Parse(timeLayout, r.createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
	}
	s := &core.Snapshot{
		RunID:     r.runID,
		Pass:      r.pass,
		CreatedAt: createdAt,
	}
	if err := json.Unmarshal(r.profiles, &s.Profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}
	return s, nil
}
