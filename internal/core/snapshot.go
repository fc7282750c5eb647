package core

import (
	"time"

	"go.uber.org/zap"
)

// Snapshot is a resumable copy of a clustering run's profile list.
type Snapshot struct {
	RunID     string          `json:"run_id"`
	Pass      int             `json:"pass"`
	CreatedAt time.Time       `json:"created_at"`
	Profiles  []ProfileRecord `json:"profiles"`
}

// ProfileRecord stores a profile by the raw text of its members. The
// representative is kept for reading only; it is recomputed on restore.
type ProfileRecord struct {
	Representative string   `json:"representative"`
	Members        []string `json:"members"`
}

// Snapshot captures the current profiles under runID.
func (c *Clusterer) Snapshot(runID string) *Snapshot {
	s := &Snapshot{
		RunID:     runID,
		Pass:      c.passes,
		CreatedAt: time.Now().UTC(),
		Profiles:  make([]ProfileRecord, len(c.profiles)),
	}
	for i, p := range c.profiles {
		members := make([]string, len(p.members))
		for j, m := range p.members {
			members[j] = m.Raw()
		}
		s.Profiles[i] = ProfileRecord{
			Representative: p.representative.String(),
			Members:        members,
		}
	}
	return s
}

// Restore replaces the profile set with the one in s, reparsing every member
// with identity. Records without members are dropped.
func (c *Clusterer) Restore(s *Snapshot, identity *IdentityParser) {
	c.profiles = make([]*Profile, 0, len(s.Profiles))
	for _, rec := range s.Profiles {
		if len(rec.Members) == 0 {
			continue
		}
		members := make([]*Contact, len(rec.Members))
		for i, raw := range rec.Members {
			members[i] = identity.Parse(raw)
		}
		c.profiles = append(c.profiles, newProfile(c.synth, c.cutoff, members...))
	}
	c.passes = s.Pass

	c.logger.Info("Restored profiles from snapshot",
		zap.String("run_id", s.RunID),
		zap.Int("pass", s.Pass),
		zap.Int("profiles", len(c.profiles)))
}
