package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FlaggedDocument names a document the QualityFilter wants checked by hand.
type FlaggedDocument struct {
	ID      string   `json:"id"`
	Reasons []string `json:"reasons"`
}

// ProfileSummary is the printable form of one resolved profile.
type ProfileSummary struct {
	Representative string   `json:"representative" yaml:"representative"`
	Members        []string `json:"members" yaml:"members"`
}

// RunReport summarises one munging run.
type RunReport struct {
	RunID         string               `json:"run_id"`
	StartedAt     time.Time            `json:"started_at"`
	FinishedAt    time.Time            `json:"finished_at"`
	Resumed       bool                 `json:"resumed"`
	Documents     int                  `json:"documents"`
	Emails        int                  `json:"emails"`
	GenuineEmails int                  `json:"genuine_emails"`
	Flagged       []FlaggedDocument    `json:"flagged"`
	Contacts      int                  `json:"contacts"`
	Clustered     int                  `json:"clustered"`
	Merges        int                  `json:"merges"`
	Passes        int                  `json:"passes"`
	Profiles      []ProfileSummary     `json:"profiles"`
	Suggestions   []*ContactSuggestion `json:"suggestions,omitempty"`
}

// ServiceOptions tunes a MungingService.
type ServiceOptions struct {
	Strategy MergeStrategy
	// SnapshotEvery also stores a snapshot after every N merge passes; 0
	// stores only the initial and final profile sets.
	SnapshotEvery int
	// MaxReviews caps the mangled contacts sent to the reviewer per run.
	MaxReviews int
}

// MungingService reads a corpus, triages its documents and resolves the
// harvested contacts into profiles.
type MungingService struct {
	corpus    *Corpus
	identity  *IdentityParser
	settings  Settings
	options   ServiceOptions
	snapshots SnapshotRepository
	reviewer  ContactReviewer
	logger    *zap.Logger
}

// NewMungingService creates a new munging service. reviewer may be nil.
func NewMungingService(
	corpus *Corpus,
	identity *IdentityParser,
	settings Settings,
	options ServiceOptions,
	snapshots SnapshotRepository,
	reviewer ContactReviewer,
	logger *zap.Logger,
) *MungingService {
	return &MungingService{
		corpus:    corpus,
		identity:  identity,
		settings:  settings,
		options:   options,
		snapshots: snapshots,
		reviewer:  reviewer,
		logger:    logger,
	}
}

type mangledContact struct {
	docID   string
	contact *Contact
}

// Run makes one pass over the corpus, then clusters every harvested contact
// to a fixpoint. Snapshots are stored before the first merge pass and after
// the last one.
func (s *MungingService) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	s.logger.Info("Starting munging run", zap.String("run_id", report.RunID))

	var contacts []*Contact
	var mangled []mangledContact
	for doc, err := range s.corpus.Documents(ctx) {
		if err != nil {
			return nil, err
		}
		report.Documents++
		report.Emails += doc.Len()
		for _, e := range doc.emails {
			if e.IsEmail() {
				report.GenuineEmails++
			}
		}

		review := doc.Review()
		if review.Flagged() {
			flagged := FlaggedDocument{ID: doc.ID()}
			for _, reason := range review.Reasons {
				flagged.Reasons = append(flagged.Reasons, reason.String())
			}
			report.Flagged = append(report.Flagged, flagged)
			for _, c := range review.Mangled() {
				mangled = append(mangled, mangledContact{docID: doc.ID(), contact: c})
			}
			s.logger.Debug("Document flagged for review",
				zap.String("doc_id", doc.ID()),
				zap.Int("reasons", len(review.Reasons)))
		}

		contacts = append(contacts, HarvestContacts(doc, s.identity, false)...)
	}
	if report.Documents == 0 {
		return nil, ErrEmptyCorpus
	}
	report.Contacts = len(contacts)

	clusterer := NewClusterer(s.settings, s.options.Strategy, s.logger)
	report.Clustered = clusterer.AddAll(contacts)
	if err := s.save(ctx, clusterer.Snapshot(report.RunID)); err != nil {
		return nil, err
	}

	if err := s.merge(ctx, clusterer, report); err != nil {
		return nil, err
	}

	report.Suggestions = s.review(ctx, mangled)
	report.FinishedAt = time.Now().UTC()

	s.logger.Info("Finished munging run",
		zap.String("run_id", report.RunID),
		zap.Int("documents", report.Documents),
		zap.Int("flagged", len(report.Flagged)),
		zap.Int("contacts", report.Contacts),
		zap.Int("profiles", len(report.Profiles)),
		zap.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)))

	return report, nil
}

// Resume restores the latest snapshot of runID and merges from there
// without reading the corpus again.
func (s *MungingService) Resume(ctx context.Context, runID string) (*RunReport, error) {
	if s.snapshots == nil {
		return nil, fmt.Errorf("no snapshot store configured: %w", ErrSnapshotNotFound)
	}
	snapshot, err := s.snapshots.Load(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for run %s: %w", runID, err)
	}

	report := &RunReport{
		RunID:     runID,
		StartedAt: time.Now().UTC(),
		Resumed:   true,
	}
	clusterer := NewClusterer(s.settings, s.options.Strategy, s.logger)
	clusterer.Restore(snapshot, s.identity)
	for _, p := range clusterer.Profiles() {
		report.Clustered += p.Len()
	}

	if err := s.merge(ctx, clusterer, report); err != nil {
		return nil, err
	}
	report.FinishedAt = time.Now().UTC()
	return report, nil
}

// Review asks the reviewer about a single contact.
func (s *MungingService) Review(ctx context.Context, contact *Contact) (*ContactSuggestion, error) {
	if s.reviewer == nil {
		return nil, ErrNoReviewer
	}
	return s.reviewer.ReviewContact(ctx, contact)
}

func (s *MungingService) merge(ctx context.Context, clusterer *Clusterer, report *RunReport) error {
	start := clusterer.Passes()
	var saveErr error
	if s.options.SnapshotEvery > 0 {
		clusterer.OnPass(func(pass int, _ []*Profile) {
			if saveErr != nil || (pass-start)%s.options.SnapshotEvery != 0 {
				return
			}
			saveErr = s.save(ctx, clusterer.Snapshot(report.RunID))
		})
	}

	report.Merges = clusterer.Merge()
	if saveErr != nil {
		return saveErr
	}
	report.Passes = clusterer.Passes()

	if err := s.save(ctx, clusterer.Snapshot(report.RunID)); err != nil {
		return err
	}

	for _, p := range clusterer.Profiles() {
		report.Profiles = append(report.Profiles, p.Summary())
	}
	return nil
}

func (s *MungingService) save(ctx context.Context, snapshot *Snapshot) error {
	if s.snapshots == nil {
		return nil
	}
	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		s.logger.Error("Failed to save snapshot",
			zap.String("run_id", snapshot.RunID),
			zap.Int("pass", snapshot.Pass),
			zap.Error(err))
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// review collects reviewer suggestions. A failed review is logged and
// skipped; the run carries on without it.
func (s *MungingService) review(ctx context.Context, mangled []mangledContact) []*ContactSuggestion {
	if s.reviewer == nil || len(mangled) == 0 {
		return nil
	}
	if s.options.MaxReviews > 0 && len(mangled) > s.options.MaxReviews {
		mangled = mangled[:s.options.MaxReviews]
	}

	var out []*ContactSuggestion
	for _, m := range mangled {
		suggestion, err := s.reviewer.ReviewContact(ctx, m.contact)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			s.logger.Warn("Failed to review contact",
				zap.String("doc_id", m.docID),
				zap.String("raw", m.contact.Raw()),
				zap.Error(err))
			continue
		}
		suggestion.DocumentID = m.docID
		out = append(out, suggestion)
	}
	return out
}
