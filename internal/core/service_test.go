package core

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sliceSource struct {
	docs []*RawDocument
	err  error
}

func (s *sliceSource) Documents(ctx context.Context) iter.Seq2[*RawDocument, error] {
	return func(yield func(*RawDocument, error) bool) {
		for _, d := range s.docs {
			if !yield(d, nil) {
				return
			}
		}
		if s.err != nil {
			yield(nil, s.err)
		}
	}
}

type recordingRepository struct {
	saved []*Snapshot
	err   error
}

func (r *recordingRepository) Save(ctx context.Context, s *Snapshot) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, s)
	return nil
}

func (r *recordingRepository) Load(ctx context.Context, runID string) (*Snapshot, error) {
	var found *Snapshot
	for _, s := range r.saved {
		if s.RunID == runID && (found == nil || s.Pass >= found.Pass) {
			found = s
		}
	}
	if found == nil {
		return nil, ErrSnapshotNotFound
	}
	return found, nil
}

func (r *recordingRepository) Latest(ctx context.Context) (*Snapshot, error) {
	if len(r.saved) == 0 {
		return nil, ErrSnapshotNotFound
	}
	return r.saved[len(r.saved)-1], nil
}

func (r *recordingRepository) Close() error {
	return nil
}

type stubReviewer struct {
	calls int
	err   error
}

func (s *stubReviewer) ReviewContact(ctx context.Context, c *Contact) (*ContactSuggestion, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &ContactSuggestion{Raw: c.Raw(), Name: "Reviewed", Confidence: 0.5, ModelUsed: "stub"}, nil
}

var serviceCorpus = []*RawDocument{
	{ID: "001", Lines: twoMessageThread},
	{ID: "002", Lines: []string{
		"From: a@x.com; b@y.com",
		"Sent: Tuesday",
		"To:",
		"Subject: hi",
		"body text here",
	}},
	{ID: "003", Lines: []string{"just some text"}},
}

func newTestService(source DocumentSource, repo SnapshotRepository, reviewer ContactReviewer, opts ServiceOptions) *MungingService {
	settings := DefaultSettings()
	identity := NewIdentityParser(settings.Sentinel, settings.RedactionCutoff)
	logger := zap.NewNop()
	corpus := NewCorpus(source, NewDocumentParser(settings, identity, logger), identity, logger)
	return NewMungingService(corpus, identity, settings, opts, repo, reviewer, logger)
}

func TestCorpus_Documents(t *testing.T) {
	settings := DefaultSettings()
	identity := newTestIdentityParser()
	corpus := NewCorpus(&sliceSource{docs: serviceCorpus}, NewDocumentParser(settings, identity, zap.NewNop()), identity, zap.NewNop())

	var ids []string
	for doc, err := range corpus.Documents(context.Background()) {
		require.NoError(t, err)
		ids = append(ids, doc.ID())
	}
	assert.Equal(t, []string{"001", "002", "003"}, ids)

	// Breaking early and starting again begins from the first document.
	for doc := range corpus.Documents(context.Background()) {
		assert.Equal(t, "001", doc.ID())
		break
	}
}

func TestCorpus_PullContacts(t *testing.T) {
	settings := DefaultSettings()
	identity := newTestIdentityParser()
	corpus := NewCorpus(&sliceSource{docs: serviceCorpus[:1]}, NewDocumentParser(settings, identity, zap.NewNop()), identity, zap.NewNop())

	contacts, err := corpus.PullContacts(context.Background())
	require.NoError(t, err)
	// From, first To and first CC for each of the two emails.
	require.Len(t, contacts, 6)
	assert.Equal(t, "Smith, John Q <jsmith@example.com>", contacts[0].String())
	assert.Equal(t, "Doe, Jane <jane.doe@example.com>", contacts[1].String())
	assert.True(t, contacts[2].IsEmpty())

	all, err := corpus.PullAllContacts(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 7)
	assert.Equal(t, "Roe, Rick <rroe@example.com>", all[2].String())
}

func TestCorpus_SourceError(t *testing.T) {
	settings := DefaultSettings()
	identity := newTestIdentityParser()
	boom := errors.New("boom")
	corpus := NewCorpus(&sliceSource{docs: serviceCorpus[:1], err: boom}, NewDocumentParser(settings, identity, zap.NewNop()), identity, zap.NewNop())

	_, err := corpus.PullContacts(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestMungingService_Run(t *testing.T) {
	repo := &recordingRepository{}
	reviewer := &stubReviewer{}
	svc := newTestService(&sliceSource{docs: serviceCorpus}, repo, reviewer, ServiceOptions{Strategy: StrategyBestFirst})

	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 3, report.Documents)
	assert.Equal(t, 3, report.Emails)
	assert.Equal(t, 3, report.GenuineEmails)
	require.Len(t, report.Flagged, 2)
	assert.Equal(t, "002", report.Flagged[0].ID)
	assert.Equal(t, "003", report.Flagged[1].ID)
	assert.Equal(t, 9, report.Contacts)

	require.Len(t, report.Suggestions, 1)
	assert.Equal(t, "002", report.Suggestions[0].DocumentID)
	assert.Equal(t, 1, reviewer.calls)

	require.NotEmpty(t, repo.saved)
	assert.Equal(t, report.RunID, repo.saved[0].RunID)
	assert.Zero(t, repo.saved[0].Pass)
	assert.Len(t, report.Profiles, len(repo.saved[len(repo.saved)-1].Profiles))
}

func TestMungingService_RunEmptyCorpus(t *testing.T) {
	svc := newTestService(&sliceSource{}, &recordingRepository{}, nil, ServiceOptions{})

	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestMungingService_RunSnapshotFailure(t *testing.T) {
	boom := errors.New("disk full")
	svc := newTestService(&sliceSource{docs: serviceCorpus}, &recordingRepository{err: boom}, nil, ServiceOptions{})

	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestMungingService_ReviewerFailureIsNotFatal(t *testing.T) {
	reviewer := &stubReviewer{err: errors.New("throttled")}
	svc := newTestService(&sliceSource{docs: serviceCorpus}, nil, reviewer, ServiceOptions{})

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Suggestions)
	assert.Equal(t, 1, reviewer.calls)
}

func TestMungingService_Resume(t *testing.T) {
	repo := &recordingRepository{}
	svc := newTestService(&sliceSource{docs: serviceCorpus}, repo, nil, ServiceOptions{Strategy: StrategyUnionFind})

	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	resumed, err := svc.Resume(context.Background(), report.RunID)
	require.NoError(t, err)
	assert.True(t, resumed.Resumed)
	assert.Zero(t, resumed.Merges)
	assert.Equal(t, report.Profiles, resumed.Profiles)

	_, err = svc.Resume(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	_, err = newTestService(&sliceSource{}, nil, nil, ServiceOptions{}).Resume(context.Background(), report.RunID)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestMungingService_Review(t *testing.T) {
	svc := newTestService(&sliceSource{}, nil, nil, ServiceOptions{})

	_, err := svc.Review(context.Background(), newTestIdentityParser().Parse("a@x.com; b@y.com"))
	assert.ErrorIs(t, err, ErrNoReviewer)
}
