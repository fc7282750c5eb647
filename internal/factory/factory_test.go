package factory

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/mikey/email-munger/internal/adapters/notify"
	"github.com/mikey/email-munger/internal/adapters/openai"
	"github.com/mikey/email-munger/internal/adapters/snapshot"
	"github.com/mikey/email-munger/internal/adapters/source"
	"github.com/mikey/email-munger/internal/config"
	"github.com/mikey/email-munger/internal/core"
	"github.com/mikey/email-munger/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConfig(values map[string]any) *config.Config {
	cfg := config.NewFromViper(config.NewEmptyViper())
	for k, v := range values {
		cfg.Set(k, v)
	}
	return cfg
}

func TestMungeFactory(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		f := NewMungeFactory(newTestConfig(nil), zap.NewNop())

		settings, err := f.CreateSettings()
		require.NoError(t, err)
		assert.Equal(t, core.DefaultSettings(), settings)

		opts, err := f.CreateServiceOptions()
		require.NoError(t, err)
		assert.Equal(t, core.ServiceOptions{Strategy: core.StrategyBestFirst, MaxReviews: 50}, opts)
	})

	t.Run("union find", func(t *testing.T) {
		f := NewMungeFactory(newTestConfig(map[string]any{
			"cluster.strategy":       "union_find",
			"cluster.snapshot_every": 2,
		}), zap.NewNop())

		opts, err := f.CreateServiceOptions()
		require.NoError(t, err)
		assert.Equal(t, core.StrategyUnionFind, opts.Strategy)
		assert.Equal(t, 2, opts.SnapshotEvery)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := NewMungeFactory(newTestConfig(map[string]any{"munge.merge_cutoff": 101}), zap.NewNop()).CreateSettings()
		assert.Error(t, err)

		_, err = NewMungeFactory(newTestConfig(map[string]any{"munge.max_contact_length": 0}), zap.NewNop()).CreateSettings()
		assert.Error(t, err)

		_, err = NewMungeFactory(newTestConfig(map[string]any{"cluster.strategy": "greedy"}), zap.NewNop()).CreateServiceOptions()
		assert.Error(t, err)
	})
}

func TestSourceFactory(t *testing.T) {
	ctx := context.Background()

	src, err := NewSourceFactory(newTestConfig(map[string]any{"corpus.locations": []string{t.TempDir()}}), zap.NewNop()).CreateDocumentSource(ctx)
	require.NoError(t, err)
	assert.IsType(t, &source.LocalSource{}, src)

	src, err = NewSourceFactory(newTestConfig(map[string]any{
		"corpus.type":      "s3",
		"corpus.locations": []string{"dumps/batch-1"},
	}), zap.NewNop()).CreateDocumentSource(ctx)
	require.NoError(t, err)
	assert.IsType(t, &source.S3Source{}, src)

	_, err = NewSourceFactory(newTestConfig(map[string]any{"corpus.type": "ftp"}), zap.NewNop()).CreateDocumentSource(ctx)
	assert.Error(t, err)
}

func TestSnapshotFactory(t *testing.T) {
	repo, err := NewSnapshotFactory(newTestConfig(nil), zap.NewNop()).CreateSnapshotRepository()
	require.NoError(t, err)
	assert.IsType(t, &snapshot.MemoryRepository{}, repo)
	require.NoError(t, repo.Close())

	path := filepath.Join(t.TempDir(), "nested", "snapshots.db")
	repo, err = NewSnapshotFactory(newTestConfig(map[string]any{
		"snapshot.type":        "sqlite",
		"snapshot.sqlite_path": path,
	}), zap.NewNop()).CreateSnapshotRepository()
	require.NoError(t, err)
	assert.IsType(t, &snapshot.SQLiteRepository{}, repo)
	require.NoError(t, repo.Close())
	assert.FileExists(t, path)

	_, err = NewSnapshotFactory(newTestConfig(map[string]any{"snapshot.type": "redis"}), zap.NewNop()).CreateSnapshotRepository()
	assert.Error(t, err)
}

func TestReviewerFactory(t *testing.T) {
	ctx := context.Background()
	tp := utils.NewTextProcessor(zap.NewNop())

	t.Run("disabled", func(t *testing.T) {
		reviewer, err := NewReviewerFactory(newTestConfig(nil), zap.NewNop(), tp).CreateContactReviewer(ctx)
		require.NoError(t, err)
		assert.Nil(t, reviewer)
	})

	t.Run("openai", func(t *testing.T) {
		reviewer, err := NewReviewerFactory(newTestConfig(map[string]any{
			"review.enabled":  true,
			"review.provider": "openai",
			"openai.api_key":  "test-key",
		}), zap.NewNop(), tp).CreateContactReviewer(ctx)
		require.NoError(t, err)
		assert.IsType(t, &openai.Reviewer{}, reviewer)
	})

	t.Run("missing api keys", func(t *testing.T) {
		for _, provider := range []string{"openai", "gemini"} {
			_, err := NewReviewerFactory(newTestConfig(map[string]any{
				"review.enabled":  true,
				"review.provider": provider,
			}), zap.NewNop(), tp).CreateContactReviewer(ctx)
			assert.Error(t, err, provider)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewReviewerFactory(newTestConfig(map[string]any{
			"review.enabled":  true,
			"review.provider": "oracle",
		}), zap.NewNop(), tp).CreateContactReviewer(ctx)
		assert.Error(t, err)
	})
}

func TestReportFactory(t *testing.T) {
	var out bytes.Buffer

	sender, err := NewReportFactory(newTestConfig(nil), zap.NewNop(), &out).CreateReportSender()
	require.NoError(t, err)
	assert.IsType(t, &notify.ConsoleSender{}, sender)

	sender, err = NewReportFactory(newTestConfig(map[string]any{
		"report.type": "smtp",
		"smtp.to":     []string{"triage@example.com"},
	}), zap.NewNop(), &out).CreateReportSender()
	require.NoError(t, err)
	assert.IsType(t, &notify.SMTPSender{}, sender)

	_, err = NewReportFactory(newTestConfig(map[string]any{"report.type": "smtp"}), zap.NewNop(), &out).CreateReportSender()
	assert.Error(t, err)

	_, err = NewReportFactory(newTestConfig(map[string]any{"report.type": "pager"}), zap.NewNop(), &out).CreateReportSender()
	assert.Error(t, err)
}
