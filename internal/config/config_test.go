package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	munge := cfg.GetMunge()
	assert.Equal(t, "(This info has been redacted)", munge.RedactionSentinel)
	assert.Equal(t, 50, munge.HeaderMatchCutoff)
	assert.Equal(t, 90, munge.MergeCutoff)
	assert.Equal(t, 90, munge.RedactionCutoff)
	assert.Equal(t, 60, munge.MaxContactLength)
	assert.True(t, munge.UseThreads)

	assert.Equal(t, "local", cfg.GetCorpus().Type)
	assert.Equal(t, ".txt", cfg.GetCorpus().FileType)
	assert.Equal(t, "best_first", cfg.GetCluster().Strategy)
	assert.Equal(t, "memory", cfg.GetSnapshot().Type)
	assert.False(t, cfg.GetReview().Enabled)
	assert.Equal(t, 50, cfg.GetReview().MaxContacts)
	assert.Equal(t, "console", cfg.GetString("report.type"))
	assert.Equal(t, "./export", cfg.GetExport().Dir)
	assert.InDelta(t, 0.1, cfg.GetBedrock().Temperature, 0.0001)
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "munger.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
munge:
  merge_cutoff: 85
  use_threads: false
corpus:
  type: s3
  locations:
    - dumps/2015
    - dumps/2016
cluster:
  strategy: union_find
smtp:
  to:
    - triage@example.com
`), 0o600))

	cfg, err := NewFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 85, cfg.GetMunge().MergeCutoff)
	assert.False(t, cfg.GetMunge().UseThreads)
	assert.Equal(t, 50, cfg.GetMunge().HeaderMatchCutoff)
	assert.Equal(t, "s3", cfg.GetCorpus().Type)
	assert.Equal(t, []string{"dumps/2015", "dumps/2016"}, cfg.GetCorpus().Locations)
	assert.Equal(t, "union_find", cfg.GetCluster().Strategy)
	assert.Equal(t, []string{"triage@example.com"}, cfg.GetSMTP().To)
}

func TestNewFromFileMissing(t *testing.T) {
	_, err := NewFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("MUNGER_SNAPSHOT_TYPE", "sqlite")
	t.Setenv("MUNGER_MUNGE_MAX_CONTACT_LENGTH", "80")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o600))

	cfg, err := NewFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.GetSnapshot().Type)
	assert.Equal(t, 80, cfg.GetMunge().MaxContactLength)
	assert.Equal(t, "debug", cfg.GetString("logging.level"))
}

func TestSet(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())
	cfg.Set("cluster.strategy", "union_find")

	assert.Equal(t, "union_find", cfg.GetCluster().Strategy)
}
