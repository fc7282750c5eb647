package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mikey/email-munger/internal/config"
	"github.com/mikey/email-munger/internal/core"
	"github.com/mikey/email-munger/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testThread = `From: Smith, John Q <jsmith@example.com>
Sent: Monday, March 2, 2015 9:14 AM
To: Doe, Jane <jane.doe@example.com>
Subject: Budget
Please see the attached budget.
`

func writeCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001.txt"), []byte(testThread), 0o600))
	return dir
}

func TestBuildContainer(t *testing.T) {
	corpusDir := writeCorpus(t)
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
corpus:
  locations:
    - `+corpusDir+`
cluster:
  strategy: union_find
logging:
  level: error
`), 0o600))

	container, err := BuildContainer(configFile)
	require.NoError(t, err)

	err = container.Invoke(func(
		service *core.MungingService,
		options core.ServiceOptions,
		reviewer core.ContactReviewer,
		sender ports.ReportSender,
		exporter ports.Exporter,
	) {
		assert.Equal(t, core.StrategyUnionFind, options.Strategy)
		assert.Nil(t, reviewer)
		assert.NotNil(t, sender)
		assert.NotNil(t, exporter)

		report, err := service.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, report.Documents)
		assert.Equal(t, 1, report.GenuineEmails)
		assert.Len(t, report.Profiles, 2)
	})
	require.NoError(t, err)
}

func TestBuildContainer_InvalidConfig(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("cluster:\n  strategy: greedy\n"), 0o600))

	container, err := BuildContainer(configFile)
	require.NoError(t, err)

	err = container.Invoke(func(*core.MungingService) {})
	assert.Error(t, err)
}

func TestBuildCLIContainer_AppliesFlags(t *testing.T) {
	corpusDir := writeCorpus(t)
	flags := &CLIFlags{
		ConfigFile: filepath.Join(t.TempDir(), "empty.yaml"),
		Locations:  []string{corpusDir},
		FileType:   ".txt",
		NoThreads:  true,
		Strategy:   "union_find",
		ExportDir:  t.TempDir(),
	}
	require.NoError(t, os.WriteFile(flags.ConfigFile, []byte("logging:\n  level: error\n"), 0o600))

	container, err := BuildCLIContainer(flags)
	require.NoError(t, err)

	err = container.Invoke(func(cfg *config.Config, corpus *core.Corpus) {
		assert.Equal(t, []string{corpusDir}, cfg.GetCorpus().Locations)
		assert.False(t, cfg.GetMunge().UseThreads)
		assert.Equal(t, "union_find", cfg.GetCluster().Strategy)
		assert.Equal(t, flags.ExportDir, cfg.GetExport().Dir)
		assert.Equal(t, "memory", cfg.GetSnapshot().Type)

		contacts, err := corpus.PullContacts(context.Background())
		require.NoError(t, err)
		// From, To and the empty CC
		assert.Len(t, contacts, 3)
	})
	require.NoError(t, err)
}
