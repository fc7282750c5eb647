package factory

import (
	"fmt"

	"github.com/mikey/email-munger/internal/config"
	"github.com/mikey/email-munger/internal/core"
	"go.uber.org/zap"
)

// MungeFactory turns configuration into core settings and service options
type MungeFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewMungeFactory creates a new munge factory
func NewMungeFactory(cfg *config.Config, logger *zap.Logger) *MungeFactory {
	return &MungeFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateSettings returns the heuristics settings, rejecting cutoffs outside 0..100
func (f *MungeFactory) CreateSettings() (core.Settings, error) {
	mungeCfg := f.cfg.GetMunge()

	for name, cutoff := range map[string]int{
		"munge.header_match_cutoff": mungeCfg.HeaderMatchCutoff,
		"munge.merge_cutoff":        mungeCfg.MergeCutoff,
		"munge.redaction_cutoff":    mungeCfg.RedactionCutoff,
	} {
		if cutoff < 0 || cutoff > 100 {
			return core.Settings{}, fmt.Errorf("invalid %s: %d is outside 0..100", name, cutoff)
		}
	}
	if mungeCfg.MaxContactLength <= 0 {
		return core.Settings{}, fmt.Errorf("invalid munge.max_contact_length: %d", mungeCfg.MaxContactLength)
	}

	return core.Settings{
		Sentinel:          mungeCfg.RedactionSentinel,
		HeaderMatchCutoff: mungeCfg.HeaderMatchCutoff,
		MergeCutoff:       mungeCfg.MergeCutoff,
		RedactionCutoff:   mungeCfg.RedactionCutoff,
		MaxContactLength:  mungeCfg.MaxContactLength,
		UseThreads:        mungeCfg.UseThreads,
	}, nil
}

// CreateServiceOptions returns the clustering and review options of a run
func (f *MungeFactory) CreateServiceOptions() (core.ServiceOptions, error) {
	clusterCfg := f.cfg.GetCluster()

	strategy, err := core.ParseMergeStrategy(clusterCfg.Strategy)
	if err != nil {
		return core.ServiceOptions{}, err
	}
	if clusterCfg.SnapshotEvery < 0 {
		return core.ServiceOptions{}, fmt.Errorf("invalid cluster.snapshot_every: %d", clusterCfg.SnapshotEvery)
	}

	f.logger.Debug("Using merge strategy", zap.String("strategy", string(strategy)))

	return core.ServiceOptions{
		Strategy:      strategy,
		SnapshotEvery: clusterCfg.SnapshotEvery,
		MaxReviews:    f.cfg.GetReview().MaxContacts,
	}, nil
}
