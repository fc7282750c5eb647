package factory

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mikey/email-munger/internal/adapters/source"
	"github.com/mikey/email-munger/internal/config"
	"github.com/mikey/email-munger/internal/core"
	"go.uber.org/zap"
)

// SourceFactory creates document sources based on configuration
type SourceFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSourceFactory creates a new source factory
func NewSourceFactory(cfg *config.Config, logger *zap.Logger) *SourceFactory {
	return &SourceFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateDocumentSource creates a document source based on the configuration
func (f *SourceFactory) CreateDocumentSource(ctx context.Context) (core.DocumentSource, error) {
	corpusCfg := f.cfg.GetCorpus()
	if len(corpusCfg.Locations) == 0 {
		f.logger.Warn("No corpus locations configured")
	}

	switch corpusCfg.Type {
	case "local":
		return source.NewLocalSource(corpusCfg.Locations, corpusCfg.FileType, f.logger), nil
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(corpusCfg.Region),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		return source.NewS3Source(s3.NewFromConfig(awsCfg), corpusCfg.Locations, corpusCfg.FileType, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported corpus type: %s", corpusCfg.Type)
	}
}
