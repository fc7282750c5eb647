package factory

import (
	"context"
	"fmt"

	"github.com/mikey/email-munger/internal/config"
	"github.com/mikey/email-munger/internal/core"
	"github.com/mikey/email-munger/internal/utils"
	"go.uber.org/zap"
)

// ReviewerFactory creates contact reviewers
type ReviewerFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewReviewerFactory creates a new reviewer factory
func NewReviewerFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *ReviewerFactory {
	return &ReviewerFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateContactReviewer creates a reviewer for the configured provider. It
// returns nil without error when review is disabled.
func (f *ReviewerFactory) CreateContactReviewer(ctx context.Context) (core.ContactReviewer, error) {
	reviewCfg := f.cfg.GetReview()
	if !reviewCfg.Enabled {
		f.logger.Debug("Contact review disabled")
		return nil, nil
	}

	switch reviewCfg.Provider {
	case "bedrock":
		return f.createBedrockReviewer(ctx)
	case "gemini":
		return f.createGeminiReviewer(ctx)
	case "openai":
		return f.createOpenAIReviewer()
	default:
		return nil, fmt.Errorf("unsupported review provider: %s", reviewCfg.Provider)
	}
}
