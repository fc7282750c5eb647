package factory

import (
	"context"
	"errors"

	"github.com/mikey/email-munger/internal/adapters/gemini"
	"github.com/mikey/email-munger/internal/core"
	"go.uber.org/zap"
)

func (f *ReviewerFactory) createGeminiReviewer(ctx context.Context) (core.ContactReviewer, error) {
	geminiCfg := f.cfg.GetGemini()
	if geminiCfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	reviewer, err := gemini.NewReviewer(
		ctx,
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		geminiCfg.TopP,
		geminiCfg.MaxBodySize,
		f.logger,
		f.textProcessor,
	)
	if err != nil {
		return nil, err
	}

	f.logger.Info("Using Gemini contact reviewer", zap.String("model", geminiCfg.ModelName))
	return reviewer, nil
}
