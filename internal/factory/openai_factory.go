package factory

import (
	"errors"

	"github.com/mikey/email-munger/internal/adapters/openai"
	"github.com/mikey/email-munger/internal/core"
	"go.uber.org/zap"
)

func (f *ReviewerFactory) createOpenAIReviewer() (core.ContactReviewer, error) {
	openaiCfg := f.cfg.GetOpenAI()
	if openaiCfg.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}

	f.logger.Info("Using OpenAI contact reviewer", zap.String("model", openaiCfg.ModelName))
	return openai.NewReviewer(
		openai.NewClient(openaiCfg.APIKey, openaiCfg.BaseURL),
		openaiCfg.ModelName,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		openaiCfg.TopP,
		openaiCfg.MaxBodySize,
		f.logger,
		f.textProcessor,
	), nil
}
