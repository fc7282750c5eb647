package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/mikey/email-munger/internal/adapters/review"
	"github.com/mikey/email-munger/internal/core"
	"github.com/mikey/email-munger/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Reviewer is an implementation of core.ContactReviewer using OpenAI
type Reviewer struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewClient creates an OpenAI API client. An empty baseURL uses the public API.
func NewClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// NewReviewer creates a new OpenAI reviewer
func NewReviewer(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Reviewer {
	return &Reviewer{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// ReviewContact asks the model to repair a mangled contact
func (r *Reviewer) ReviewContact(ctx context.Context, contact *core.Contact) (*core.ContactSuggestion, error) {
	req := openai.ChatCompletionRequest{
		Model: r.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: review.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: review.Prompt(r.textProcessor, contact, r.maxBodySize),
			},
		},
		MaxTokens:   r.maxTokens,
		Temperature: r.temperature,
		TopP:        r.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := r.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("empty response from OpenAI")
	}

	text := resp.Choices[0].Message.Content
	suggestion, err := review.Suggestion(text, contact, r.modelName)
	if err != nil {
		r.logger.Debug("Unparseable model response",
			zap.String("model", r.modelName),
			zap.String("completion_id", resp.ID),
			zap.String("response", text))
		return nil, err
	}
	return suggestion, nil
}
