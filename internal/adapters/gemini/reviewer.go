package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/email-munger/internal/adapters/review"
	"github.com/mikey/email-munger/internal/core"
	"github.com/mikey/email-munger/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Reviewer is an implementation of core.ContactReviewer using Google Gemini
type Reviewer struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewReviewer creates a new Gemini reviewer
func NewReviewer(
	ctx context.Context,
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*Reviewer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(review.SystemPrompt)}}

	return &Reviewer{
		client:        client,
		model:         model,
		modelName:     modelName,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
	}, nil
}

// ReviewContact asks the model to repair a mangled contact
func (r *Reviewer) ReviewContact(ctx context.Context, contact *core.Contact) (*core.ContactSuggestion, error) {
	prompt := review.Prompt(r.textProcessor, contact, r.maxBodySize)

	resp, err := r.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	suggestion, err := review.Suggestion(text, contact, r.modelName)
	if err != nil {
		r.logger.Debug("Unparseable model response", zap.String("model", r.modelName), zap.String("response", text))
		return nil, err
	}
	return suggestion, nil
}

// Close releases the underlying client
func (r *Reviewer) Close() error {
	return r.client.Close()
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("empty response from Gemini")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", errors.New("no text in Gemini response")
	}
	return b.String(), nil
}
