package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/email-munger/internal/adapters/review"
	"github.com/mikey/email-munger/internal/core"
	"github.com/mikey/email-munger/internal/utils"
	"go.uber.org/zap"
)

// InvokeModelAPI is the part of the Bedrock runtime client the reviewer uses
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Reviewer is an implementation of core.ContactReviewer using Amazon Bedrock
type Reviewer struct {
	client        InvokeModelAPI
	modelID       string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewReviewer creates a new Bedrock reviewer
func NewReviewer(
	client InvokeModelAPI,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Reviewer {
	return &Reviewer{
		client:        client,
		modelID:       modelID,
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
	prompt := review.Prompt(r.textProcessor, contact, r.maxBodySize)

	payload, err := r.requestBody(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := r.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(r.modelID),
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	text, err := r.responseText(resp.Body)
	if err != nil {
		return nil, err
	}

	suggestion, err := review.Suggestion(text, contact, r.modelID)
	if err != nil {
		r.logger.Debug("Unparseable model response", zap.String("model", r.modelID), zap.String("response", text))
		return nil, err
	}
	return suggestion, nil
}

// requestBody builds the model family's native request
func (r *Reviewer) requestBody(prompt string) ([]byte, error) {
	switch {
	case r.isAnthropicModel():
		return json.Marshal(map[string]any{
			"prompt":               "\n\nHuman: " + review.SystemPrompt + "\n\n" + prompt + "\n\nAssistant:",
			"max_tokens_to_sample": r.maxTokens,
			"temperature":          r.temperature,
			"top_p":                r.topP,
		})
	case r.isAmazonTitanModel():
		return json.Marshal(map[string]any{
			"inputText": prompt,
			"textGenerationConfig": map[string]any{
				"maxTokenCount": r.maxTokens,
				"temperature":   r.temperature,
				"topP":          r.topP,
			},
		})
	default:
		return json.Marshal(map[string]any{
			"prompt":      prompt,
			"max_tokens":  r.maxTokens,
			"temperature": r.temperature,
			"top_p":       r.topP,
		})
	}
}

// responseText extracts the generated text from the model family's native response
func (r *Reviewer) responseText(body []byte) (string, error) {
	switch {
	case r.isAnthropicModel():
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil
	case r.isAmazonTitanModel():
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", errors.New("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	default:
		var genericResp struct {
			Output   string `json:"output"`
			Text     string `json:"text"`
			Response string `json:"response"`
		}
		if err := json.Unmarshal(body, &genericResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
		}
		for _, text := range []string{genericResp.Output, genericResp.Text, genericResp.Response} {
			if text != "" {
				return text, nil
			}
		}
		return string(body), nil
	}
}

func (r *Reviewer) isAnthropicModel() bool {
	return strings.HasPrefix(r.modelID, "anthropic.claude")
}

func (r *Reviewer) isAmazonTitanModel() bool {
	return strings.HasPrefix(r.modelID, "amazon.titan")
}
