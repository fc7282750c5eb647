package gemini

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{
				genai.Text(`{"name": "Doe, Jane",`),
				genai.Blob{MIMEType: "image/png"},
				genai.Text(` "address": ""}`),
			}},
		}},
	}

	text, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"name": "Doe, Jane", "address": ""}`, text)
}

func TestResponseTextEmpty(t *testing.T) {
	tests := []*genai.GenerateContentResponse{
		nil,
		{},
		{Candidates: []*genai.Candidate{{}}},
		{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Blob{}}}}}},
	}

	for _, resp := range tests {
		_, err := responseText(resp)
		assert.Error(t, err)
	}
}
