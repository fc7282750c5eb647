// Package review holds the prompt and response handling shared by the
// model-backed contact reviewers.
package review

import (
	"fmt"
	"strings"

	"github.com/mikey/email-munger/internal/core"
	"github.com/mikey/email-munger/internal/utils"
)

// SystemPrompt is sent as the system message where the provider supports one.
const SystemPrompt = "You repair contact fields recovered from scanned email printouts. Respond only with JSON."

const promptFormat = `The following From/To/CC field was recovered by OCR from a printed email and could not be split cleanly into one person's name and email address.
Respond with a JSON object containing:
- name: string (the person's name as "Last, First M", or "" if there is none)
- address: string (the single most likely email address, or "" if there is none)
- confidence: number between 0 and 1 (how confident you are in the repair)
- explanation: string (brief explanation of what was wrong with the field)

Field:
%s

Current reading:
Name: %s
Address: %s

Respond only with the JSON object and nothing else.`

// Response is the JSON object the model is asked to return
type Response struct {
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// Prompt builds the user prompt for c. The raw field is cleaned and cut to
// maxSize bytes.
func Prompt(tp *utils.TextProcessor, c *core.Contact, maxSize int) string {
	return fmt.Sprintf(promptFormat,
		tp.Prepare(c.Raw(), maxSize),
		c.Name().FullName(core.LastFirstMiddle),
		c.EmailAddress().Whole())
}

// Suggestion decodes model output into a suggestion for c.
func Suggestion(text string, c *core.Contact, model string) (*core.ContactSuggestion, error) {
	var resp Response
	if err := utils.DecodeJSONObject(text, &resp); err != nil {
		return nil, err
	}
	return &core.ContactSuggestion{
		Raw:         c.Raw(),
		Name:        strings.TrimSpace(resp.Name),
		Address:     strings.TrimSpace(resp.Address),
		Confidence:  min(max(resp.Confidence, 0), 1),
		Explanation: resp.Explanation,
		ModelUsed:   model,
	}, nil
}
