package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when model output holds no JSON object.
var ErrNoJSON = errors.New("no JSON object in response")

// DecodeJSONObject unmarshals text into v. Models often wrap the object in
// prose or code fences, so on failure the outermost {...} span is tried.
func DecodeJSONObject(text string, v any) error {
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return ErrNoJSON
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return fmt.Errorf("failed to parse model response as JSON: %w", err)
	}
	return nil
}
