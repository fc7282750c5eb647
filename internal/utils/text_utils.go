package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ASCII folds s to ASCII: accents are stripped from their base letters and any
// rune that still falls outside ASCII is dropped.
func ASCII(s string) string {
	if isASCII(s) {
		return s
	}
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
		norm.NFC,
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.Map(func(r rune) rune {
			if r > unicode.MaxASCII {
				return -1
			}
			return r
		}, s)
	}
	return out
}

// CollapseSpaces trims s and reduces every whitespace run to a single space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// TextProcessor prepares document text for model prompts
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// Truncate cuts text to at most maxSize bytes without splitting a UTF-8 sequence.
// A non-positive maxSize disables truncation.
func (tp *TextProcessor) Truncate(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	cut := text[:maxSize]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}

	tp.logger.Debug("Prompt text truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", len(cut)))

	return cut + "\n[... truncated ...]"
}

// Clean drops invalid UTF-8 bytes and collapses whitespace.
func (tp *TextProcessor) Clean(text string) string {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}
	return CollapseSpaces(text)
}

// Prepare cleans text and then truncates it to maxSize bytes.
func (tp *TextProcessor) Prepare(text string, maxSize int) string {
	return tp.Truncate(tp.Clean(text), maxSize)
}
