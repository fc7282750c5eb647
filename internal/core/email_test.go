package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldExtractor_Extract(t *testing.T) {
	x := NewFieldExtractor(DefaultSettings().HeaderMatchCutoff)

	e := x.Extract([]string{
		"From: Roe, Rick",
		"Date: 3/2/2015",
		"To:",
		"To: Jane Doe",
		"Subject: Hello",
		"Attachments: budget.xlsx",
		"CC: Bob Stone",
		"Body line one",
		"",
	})

	assert.Equal(t, "Roe, Rick", e.From())
	assert.Equal(t, "3/2/2015", e.Sent())
	assert.Equal(t, "Jane Doe", e.To(), "an empty header line should not block a later value")
	assert.Equal(t, "Hello", e.Subject())
	assert.Equal(t, "budget.xlsx", e.Attachments())
	assert.Equal(t, "Bob Stone", e.CC())
	assert.Equal(t, "Body line one\n\n", e.Body())
	assert.True(t, e.HasBody())
	assert.True(t, e.IsEmail())
	assert.Len(t, e.Raw(), 9)
}

func TestFieldExtractor_FirstValueWins(t *testing.T) {
	x := NewFieldExtractor(50)

	e := x.Extract([]string{
		"Subject: first",
		"Subject: second",
	})

	assert.Equal(t, "first", e.Subject())
	assert.Equal(t, "Subject: second\n", e.Body())
}

func TestFieldExtractor_OCRLabels(t *testing.T) {
	x := NewFieldExtractor(50)

	e := x.Extract([]string{"Prom: Smith, John", "Sent: today"})

	assert.Equal(t, "Smith, John", e.From())
	assert.Equal(t, "today", e.Sent())
	assert.Empty(t, e.Body())
	assert.False(t, e.HasBody())
}

func TestEmail_HasAndHeader(t *testing.T) {
	x := NewFieldExtractor(50)

	e := x.Extract([]string{"From: a@example.com", "To:", "hello"})

	assert.True(t, e.Has(FieldTo))
	assert.Empty(t, e.Header(FieldTo))
	assert.False(t, e.Has(FieldCC))
	assert.Equal(t, "a@example.com", e.Header(FieldFrom))
	assert.Empty(t, e.Header(Field(42)))
	assert.False(t, e.Has(Field(-1)))
}

func TestEmail_IsEmail(t *testing.T) {
	x := NewFieldExtractor(50)

	tests := []struct {
		name  string
		block []string
		want  bool
	}{
		{"subject only", []string{"Subject: only"}, false},
		{"subject and blank body", []string{"Subject: only", "   "}, true},
		{"from and blank line", []string{"From: Jane Doe", ""}, true},
		{"attachments only", []string{"Attachments: a.pdf"}, false},
		{"subject and body", []string{"Subject: only", "some words"}, true},
		{"from and sent", []string{"From: a", "Sent: b"}, true},
		{"body only", []string{"nothing here"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, x.Extract(tt.block).IsEmail())
		})
	}
}

func TestField_String(t *testing.T) {
	assert.Equal(t, "From", FieldFrom.String())
	assert.Equal(t, "Attachments", FieldAttachments.String())
	assert.Equal(t, "Unknown", Field(99).String())
}
