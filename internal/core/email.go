package core

import (
	"strings"

	"github.com/mikey/email-munger/internal/fuzzy"
)

// Field identifies one of the recognised header labels
type Field int

const (
	FieldFrom Field = iota
	FieldTo
	FieldSent
	FieldSubject
	FieldCC
	FieldAttachments

	fieldCount
)

// HeaderFields lists the header labels in matching order.
var HeaderFields = []Field{FieldFrom, FieldTo, FieldSent, FieldSubject, FieldCC, FieldAttachments}

var fieldNames = [fieldCount]string{"From", "To", "Sent", "Subject", "CC", "Attachments"}

// fieldLabels holds the spellings tried against a line's first token.
// Scanned exports use Date where Outlook prints Sent.
var fieldLabels = [fieldCount][]string{
	FieldFrom:        {"from"},
	FieldTo:          {"to"},
	FieldSent:        {"sent", "date"},
	FieldSubject:     {"subject"},
	FieldCC:          {"cc"},
	FieldAttachments: {"attachments"},
}

func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return "Unknown"
	}
	return fieldNames[f]
}

// Email is one message recovered from a document block. It is immutable
// once returned by the FieldExtractor.
type Email struct {
	fields  [fieldCount]string
	present [fieldCount]bool
	body    string
	raw     []string
}

// Header returns the value captured for f, or "" when absent.
func (e *Email) Header(f Field) string {
	if f < 0 || f >= fieldCount {
		return ""
	}
	return e.fields[f]
}

// Has reports whether a header line for f was found, even if its value was empty.
func (e *Email) Has(f Field) bool {
	if f < 0 || f >= fieldCount {
		return false
	}
	return e.present[f]
}

func (e *Email) From() string { return e.fields[FieldFrom] }
func (e *Email) To() string { return e.fields[FieldTo] }
func (e *Email) Sent() string { return e.fields[FieldSent] }
func (e *Email) Subject() string { return e.fields[FieldSubject] }
func (e *Email) CC() string { return e.fields[FieldCC] }
func (e *Email) Attachments() string { return e.fields[FieldAttachments] }

// Body returns the lines not consumed by a header, each ending in a newline.
func (e *Email) Body() string { return e.body }

// HasBody reports whether any line was left over for the body. A blank
// leftover line counts.
func (e *Email) HasBody() bool { return e.body != "" }

// Raw returns a copy of the block the email was built from.
func (e *Email) Raw() []string {
	out := make([]string, len(e.raw))
	copy(out, e.raw)
	return out
}

// IsEmail reports whether at least two of body, From, To, Sent and Subject
// are populated. Pure noise blocks rarely reach two.
func (e *Email) IsEmail() bool {
	n := 0
	for _, ok := range []bool{
		e.HasBody(),
		e.fields[FieldFrom] != "",
		e.fields[FieldTo] != "",
		e.fields[FieldSent] != "",
		e.fields[FieldSubject] != "",
	} {
		if ok {
			n++
		}
	}
	return n >= 2
}

// FieldExtractor turns a raw line block into an Email
type FieldExtractor struct {
	cutoff int
}

// NewFieldExtractor creates a new FieldExtractor. A header label matches a
// line when its similarity to the line's first token exceeds cutoff.
func NewFieldExtractor(cutoff int) *FieldExtractor {
	return &FieldExtractor{cutoff: cutoff}
}

// Extract builds an Email from block. A field is filled by the first
// matching line that carries a value; later matches cannot overwrite it.
func (x *FieldExtractor) Extract(block []string) *Email {
	e := &Email{raw: make([]string, len(block))}
	copy(e.raw, block)

	var body strings.Builder
	for _, line := range block {
		tokens := strings.Fields(line)
		consumed := false

		if len(tokens) > 0 {
			first := strings.ToLower(tokens[0])
			for _, f := range HeaderFields {
				if e.fields[f] != "" || !x.labelMatches(f, first) {
					continue
				}
				e.present[f] = true
				e.fields[f] = strings.Join(tokens[1:], " ")
				consumed = true
			}
		}

		if !consumed {
			body.WriteString(line)
			body.WriteByte('\n')
		}
	}
	e.body = body.String()

	return e
}

func (x *FieldExtractor) labelMatches(f Field, token string) bool {
	for _, label := range fieldLabels[f] {
		if fuzzy.Ratio(label, token) > x.cutoff {
			return true
		}
	}
	return false
}
