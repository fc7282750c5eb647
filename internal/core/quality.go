package core

import (
	"fmt"
	"strings"
)

// ReasonCode classifies why a document was flagged.
type ReasonCode string

const (
	ReasonStructure ReasonCode = "structure"
	ReasonMangled   ReasonCode = "mangled_contact"
	ReasonEmpty     ReasonCode = "empty_contact"
	ReasonOversized ReasonCode = "oversized_contact"
)

// ReviewReason is one finding of the QualityFilter. Email is the index of
// the email it concerns, or -1 for document-level findings.
type ReviewReason struct {
	Code    ReasonCode
	Email   int
	Field   Field
	Detail  string
	Contact *Contact
}

func (r ReviewReason) String() string {
	if r.Email < 0 {
		return fmt.Sprintf("%s: %s", r.Code, r.Detail)
	}
	return fmt.Sprintf("%s: email %d %s: %s", r.Code, r.Email, r.Field, r.Detail)
}

// Review is the QualityFilter verdict for one document.
type Review struct {
	Reasons []ReviewReason
}

// Flagged reports whether any reason was found.
func (r *Review) Flagged() bool {
	return len(r.Reasons) > 0
}

// Mangled returns the contacts judged mangled, in document order.
func (r *Review) Mangled() []*Contact {
	var out []*Contact
	for _, reason := range r.Reasons {
		if reason.Code == ReasonMangled && reason.Contact != nil {
			out = append(out, reason.Contact)
		}
	}
	return out
}

// QualityFilter decides whether a document's extraction probably failed
type QualityFilter struct {
	identity  *IdentityParser
	maxLength int
}

// NewQualityFilter creates a new QualityFilter. Contacts whose text, minus
// the sentinel, runs past maxLength runes are treated as captured sentences.
func NewQualityFilter(identity *IdentityParser, maxLength int) *QualityFilter {
	return &QualityFilter{
		identity:  identity,
		maxLength: maxLength,
	}
}

// Check inspects the segmentation issues and the From, first To and first
// CC contact of every email in d.
func (q *QualityFilter) Check(d *Document) *Review {
	review := &Review{}

	for _, issue := range d.issues {
		review.Reasons = append(review.Reasons, ReviewReason{
			Code:   ReasonStructure,
			Email:  -1,
			Detail: fmt.Sprintf("%s (line %d)", issue.Kind, issue.Line),
		})
	}

	for i, email := range d.emails {
		for _, fc := range headerContacts(email, q.identity) {
			c := fc.contact
			switch {
			case c.IsMangled():
				review.Reasons = append(review.Reasons, ReviewReason{
					Code: ReasonMangled, Email: i, Field: fc.field, Detail: c.Raw(), Contact: c,
				})
			case c.IsEmpty():
				review.Reasons = append(review.Reasons, ReviewReason{
					Code: ReasonEmpty, Email: i, Field: fc.field, Detail: "no value",
				})
			case c.ContentLength() > q.maxLength:
				review.Reasons = append(review.Reasons, ReviewReason{
					Code: ReasonOversized, Email: i, Field: fc.field,
					Detail: fmt.Sprintf("%d characters", c.ContentLength()),
				})
			}
		}
	}

	return review
}

type fieldContact struct {
	field   Field
	contact *Contact
}

// headerContacts parses the From value and, when those headers were seen,
// the first semicolon-separated To and CC values.
func headerContacts(e *Email, identity *IdentityParser) []fieldContact {
	out := []fieldContact{{field: FieldFrom, contact: identity.Parse(e.From())}}
	for _, f := range []Field{FieldTo, FieldCC} {
		if e.Has(f) {
			out = append(out, fieldContact{field: f, contact: identity.Parse(firstRecipient(e.Header(f)))})
		}
	}
	return out
}

func firstRecipient(value string) string {
	first, _, _ := strings.Cut(value, ";")
	return first
}

// splitRecipients returns every semicolon-separated value.
func splitRecipients(value string) []string {
	return strings.Split(value, ";")
}
