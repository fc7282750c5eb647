package core

import (
	"go.uber.org/zap"
)

// RawDocument is one unit read from a corpus source: its id and its lines.
type RawDocument struct {
	ID    string
	Lines []string
}

// Document is a parsed source document: its emails plus segmentation issues.
// The review verdict is computed on first use and then cached.
type Document struct {
	id      string
	emails  []*Email
	issues  []SegmentIssue
	quality *QualityFilter
	review  *Review
}

// ID returns the document identifier derived from the source name.
func (d *Document) ID() string {
	return d.id
}

// Emails returns the document's emails in document order.
func (d *Document) Emails() []*Email {
	out := make([]*Email, len(d.emails))
	copy(out, d.emails)
	return out
}

// Len returns the number of emails in the document.
func (d *Document) Len() int {
	return len(d.emails)
}

// Issues returns the structural problems the Segmenter reported.
func (d *Document) Issues() []SegmentIssue {
	out := make([]SegmentIssue, len(d.issues))
	copy(out, d.issues)
	return out
}

// Review returns the quality verdict for the document.
func (d *Document) Review() *Review {
	if d.review == nil {
		d.review = d.quality.Check(d)
	}
	return d.review
}

// NeedsReview reports whether the document should be checked by hand.
func (d *Document) NeedsReview() bool {
	return d.Review().Flagged()
}

// DocumentParser segments raw documents and extracts their emails
type DocumentParser struct {
	segmenter *Segmenter
	extractor *FieldExtractor
	quality   *QualityFilter
	logger    *zap.Logger
}

// NewDocumentParser creates a new document parser
func NewDocumentParser(settings Settings, identity *IdentityParser, logger *zap.Logger) *DocumentParser {
	return &DocumentParser{
		segmenter: NewSegmenter(settings.UseThreads),
		extractor: NewFieldExtractor(settings.HeaderMatchCutoff),
		quality:   NewQualityFilter(identity, settings.MaxContactLength),
		logger:    logger,
	}
}

// Parse turns a raw document into a Document. It does not fail; heuristic
// trouble surfaces through the review verdict.
func (p *DocumentParser) Parse(raw *RawDocument) *Document {
	seg := p.segmenter.Split(raw.Lines)

	doc := &Document{
		id:      raw.ID,
		emails:  make([]*Email, 0, len(seg.Blocks)),
		issues:  seg.Issues,
		quality: p.quality,
	}
	for _, block := range seg.Blocks {
		doc.emails = append(doc.emails, p.extractor.Extract(block))
	}

	p.logger.Debug("Parsed document",
		zap.String("doc_id", doc.id),
		zap.Int("lines", len(raw.Lines)),
		zap.Int("emails", len(doc.emails)),
		zap.Int("segment_issues", len(seg.Issues)))

	return doc
}
