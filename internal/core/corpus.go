package core

import (
	"context"
	"fmt"
	"iter"

	"go.uber.org/zap"
)

// Corpus parses the documents of a DocumentSource lazily.
type Corpus struct {
	source   DocumentSource
	parser   *DocumentParser
	identity *IdentityParser
	logger   *zap.Logger
}

// NewCorpus creates a new corpus over source
func NewCorpus(source DocumentSource, parser *DocumentParser, identity *IdentityParser, logger *zap.Logger) *Corpus {
	return &Corpus{
		source:   source,
		parser:   parser,
		identity: identity,
		logger:   logger,
	}
}

// Documents yields parsed documents in source order. Each call starts over
// from the first document.
func (c *Corpus) Documents(ctx context.Context) iter.Seq2[*Document, error] {
	return func(yield func(*Document, error) bool) {
		for raw, err := range c.source.Documents(ctx) {
			if err != nil {
				c.logger.Error("Failed to read document", zap.Error(err))
				yield(nil, fmt.Errorf("failed to read document: %w", err))
				return
			}
			if !yield(c.parser.Parse(raw), nil) {
				return
			}
		}
	}
}

// PullContacts harvests the From, first To and first CC contact of every email.
func (c *Corpus) PullContacts(ctx context.Context) ([]*Contact, error) {
	return c.pull(ctx, false)
}

// PullAllContacts harvests every From, To and CC contact of every email.
func (c *Corpus) PullAllContacts(ctx context.Context) ([]*Contact, error) {
	return c.pull(ctx, true)
}

func (c *Corpus) pull(ctx context.Context, all bool) ([]*Contact, error) {
	var contacts []*Contact
	for doc, err := range c.Documents(ctx) {
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, HarvestContacts(doc, c.identity, all)...)
	}
	return contacts, nil
}

// HarvestContacts parses one contact per From value and per first To and CC
// value of each email in doc. With all set, every semicolon-separated To and
// CC value is parsed.
func HarvestContacts(doc *Document, identity *IdentityParser, all bool) []*Contact {
	var out []*Contact
	for _, e := range doc.emails {
		out = append(out, identity.Parse(e.From()))
		for _, f := range []Field{FieldTo, FieldCC} {
			if !all {
				out = append(out, identity.Parse(firstRecipient(e.Header(f))))
				continue
			}
			for _, v := range splitRecipients(e.Header(f)) {
				out = append(out, identity.Parse(v))
			}
		}
	}
	return out
}
