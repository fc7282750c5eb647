package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/emersion/go-message/mail"
	"github.com/mikey/email-munger/internal/core"
	"go.uber.org/zap"
)

// EMLExporter writes the genuine emails of a document as .eml files
type EMLExporter struct {
	dir      string
	identity *core.IdentityParser
	logger   *zap.Logger
}

// NewEMLExporter creates a new exporter writing into dir
func NewEMLExporter(dir string, identity *core.IdentityParser, logger *zap.Logger) *EMLExporter {
	return &EMLExporter{
		dir:      dir,
		identity: identity,
		logger:   logger,
	}
}

// Export writes <doc-id>-<n>.eml for each genuine email, n being the email's
// 1-based position in the document, and returns the paths written.
func (x *EMLExporter) Export(ctx context.Context, doc *core.Document) ([]string, error) {
	if err := os.MkdirAll(x.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	var paths []string
	for i, email := range doc.Emails() {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		if !email.IsEmail() {
			x.logger.Debug("Skipping non-email block",
				zap.String("doc_id", doc.ID()),
				zap.Int("position", i+1))
			continue
		}

		path := filepath.Join(x.dir, fmt.Sprintf("%s-%d.eml", doc.ID(), i+1))
		if err := x.writeFile(path, email); err != nil {
			x.logger.Error("Failed to export email",
				zap.String("doc_id", doc.ID()),
				zap.String("path", path),
				zap.Error(err))
			return paths, err
		}
		paths = append(paths, path)
	}

	x.logger.Debug("Exported document",
		zap.String("doc_id", doc.ID()),
		zap.Int("files", len(paths)))
	return paths, nil
}

func (x *EMLExporter) writeFile(path string, email *core.Email) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := x.write(f, email); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func (x *EMLExporter) write(f *os.File, email *core.Email) error {
	h := x.header(email)

	w, err := mail.CreateSingleInlineWriter(f, h)
	if err != nil {
		return fmt.Errorf("failed to create message writer: %w", err)
	}
	if _, err := w.Write([]byte(email.Body())); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close message writer: %w", err)
	}
	return nil
}

// header maps the extracted fields onto RFC 5322 headers. Values the
// identity parser cannot turn into an address survive in X-Original-*.
func (x *EMLExporter) header(email *core.Email) mail.Header {
	var h mail.Header
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	for _, f := range []struct {
		field core.Field
		key   string
	}{
		{core.FieldFrom, "From"},
		{core.FieldTo, "To"},
		{core.FieldCC, "Cc"},
	} {
		value := email.Header(f.field)
		if strings.TrimSpace(value) == "" {
			continue
		}
		h.SetText("X-Original-"+f.key, value)
		if addrs := x.addresses(value); len(addrs) > 0 {
			h.SetAddressList(f.key, addrs)
		}
	}

	if subject := email.Subject(); subject != "" {
		h.SetSubject(subject)
	}
	if sent := email.Sent(); sent != "" {
		h.SetText("X-Original-Sent", sent)
	}
	if attachments := email.Attachments(); attachments != "" {
		h.SetText("X-Original-Attachments", attachments)
	}
	return h
}

func (x *EMLExporter) addresses(value string) []*mail.Address {
	var out []*mail.Address
	for _, raw := range strings.Split(value, ";") {
		contact := x.identity.Parse(raw)
		if !contact.HasEmailAddress() || contact.EmailAddress().IsRedacted() {
			continue
		}
		out = append(out, &mail.Address{
			Name:    contact.Name().FullName(core.FirstMiddleLast),
			Address: contact.EmailAddress().Whole(),
		})
	}
	return out
}
