package ports

import (
	"context"

	"github.com/mikey/email-munger/internal/core"
)

// Exporter writes the emails recovered from a document somewhere else
type Exporter interface {
	// Export writes every genuine email of doc and returns where each went
	Export(ctx context.Context, doc *core.Document) ([]string, error)
}
