package source

import (
	"bufio"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/mikey/email-munger/internal/core"
)

// maxLineSize bounds a single OCR line; scanned pages sometimes lose their
// line breaks entirely.
const maxLineSize = 4 * 1024 * 1024

// readDocument reads every line of r into a RawDocument.
func readDocument(id string, r io.Reader) (*core.RawDocument, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	doc := &core.RawDocument{ID: id}
	for scanner.Scan() {
		doc.Lines = append(doc.Lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", id, err)
	}
	return doc, nil
}

// documentID is the base name of name up to its first dot.
func documentID(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	id, _, _ := strings.Cut(base, ".")
	return id
}

// matchesFileType reports whether name carries fileType. A fileType without
// a dot selects names that have no dot at all.
func matchesFileType(name, fileType string) bool {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if !strings.Contains(fileType, ".") {
		return !strings.Contains(base, ".")
	}
	return strings.HasSuffix(base, fileType)
}
