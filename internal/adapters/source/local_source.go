package source

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"sort"

	"github.com/mikey/email-munger/internal/core"
	"go.uber.org/zap"
)

// LocalSource reads documents from directories on the local filesystem
type LocalSource struct {
	locations []string
	fileType  string
	logger    *zap.Logger
}

// NewLocalSource creates a new local source over locations, in order
func NewLocalSource(locations []string, fileType string, logger *zap.Logger) *LocalSource {
	return &LocalSource{
		locations: locations,
		fileType:  fileType,
		logger:    logger,
	}
}

// Documents yields every matching file of every location. Each file is
// closed before its document is yielded.
func (s *LocalSource) Documents(ctx context.Context) iter.Seq2[*core.RawDocument, error] {
	return func(yield func(*core.RawDocument, error) bool) {
		for _, location := range s.locations {
			files, err := s.list(location)
			if err != nil {
				yield(nil, err)
				return
			}

			for _, file := range files {
				if err := ctx.Err(); err != nil {
					yield(nil, err)
					return
				}
				doc, err := ReadFile(file)
				if err != nil {
					yield(nil, err)
					return
				}
				if !yield(doc, nil) {
					return
				}
			}
		}
	}
}

func (s *LocalSource) list(location string) ([]string, error) {
	entries, err := os.ReadDir(location)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", location, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !matchesFileType(entry.Name(), s.fileType) {
			continue
		}
		files = append(files, filepath.Join(location, entry.Name()))
	}
	sort.Strings(files)

	s.logger.Debug("Listed corpus location",
		zap.String("location", location),
		zap.Int("files", len(files)))
	return files, nil
}

// ReadFile reads a single document from file.
func ReadFile(file string) (*core.RawDocument, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	return readDocument(documentID(file), f)
}
