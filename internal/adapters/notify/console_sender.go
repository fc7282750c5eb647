package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/mikey/email-munger/internal/core"
	"go.uber.org/zap"
)

// ConsoleSender prints run reports to a writer, normally stdout
type ConsoleSender struct {
	out    io.Writer
	logger *zap.Logger
}

// NewConsoleSender creates a new console report sender
func NewConsoleSender(out io.Writer, logger *zap.Logger) *ConsoleSender {
	return &ConsoleSender{
		out:    out,
		logger: logger,
	}
}

// Send prints the report
func (s *ConsoleSender) Send(ctx context.Context, report *core.RunReport) error {
	if err := renderReport(s.out, report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	s.logger.Debug("Printed run report", zap.String("run_id", report.RunID))
	return nil
}
