package ports

import (
	"context"

	"github.com/mikey/email-munger/internal/core"
)

// ReportSender delivers the summary of a munging run
type ReportSender interface {
	// Send delivers the report
	Send(ctx context.Context, report *core.RunReport) error
}
