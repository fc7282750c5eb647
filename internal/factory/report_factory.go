package factory

import (
	"errors"
	"fmt"
	"io"

	"github.com/mikey/email-munger/internal/adapters/notify"
	"github.com/mikey/email-munger/internal/config"
	"github.com/mikey/email-munger/internal/ports"
	"go.uber.org/zap"
)

// ReportFactory creates report senders based on configuration
type ReportFactory struct {
	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer
}

// NewReportFactory creates a new report factory. Console reports go to out.
func NewReportFactory(cfg *config.Config, logger *zap.Logger, out io.Writer) *ReportFactory {
	return &ReportFactory{
		cfg:    cfg,
		logger: logger,
		out:    out,
	}
}

// CreateReportSender creates a report sender based on the configuration
func (f *ReportFactory) CreateReportSender() (ports.ReportSender, error) {
	reportType := f.cfg.GetString("report.type")

	switch reportType {
	case "console":
		return notify.NewConsoleSender(f.out, f.logger), nil
	case "smtp":
		smtpCfg := f.cfg.GetSMTP()
		if len(smtpCfg.To) == 0 {
			return nil, errors.New("smtp.to must name at least one recipient")
		}
		return notify.NewSMTPSender(
			smtpCfg.Address,
			smtpCfg.From,
			smtpCfg.To,
			smtpCfg.Username,
			smtpCfg.Password,
			f.logger,
		), nil
	default:
		return nil, fmt.Errorf("unsupported report type: %s", reportType)
	}
}
