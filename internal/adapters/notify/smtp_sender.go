package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/mikey/email-munger/internal/core"
	"go.uber.org/zap"
)

// SMTPSender mails run reports through an SMTP relay
type SMTPSender struct {
	address  string
	from     string
	to       []string
	username string
	password string
	logger   *zap.Logger
}

// NewSMTPSender creates a new SMTP report sender. PLAIN authentication is
// used when username is set.
func NewSMTPSender(address, from string, to []string, username, password string, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{
		address:  address,
		from:     from,
		to:       to,
		username: username,
		password: password,
		logger:   logger,
	}
}

// Send mails the report to every configured recipient
func (s *SMTPSender) Send(ctx context.Context, report *core.RunReport) error {
	if len(s.to) == 0 {
		return errors.New("no report recipients configured")
	}

	msg, err := s.compose(report)
	if err != nil {
		return err
	}

	if err := s.deliver(ctx, msg); err != nil {
		s.logger.Error("Failed to mail run report",
			zap.String("run_id", report.RunID),
			zap.String("relay", s.address),
			zap.Error(err))
		return err
	}

	s.logger.Info("Mailed run report",
		zap.String("run_id", report.RunID),
		zap.Strings("recipients", s.to))
	return nil
}

// compose renders the report as a plain-text RFC 5322 message
func (s *SMTPSender) compose(report *core.RunReport) ([]byte, error) {
	var h mail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", []*mail.Address{{Name: "Email munger", Address: s.from}})
	to := make([]*mail.Address, len(s.to))
	for i, addr := range s.to {
		to[i] = &mail.Address{Address: addr}
	}
	h.SetAddressList("To", to)
	h.SetSubject(fmt.Sprintf("Munging run %s: %d documents, %d flagged", report.RunID, report.Documents, len(report.Flagged)))
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("failed to generate message id: %w", err)
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create message writer: %w", err)
	}
	if err := renderReport(w, report); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to write report body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close message writer: %w", err)
	}
	return buf.Bytes(), nil
}

// deliver runs one SMTP transaction for msg
func (s *SMTPSender) deliver(ctx context.Context, msg []byte) error {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP relay: %w", err)
	}

	deadline := time.Now().Add(30 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if s.username != "" {
		if err := c.Auth(sasl.NewPlainClient("", s.username, s.password)); err != nil {
			return fmt.Errorf("AUTH failed: %w", err)
		}
	}

	if err := c.Mail(s.from, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range s.to {
		if err := c.Rcpt(recipient, nil); err != nil {
			s.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
			continue
		}
		recipientOK = true
	}
	if !recipientOK {
		return errors.New("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(msg); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send message data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// The message is already accepted
		s.logger.Warn("QUIT command failed", zap.Error(err))
	}

	return nil
}
