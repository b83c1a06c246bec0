package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/linkdir/internal/logging"
)

const smtpTimeout = 15 * time.Second

// SMTPMailer submits messages to a relay, upgrading with STARTTLS when the
// server offers it.
type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
	from     Address
	dialer   *net.Dialer
	logger   logging.Logger
}

func NewSMTPMailer(host string, port int, user, password string, from Address, logger logging.Logger) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
		dialer:   &net.Dialer{Timeout: 8 * time.Second},
		logger:   logger,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, html string) error {
	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))

	conn, err := m.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp dial %s: %w", addr, err)
	}
	deadline := time.Now().Add(smtpTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer func() { _ = c.Close() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	if m.user != "" {
		if err := c.Auth(smtp.PlainAuth("", m.user, m.password, m.host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := c.Mail(m.from.Email); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(buildMessage(m.from, to, subject, html)); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp data close: %w", err)
	}

	// The relay has accepted the message once DATA is closed.
	if err := c.Quit(); err != nil {
		m.logger.Warn(ctx, "smtp quit failed after delivery", "host", m.host, "error", err)
	}
	return nil
}

func buildMessage(from Address, to, subject, html string) []byte {
	return []byte(strings.Join([]string{
		"From: " + from.String(),
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		html,
	}, "\r\n"))
}
