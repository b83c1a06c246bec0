package mail

import (
	"context"

	"github.com/dmitrijs2005/linkdir/internal/logging"
)

// LogMailer writes messages to the log instead of sending them. Meant for
// local development, where the verify link is copied from the log.
type LogMailer struct {
	from   Address
	logger logging.Logger
}

func NewLogMailer(from Address, logger logging.Logger) *LogMailer {
	return &LogMailer{from: from, logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, html string) error {
	m.logger.Info(ctx, "email not sent, log driver active",
		"from", m.from.String(), "to", to, "subject", subject, "html", html)
	return nil
}
