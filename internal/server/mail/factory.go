package mail

import (
	"fmt"

	"github.com/dmitrijs2005/linkdir/internal/logging"
	"github.com/dmitrijs2005/linkdir/internal/server/config"
)

// New returns the Mailer selected by cfg.MailDriver. Mailers holding
// connections also implement io.Closer.
func New(cfg *config.Config, logger logging.Logger) (Mailer, error) {
	from := Address{Name: cfg.MailFromName, Email: cfg.MailFrom}
	logger = logger.With("module", "mail")

	switch cfg.MailDriver {
	case config.MailDriverLog, "":
		return NewLogMailer(from, logger), nil
	case config.MailDriverSMTP:
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, from, logger), nil
	case config.MailDriverMailjet:
		return NewMailjetMailer(cfg.MailjetAPIKey, cfg.MailjetSecretKey, from), nil
	case config.MailDriverKafka:
		return NewKafkaMailer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaUser, cfg.KafkaPassword, from)
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.MailDriver)
	}
}
