// Package mail composes verification emails and delivers them through one of
// several transports selected by configuration.
package mail

import "context"

// Mailer delivers a single HTML message. Implementations do not retry.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Address is a display name plus mailbox, rendered as `Name <addr>`.
type Address struct {
	Name  string
	Email string
}

func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return a.Name + " <" + a.Email + ">"
}
