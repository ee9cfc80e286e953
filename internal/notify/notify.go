// Package notify turns consumed domain events into emails.
package notify

import (
	"context"
	"fmt"

	"foodgram/internal/domain"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

// Sender delivers one message.
type Sender interface {
	Send(to, subject, body string) error
}

// MailConfig holds SMTP settings.
type MailConfig struct {
	Host     string
	Port     int
	Sender   string
	User     string
	Password string
}

// SMTPSender sends HTML mail through an SMTP relay.
type SMTPSender struct {
	cfg    MailConfig
	dialer *gomail.Dialer
}

// NewSMTPSender creates a new SMTPSender.
func NewSMTPSender(cfg MailConfig) *SMTPSender {
	return &SMTPSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

// Send implements Sender.
func (s *SMTPSender) Send(to, subject, body string) error {
	from := s.cfg.Sender
	if from == "" {
		from = s.cfg.User
	}
	mailer := gomail.NewMessage()
	mailer.SetHeader("From", from)
	mailer.SetHeader("To", to)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(mailer); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// LogSender only logs messages. Used when SMTP is not configured.
type LogSender struct{}

// Send implements Sender.
func (LogSender) Send(to, subject, _ string) error {
	log.Info().Str("to", to).Str("subject", subject).Msg("mail not sent, SMTP disabled")
	return nil
}

// Notifier handles events consumed from the broker.
type Notifier struct {
	sender Sender
}

// NewNotifier creates a new Notifier.
func NewNotifier(sender Sender) *Notifier {
	return &Notifier{sender: sender}
}

// Handle emails an author when someone subscribes to them. Other events are
// only logged.
func (n *Notifier) Handle(_ context.Context, event domain.Event) error {
	switch event.Type {
	case domain.EventSubscriptionCreated:
		if event.AuthorEmail == "" {
			log.Warn().Uint("author_id", event.AuthorID).Msg("subscription event without author email")
			return nil
		}
		subject := "You have a new subscriber"
		body := fmt.Sprintf("<p><b>%s</b> subscribed to your recipes.</p>", event.Username)
		return n.sender.Send(event.AuthorEmail, subject, body)
	default:
		log.Debug().
			Str("event", event.Type).
			Uint("user_id", event.UserID).
			Uint("recipe_id", event.RecipeID).
			Msg("event received")
		return nil
	}
}
