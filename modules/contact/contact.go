// Package contact relays the public contact form to the site inbox. The
// sender's address goes into the body, not the envelope: Postmark only
// delivers from verified senders, so the message is sent inbox-to-inbox.
package contact

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/gfschwingel/coppers/pkg/email"
	"github.com/gfschwingel/coppers/pkg/logger"
	"github.com/gfschwingel/coppers/pkg/validator"
)

// Form is the contact submission. Every field is required.
type Form struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message"`
}

// Service relays contact submissions over the configured email sender.
type Service struct {
	sender email.Sender
	inbox  string
	log    *slog.Logger
}

// NewService creates the relay targeting the given inbox address.
func NewService(sender email.Sender, inbox string, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{sender: sender, inbox: inbox, log: log}
}

// Relay validates the form and forwards it to the inbox.
func (s *Service) Relay(ctx context.Context, f Form) error {
	if err := validator.Apply(
		validator.Required("name", f.Name),
		validator.Required("email", f.Email),
		validator.ValidEmail("email", f.Email),
		validator.Required("phoneNumber", f.PhoneNumber),
		validator.Required("message", f.Message),
	); err != nil {
		return err
	}

	params := email.SendParams{
		To:      s.inbox,
		Subject: fmt.Sprintf("Contact form: %s", f.Name),
		BodyText: fmt.Sprintf(
			"Name: %s\nEmail: %s\nPhone: %s\n\n%s",
			f.Name, f.Email, f.PhoneNumber, f.Message,
		),
		BodyHTML: fmt.Sprintf(
			"<p><strong>Name:</strong> %s</p><p><strong>Email:</strong> %s</p><p><strong>Phone:</strong> %s</p><p>%s</p>",
			html.EscapeString(f.Name),
			html.EscapeString(f.Email),
			html.EscapeString(f.PhoneNumber),
			html.EscapeString(f.Message),
		),
		Tag: "contact-form",
	}
	if err := s.sender.SendEmail(ctx, params); err != nil {
		s.log.Error("contact relay failed", logger.Error(err), logger.Component("contact"))
		return fmt.Errorf("contact: relay: %w", err)
	}

	s.log.Info("contact form relayed", slog.String("from", f.Email), logger.Component("contact"))
	return nil
}
