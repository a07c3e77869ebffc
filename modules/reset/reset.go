// Package reset implements the forgot-password flow: a short-lived,
// purpose-scoped credential mailed to the account address, then redeemed
// once to set a new password. Session credentials never pass the
// purpose check here and vice versa.
package reset

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gfschwingel/coppers/modules/user"
	"github.com/gfschwingel/coppers/pkg/email"
	"github.com/gfschwingel/coppers/pkg/logger"
	"github.com/gfschwingel/coppers/pkg/token"
	"github.com/gfschwingel/coppers/pkg/validator"
)

// TokenTTL bounds the window between requesting a reset and using it.
const TokenTTL = 15 * time.Minute

// ErrInvalidToken is returned when the reset credential is expired,
// malformed, or was issued for a different purpose.
var ErrInvalidToken = errors.New("reset: invalid token")

// Config locates the frontend page the emailed link points at.
type Config struct {
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
}

// Service drives the two reset steps.
type Service struct {
	users       user.Store
	tokens      *token.Service
	sender      email.Sender
	frontendURL string
	bcryptCost  int
	log         *slog.Logger
}

func NewService(users user.Store, tokens *token.Service, sender email.Sender, cfg Config, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		users:       users,
		tokens:      tokens,
		sender:      sender,
		frontendURL: cfg.FrontendURL,
		bcryptCost:  bcrypt.DefaultCost,
		log:         log,
	}
}

// Forgot issues a reset credential for the account behind the email and
// mails the redemption link. Unknown addresses surface as not found.
func (s *Service) Forgot(ctx context.Context, emailAddr string) error {
	if err := validator.Apply(
		validator.Required("email", emailAddr),
		validator.ValidEmail("email", emailAddr),
	); err != nil {
		return err
	}

	u, err := s.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	signed, _, err := s.tokens.IssueFor(u.ID.Hex(), token.PurposePasswordReset, TokenTTL)
	if err != nil {
		return fmt.Errorf("reset: issue token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, url.QueryEscape(signed))
	err = s.sender.SendEmail(ctx, email.SendParams{
		To:      u.Email,
		Subject: "Reset your password",
		BodyText: fmt.Sprintf(
			"Hi %s,\n\nUse the link below to set a new password. It expires in 15 minutes.\n\n%s\n\nIf you did not request this, ignore this message.",
			u.Username, link,
		),
		BodyHTML: fmt.Sprintf(
			"<p>Hi %s,</p><p>Use the link below to set a new password. It expires in 15 minutes.</p><p><a href=%q>Reset password</a></p><p>If you did not request this, ignore this message.</p>",
			html.EscapeString(u.Username), link,
		),
		Tag: "password-reset",
	})
	if err != nil {
		s.log.Error("reset email failed", logger.Error(err), logger.Component("reset"))
		return fmt.Errorf("reset: send email: %w", err)
	}

	s.log.Info("reset email sent", slog.String("user_id", u.ID.Hex()), logger.Component("reset"))
	return nil
}

// Reset redeems the credential and replaces the account password.
func (s *Service) Reset(ctx context.Context, signed, newPassword string) error {
	if err := validator.Apply(
		validator.Required("token", signed),
		validator.Required("password", newPassword),
		validator.MinLength("password", newPassword, 6),
	); err != nil {
		return err
	}

	subject, err := s.tokens.VerifyFor(signed, token.PurposePasswordReset)
	if err != nil {
		return ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("reset: hash password: %w", err)
	}

	hashStr := string(hash)
	if _, err := s.users.Update(ctx, subject, user.Patch{PasswordHash: &hashStr}); err != nil {
		return err
	}

	s.log.Info("password reset", slog.String("user_id", subject), logger.Component("reset"))
	return nil
}
