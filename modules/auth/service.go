// Package auth implements cookie-based session authentication: signup,
// signin, signout, and the session guard that verifies and silently
// rotates the credential on every authenticated request.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gfschwingel/coppers/modules/user"
	"github.com/gfschwingel/coppers/pkg/logger"
	"github.com/gfschwingel/coppers/pkg/token"
	"github.com/gfschwingel/coppers/pkg/validator"
)

// ErrInvalidCredentials is returned when the password does not match the
// stored hash. Deliberately indistinguishable in client-facing text from
// an unknown email, to avoid confirming account existence.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// Service implements the credential issuance flow.
type Service struct {
	users      user.Store
	tokens     *token.Service
	bcryptCost int
	log        *slog.Logger
}

func NewService(users user.Store, tokens *token.Service, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
		log:        log,
	}
}

// SignupInput is the registration payload. All fields are required.
type SignupInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new identity. The username and email uniqueness
// checks are two independent lookups; both must come back empty. The
// password is hashed before it ever reaches the store, and no credential
// is issued: the client signs in separately.
func (s *Service) Signup(ctx context.Context, in SignupInput) error {
	if err := validator.Apply(
		validator.Required("username", in.Username),
		validator.Required("email", in.Email),
		validator.ValidEmail("email", in.Email),
		validator.Required("password", in.Password),
	); err != nil {
		return err
	}

	if _, err := s.users.FindByUsername(ctx, in.Username); err == nil {
		return user.ErrUsernameTaken
	} else if !errors.Is(err, user.ErrNotFound) {
		return fmt.Errorf("auth: username lookup: %w", err)
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return user.ErrEmailTaken
	} else if !errors.Is(err, user.ErrNotFound) {
		return fmt.Errorf("auth: email lookup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}

	u := &user.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Insert(ctx, u); err != nil {
		return err
	}

	s.log.Info("user registered",
		slog.String("user_id", u.ID.Hex()),
		logger.Component("auth"),
	)
	return nil
}

// Signin verifies the email/password pair and issues a fresh credential.
// Returns the identity together with the signed token and its expiry so
// the transport layer can attach the cookie.
func (s *Service) Signin(ctx context.Context, email, password string) (*user.User, string, time.Time, error) {
	if err := validator.Apply(
		validator.Required("email", email),
		validator.Required("password", password),
	); err != nil {
		return nil, "", time.Time{}, err
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	signed, expiresAt, err := s.tokens.Issue(u.ID.Hex())
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("auth: issue credential: %w", err)
	}

	s.log.Info("user signed in",
		slog.String("user_id", u.ID.Hex()),
		logger.Component("auth"),
	)
	return u, signed, expiresAt, nil
}
