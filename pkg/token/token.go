package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrMissingSecret is returned when the service is created without a
	// signing key.
	ErrMissingSecret = errors.New("token: missing signing secret")
	// ErrInvalidToken covers every verification failure: bad signature,
	// malformed input, wrong algorithm, expired, or wrong purpose. The
	// codec fails closed and callers cannot distinguish the cases.
	ErrInvalidToken = errors.New("token: invalid token")
)

// PurposePasswordReset scopes tokens issued by the password-reset flow so
// a session credential can never be replayed as a reset token.
const PurposePasswordReset = "password_reset"

// Claims carried by every issued token. Purpose is empty for session
// credentials.
type Claims struct {
	jwt.RegisteredClaims
	Purpose string `json:"purpose,omitempty"`
}

// Config holds codec configuration loaded at process start.
type Config struct {
	Secret string        `env:"JWT_SECRET,required"`
	TTL    time.Duration `env:"JWT_TTL" envDefault:"1h"`
}

// Service issues and verifies HS256-signed identity tokens. Tokens are
// self-contained: no server-side state is kept, and rotation is plain
// re-issuance.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// New creates a codec with the given signing secret and session TTL.
func New(secret string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the session token lifetime.
func (s *Service) TTL() time.Duration { return s.ttl }

// Issue creates a session credential for the subject, expiring one TTL
// from now.
func (s *Service) Issue(subject string) (string, time.Time, error) {
	return s.IssueFor(subject, "", s.ttl)
}

// IssueFor creates a purpose-scoped token with an explicit lifetime.
func (s *Service) IssueFor(subject, purpose string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Purpose: purpose,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify validates a session credential and returns its subject.
func (s *Service) Verify(tokenString string) (string, error) {
	return s.VerifyFor(tokenString, "")
}

// VerifyFor validates a purpose-scoped token and returns its subject.
func (s *Service) VerifyFor(tokenString, purpose string) (string, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
