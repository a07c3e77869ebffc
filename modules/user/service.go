package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/gfschwingel/coppers/pkg/logger"
	"github.com/gfschwingel/coppers/pkg/validator"
)

// ErrForbidden is returned when a caller tries to modify an identity
// other than their own.
var ErrForbidden = errors.New("user: forbidden")

// Service implements profile management on top of the Store.
type Service struct {
	store      Store
	bcryptCost int
	log        *slog.Logger
}

func NewService(store Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:      store,
		bcryptCost: bcrypt.DefaultCost,
		log:        log,
	}
}

// List returns every registered identity, password hashes excluded via
// the model's serialization rules.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.FindAll(ctx)
}

// Get returns one identity by id.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.store.FindByID(ctx, id)
}

// UpdateInput carries the optional profile fields a caller may change.
// A non-empty Password is re-hashed; the others replace the stored value.
type UpdateInput struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture"`
	Password       string `json:"password"`
}

// Update applies a partial profile update. Only the identity's owner may
// update it. Username and email changes re-run the uniqueness checks.
func (s *Service) Update(ctx context.Context, callerID, id string, in UpdateInput) (*User, error) {
	if callerID != id {
		return nil, ErrForbidden
	}

	current, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := Patch{}

	if in.Username != "" && in.Username != current.Username {
		if err := validator.Apply(validator.Required("username", in.Username)); err != nil {
			return nil, err
		}
		if existing, err := s.store.FindByUsername(ctx, in.Username); err == nil && existing.ID != current.ID {
			return nil, ErrUsernameTaken
		} else if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		patch.Username = &in.Username
	}

	if in.Email != "" && in.Email != current.Email {
		if err := validator.Apply(validator.ValidEmail("email", in.Email)); err != nil {
			return nil, err
		}
		if existing, err := s.store.FindByEmail(ctx, in.Email); err == nil && existing.ID != current.ID {
			return nil, ErrEmailTaken
		} else if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		patch.Email = &in.Email
	}

	if in.ProfilePicture != "" {
		patch.ProfilePicture = &in.ProfilePicture
	}

	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("user: hash password: %w", err)
		}
		hashStr := string(hash)
		patch.PasswordHash = &hashStr
	}

	updated, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.log.Info("profile updated", slog.String("user_id", id), logger.Component("user"))
	return updated, nil
}

// Delete removes the caller's own identity. Task cleanup is not cascaded.
func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	if callerID != id {
		return ErrForbidden
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("account deleted", slog.String("user_id", id), logger.Component("user"))
	return nil
}
