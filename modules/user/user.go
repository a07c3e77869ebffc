// Package user holds the identity model, its MongoDB persistence, and the
// profile management endpoints. The password hash never crosses the JSON
// boundary: the field is excluded from serialization entirely.
package user

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	// ErrNotFound is returned when no identity matches the lookup key.
	ErrNotFound = errors.New("user: not found")
	// ErrUsernameTaken is returned on signup or update when the username
	// is already registered to another identity.
	ErrUsernameTaken = errors.New("user: username already taken")
	// ErrEmailTaken is returned on signup or update when the email is
	// already registered to another identity.
	ErrEmailTaken = errors.New("user: email already taken")
)

// User is a registered identity. Username and email are globally unique.
type User struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username       string        `bson:"username" json:"username"`
	Email          string        `bson:"email" json:"email"`
	PasswordHash   string        `bson:"password" json:"-"`
	ProfilePicture string        `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	CreatedAt      time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// Patch is a partial profile update. Nil fields are left untouched.
type Patch struct {
	Username       *string
	Email          *string
	ProfilePicture *string
	PasswordHash   *string
}
