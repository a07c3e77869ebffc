package user

import "context"

// Store is the identity persistence boundary. The auth and reset modules
// consume it alongside the profile endpoints in this package.
type Store interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	Insert(ctx context.Context, u *User) error
	Update(ctx context.Context, id string, patch Patch) (*User, error)
	Delete(ctx context.Context, id string) error
}
