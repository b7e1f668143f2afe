package domain

import "context"

type UserRepository interface {
	// GetByEmail returns (nil, nil) when no user exists for the email.
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
}

// IdentityProvider validates an external assertion (an authorization code in
// the minimal flow) and returns the email the provider vouches for.
type IdentityProvider interface {
	Exchange(ctx context.Context, code string) (string, error)
}
