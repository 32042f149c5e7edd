package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrDuplicateEmail = errors.New("email already registered")
	ErrUserNotFound   = errors.New("user not found")
)

// Provider defines the operations this system needs from the external
// identity provider. Implementations: GoTrueProvider (HTTP admin API) and
// InMemoryProvider (tests and the inmem binary).
type Provider interface {
	// CreateUser creates a new identity. Returns ErrDuplicateEmail if an
	// identity with the same email already exists.
	CreateUser(ctx context.Context, params CreateUserParams) (Identity, error)

	// ListUsers returns the full user collection.
	ListUsers(ctx context.Context) ([]Identity, error)

	// DeleteUser removes an identity. Used only as rollback compensation
	// when a profile write fails right after identity creation.
	DeleteUser(ctx context.Context, id uuid.UUID) error

	// SendPasswordRecovery asks the provider to email a password recovery
	// link to the given address.
	SendPasswordRecovery(ctx context.Context, email string) error
}

// ResolveByEmail determines whether an identity already exists for the
// given email. It lists the full user collection and performs a linear
// scan for an exact, case-sensitive match as stored by the provider.
//
// O(n) over the whole user base per call. Acceptable at provisioning
// volume; a provider with a native lookup-by-email can substitute a direct
// call behind the Provider interface without changing this contract.
func ResolveByEmail(ctx context.Context, provider Provider, email string) (Identity, bool, error) {
	users, err := provider.ListUsers(ctx)
	if err != nil {
		return Identity{}, false, err
	}
	for _, user := range users {
		if user.Email == email {
			return user, true, nil
		}
	}
	return Identity{}, false, nil
}
