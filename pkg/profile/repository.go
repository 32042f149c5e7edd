package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrProfileNotFound = errors.New("profile not found")
)

// Repository defines the interface for profile storage operations.
// Implementations: PostgresRepository and InMemoryRepository.
type Repository interface {
	// Get retrieves a profile by identity id. Returns ErrProfileNotFound
	// when no row exists.
	Get(ctx context.Context, id uuid.UUID) (Profile, error)

	// Insert creates a new profile row
	Insert(ctx context.Context, profile Profile) error

	// Update replaces the mutable fields of an existing profile row
	Update(ctx context.Context, profile Profile) error
}
