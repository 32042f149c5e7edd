package profile

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]Profile
}

// NewInMemoryRepository creates a new in-memory profile repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		profiles: make(map[uuid.UUID]Profile),
	}
}

// Get retrieves a profile by identity id
func (r *InMemoryRepository) Get(ctx context.Context, id uuid.UUID) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[id]
	if !ok {
		return Profile{}, ErrProfileNotFound
	}
	return copyProfile(profile), nil
}

// Insert creates a new profile row
func (r *InMemoryRepository) Insert(ctx context.Context, profile Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[profile.ID] = copyProfile(profile)
	return nil
}

// Update replaces the mutable fields of an existing profile row
func (r *InMemoryRepository) Update(ctx context.Context, profile Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.profiles[profile.ID]
	if !ok {
		return ErrProfileNotFound
	}
	profile.CreatedAt = existing.CreatedAt
	profile.CreatedBy = existing.CreatedBy
	r.profiles[profile.ID] = copyProfile(profile)
	return nil
}

// Count returns the number of stored profiles. Test helper.
func (r *InMemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}

func copyProfile(p Profile) Profile {
	products := make([]string, len(p.Products))
	copy(products, p.Products)
	p.Products = products
	return p
}
