package identity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryProvider implements Provider using in-memory storage
type InMemoryProvider struct {
	mu    sync.RWMutex
	users map[uuid.UUID]Identity
}

// NewInMemoryProvider creates a new in-memory identity provider
func NewInMemoryProvider() *InMemoryProvider {
	return &InMemoryProvider{
		users: make(map[uuid.UUID]Identity),
	}
}

// CreateUser creates a new identity
func (p *InMemoryProvider) CreateUser(ctx context.Context, params CreateUserParams) (Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, user := range p.users {
		if user.Email == params.Email {
			return Identity{}, ErrDuplicateEmail
		}
	}

	user := Identity{
		ID:             uuid.New(),
		Email:          params.Email,
		EmailConfirmed: params.EmailConfirmed,
		CreatedAt:      time.Now().UTC(),
	}
	p.users[user.ID] = user
	return user, nil
}

// ListUsers returns all identities
func (p *InMemoryProvider) ListUsers(ctx context.Context) ([]Identity, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	users := make([]Identity, 0, len(p.users))
	for _, user := range p.users {
		users = append(users, user)
	}
	return users, nil
}

// DeleteUser removes an identity. Idempotent.
func (p *InMemoryProvider) DeleteUser(ctx context.Context, id uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.users, id)
	return nil
}

// SendPasswordRecovery logs the recovery request. The in-memory provider
// has no mail channel of its own.
func (p *InMemoryProvider) SendPasswordRecovery(ctx context.Context, email string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, user := range p.users {
		if user.Email == email {
			slog.Info("Password recovery requested", "email", email)
			return nil
		}
	}
	return ErrUserNotFound
}
