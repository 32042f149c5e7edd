package identity

import (
	"time"

	"github.com/google/uuid"
)

// Identity represents an account in the external identity provider,
// referenced by id only. The password hash is owned by the provider and
// never visible to this system.
type Identity struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	EmailConfirmed bool      `json:"email_confirmed"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateUserParams contains parameters for creating a new identity
type CreateUserParams struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	EmailConfirmed bool   `json:"email_confirm"`
}
