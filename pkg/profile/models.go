package profile

import (
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-provision/pkg/entitlement"
)

// Profile is this system's own entitlement record, keyed 1:1 with the
// identity provider's account by id.
type Profile struct {
	ID          uuid.UUID               `json:"id"`
	Email       string                  `json:"email"`
	AccessLevel entitlement.AccessLevel `json:"access_level"`
	Products    []string                `json:"products"`
	IsActive    bool                    `json:"is_active"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
	CreatedBy   *uuid.UUID              `json:"created_by,omitempty"`
}

// UpsertParams contains parameters for writing a profile
type UpsertParams struct {
	ID          uuid.UUID
	Email       string
	AccessLevel entitlement.AccessLevel
	Products    []string
	CreatedBy   *uuid.UUID
}
