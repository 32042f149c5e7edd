package profile

import (
	"context"
	"errors"
	"log/slog"
	"time"

	perrors "github.com/tendant/simple-provision/pkg/errors"
)

// Service provides profile write operations with the access-level merge
// policy applied on top of the repository.
type Service struct {
	repo Repository
	now  func() time.Time
}

// ServiceOption is a function that configures a Service
type ServiceOption func(*Service)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new profile service
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Upsert writes the profile row for an identity. Returns the stored
// profile and whether a new row was inserted.
//
// Merge policy on update: the access level never decreases (monotonic),
// the product set is replaced with the new entitlement's set, and the
// profile is always reactivated. updated_at is set on every write,
// created_at only on insert.
func (s *Service) Upsert(ctx context.Context, params UpsertParams) (Profile, bool, error) {
	now := s.now()

	existing, err := s.repo.Get(ctx, params.ID)
	if err != nil {
		if !errors.Is(err, ErrProfileNotFound) {
			return Profile{}, false, perrors.Wrap(err, perrors.ErrCodeProfileWriteFailed, "failed to read profile")
		}

		inserted := Profile{
			ID:          params.ID,
			Email:       params.Email,
			AccessLevel: params.AccessLevel,
			Products:    params.Products,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
			CreatedBy:   params.CreatedBy,
		}
		if err := s.repo.Insert(ctx, inserted); err != nil {
			return Profile{}, false, perrors.Wrap(err, perrors.ErrCodeProfileWriteFailed, "failed to insert profile")
		}
		return inserted, true, nil
	}

	level := params.AccessLevel
	if existing.AccessLevel > level {
		slog.Info("Keeping existing access level",
			"id", params.ID, "existing", existing.AccessLevel, "requested", level)
		level = existing.AccessLevel
	}

	updated := Profile{
		ID:          params.ID,
		Email:       params.Email,
		AccessLevel: level,
		Products:    params.Products,
		IsActive:    true,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   now,
		CreatedBy:   existing.CreatedBy,
	}
	if err := s.repo.Update(ctx, updated); err != nil {
		return Profile{}, false, perrors.Wrap(err, perrors.ErrCodeProfileWriteFailed, "failed to update profile")
	}
	return updated, false, nil
}
