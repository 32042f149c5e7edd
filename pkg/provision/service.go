package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/tendant/simple-provision/pkg/entitlement"
	perrors "github.com/tendant/simple-provision/pkg/errors"
	"github.com/tendant/simple-provision/pkg/identity"
	"github.com/tendant/simple-provision/pkg/notification"
	"github.com/tendant/simple-provision/pkg/profile"
)

// Service runs the provisioning flow for one payment event: resolve the
// entitlement, create or find the identity, write the profile, notify.
type Service struct {
	provider          identity.Provider
	profiles          *profile.Service
	mapper            *entitlement.Mapper
	welcomeDispatcher *notification.Dispatcher
	updateDispatcher  *notification.Dispatcher
	passwordLength    int
}

// Option is a function that configures a Service
type Option func(*Service)

// WithWelcomeDispatcher sets the notifier chain for newly created accounts
func WithWelcomeDispatcher(d *notification.Dispatcher) Option {
	return func(s *Service) {
		s.welcomeDispatcher = d
	}
}

// WithUpdateDispatcher sets the notifier chain for updated accounts
func WithUpdateDispatcher(d *notification.Dispatcher) Option {
	return func(s *Service) {
		s.updateDispatcher = d
	}
}

// WithPasswordLength sets the generated temporary password length
func WithPasswordLength(length int) Option {
	return func(s *Service) {
		s.passwordLength = length
	}
}

// NewService creates a new provisioning service. Without dispatcher
// options, notifications go to the log-only fallback.
func NewService(provider identity.Provider, profiles *profile.Service, mapper *entitlement.Mapper, opts ...Option) *Service {
	s := &Service{
		provider:          provider,
		profiles:          profiles,
		mapper:            mapper,
		welcomeDispatcher: notification.NewDispatcher(notification.NewLogNotifier()),
		updateDispatcher:  notification.NewDispatcher(notification.NewLogNotifier()),
		passwordLength:    DefaultPasswordLength,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Params is one normalized provisioning request
type Params struct {
	Email   string
	Product string
	Name    string
}

// Result reports what provisioning did
type Result struct {
	UserID      uuid.UUID
	Email       string
	AccessLevel entitlement.AccessLevel
	Products    []string
	Created     bool
	EmailSent   bool
}

// Provision creates or updates the identity+profile pair for one payment
// event. Idempotent per (email, product): repeating a request converges on
// the same profile state.
func (s *Service) Provision(ctx context.Context, params Params) (Result, error) {
	if params.Email == "" {
		return Result{}, perrors.InvalidInput("email", "email is required")
	}

	ent, err := s.mapper.Resolve(params.Product)
	if err != nil {
		return Result{}, err
	}

	ident, found, err := identity.ResolveByEmail(ctx, s.provider, params.Email)
	if err != nil {
		return Result{}, perrors.InternalWrap(err, "failed to resolve account by email")
	}

	var created bool
	var tempPassword string

	if !found {
		tempPassword, err = GeneratePassword(s.passwordLength)
		if err != nil {
			return Result{}, perrors.InternalWrap(err, "failed to generate password")
		}

		ident, err = s.provider.CreateUser(ctx, identity.CreateUserParams{
			Email:          params.Email,
			Password:       tempPassword,
			EmailConfirmed: true,
		})
		switch {
		case err == nil:
			created = true
		case errors.Is(err, identity.ErrDuplicateEmail):
			// Race: another request created the identity between our scan
			// and the create call. Re-resolve and fall into the update path.
			slog.Info("Identity creation raced, re-resolving", "email", params.Email)
			var ok bool
			ident, ok, err = identity.ResolveByEmail(ctx, s.provider, params.Email)
			if err != nil {
				return Result{}, perrors.InternalWrap(err, "failed to re-resolve after duplicate email")
			}
			if !ok {
				return Result{}, perrors.New(perrors.ErrCodeConflict,
					"identity reported duplicate but could not be resolved")
			}
			tempPassword = ""
		default:
			return Result{}, perrors.Wrap(err, perrors.ErrCodeIdentityCreateFailed, "failed to create identity")
		}
	}

	stored, _, err := s.profiles.Upsert(ctx, profile.UpsertParams{
		ID:          ident.ID,
		Email:       params.Email,
		AccessLevel: ent.AccessLevel,
		Products:    ent.Products,
	})
	if err != nil {
		if created {
			// Compensate: do not leave an orphaned identity with no
			// profile. Best-effort; the request outcome stays Internal.
			if delErr := s.provider.DeleteUser(ctx, ident.ID); delErr != nil {
				slog.Error("Rollback of created identity failed",
					"id", ident.ID, "email", params.Email, "err", delErr)
			}
		}
		return Result{}, err
	}

	emailSent := s.notify(ctx, params, stored, created, tempPassword)

	return Result{
		UserID:      ident.ID,
		Email:       params.Email,
		AccessLevel: stored.AccessLevel,
		Products:    stored.Products,
		Created:     created,
		EmailSent:   emailSent,
	}, nil
}

func (s *Service) notify(ctx context.Context, params Params, stored profile.Profile, created bool, tempPassword string) bool {
	if created {
		return s.welcomeDispatcher.Dispatch(ctx, welcomeEmail(params, tempPassword))
	}
	return s.updateDispatcher.Dispatch(ctx, updateEmail(params, stored))
}

func welcomeEmail(params Params, tempPassword string) notification.Email {
	name := params.Name
	if name == "" {
		name = params.Email
	}
	return notification.Email{
		To:      params.Email,
		Subject: "Your account is ready",
		Html: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your account has been created.</p>"+
				"<p>Email: %s<br>Temporary password: <strong>%s</strong></p>"+
				"<p>Please sign in and change your password.</p>",
			name, params.Email, tempPassword),
		Text: fmt.Sprintf(
			"Hi %s,\n\nYour account has been created.\n\nEmail: %s\nTemporary password: %s\n\nPlease sign in and change your password.\n",
			name, params.Email, tempPassword),
	}
}

func updateEmail(params Params, stored profile.Profile) notification.Email {
	name := params.Name
	if name == "" {
		name = params.Email
	}
	return notification.Email{
		To:      params.Email,
		Subject: "Your purchase has been applied",
		Html: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your purchase has been applied to your existing account. You now have access to: %s.</p>",
			name, strings.Join(stored.Products, ", ")),
		Text: fmt.Sprintf(
			"Hi %s,\n\nYour purchase has been applied to your existing account. You now have access to: %s.\n",
			name, strings.Join(stored.Products, ", ")),
	}
}
