package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db DBTX
}

// NewPostgresRepository creates a new PostgreSQL profile repository
func NewPostgresRepository(db DBTX) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// Get retrieves a profile by identity id
func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (Profile, error) {
	query := `
		SELECT id, email, access_level, products, is_active, created_at, updated_at, created_by
		FROM profiles
		WHERE id = $1
	`

	var profile Profile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.Email,
		&profile.AccessLevel,
		&profile.Products,
		&profile.IsActive,
		&profile.CreatedAt,
		&profile.UpdatedAt,
		&profile.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrProfileNotFound
		}
		return Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// Insert creates a new profile row
func (r *PostgresRepository) Insert(ctx context.Context, profile Profile) error {
	query := `
		INSERT INTO profiles (id, email, access_level, products, is_active, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		profile.ID,
		profile.Email,
		profile.AccessLevel,
		profile.Products,
		profile.IsActive,
		profile.CreatedAt,
		profile.UpdatedAt,
		profile.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of an existing profile row.
// created_at and created_by are insert-only and never touched here.
func (r *PostgresRepository) Update(ctx context.Context, profile Profile) error {
	query := `
		UPDATE profiles
		SET email = $2, access_level = $3, products = $4, is_active = $5, updated_at = $6
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query,
		profile.ID,
		profile.Email,
		profile.AccessLevel,
		profile.Products,
		profile.IsActive,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}
