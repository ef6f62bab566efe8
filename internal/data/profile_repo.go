package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/cidade-conectada/reports-api/internal/data/pgxutil"
	domainauth "github.com/cidade-conectada/reports-api/internal/domain/auth"
	"github.com/cidade-conectada/reports-api/internal/domain/model"
)

// ProfileRepo provides database operations for user profiles.
type ProfileRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewProfileRepo creates a new ProfileRepo with real time provider.
func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewProfileRepoWithTimeProvider creates a new ProfileRepo with a custom time provider (useful for tests).
func NewProfileRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ProfileRepo {
	return &ProfileRepo{DB: db, timeProvider: tp}
}

// GetByUserID retrieves the profile for a user.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	var out model.Profile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, profileGetByUserIDQuery, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Profile])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile by user ID: %w", err)
	}
	return &out, nil
}

// EnsureExists creates the profile with the default role when it is missing
// and returns the stored row. The insert uses ON CONFLICT DO NOTHING followed
// by a re-read, so concurrent first logins for the same user all converge on
// the single row that won the insert.
func (r *ProfileRepo) EnsureExists(ctx context.Context, userID string) (*model.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("user ID is required")
	}

	now := r.timeProvider.Now().UTC()
	var out model.Profile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		if _, err := conn.Exec(ctx, profileInsertDefaultQuery, userID, domainauth.RoleUser, now); err != nil {
			return err
		}
		// Re-read unconditionally: whether this call or a concurrent one
		// inserted the row, the stored role is authoritative.
		rows, err := conn.Query(ctx, profileGetByUserIDQuery, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Profile])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure profile exists: %w", err)
	}
	return &out, nil
}

// SetRole updates the role for a user profile. Intended for seeding and
// administrative tooling, not request handling.
func (r *ProfileRepo) SetRole(
	ctx context.Context,
	userID string,
	role domainauth.Role,
) (*model.Profile, error) {
	var out model.Profile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, profileSetRoleQuery, userID, role, r.timeProvider.Now().UTC())
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Profile])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to set profile role: %w", err)
	}
	return &out, nil
}

// SQL query constants for static queries (no dynamic WHERE/ORDER BY).
const (
	profileGetByUserIDQuery = `
		SELECT user_id, role, created_at, updated_at
		FROM profiles
		WHERE user_id = $1`

	profileInsertDefaultQuery = `
		INSERT INTO profiles (user_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO NOTHING`

	profileSetRoleQuery = `
		UPDATE profiles
		SET role = $2, updated_at = $3
		WHERE user_id = $1
		RETURNING user_id, role, created_at, updated_at`
)
