package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/cidade-conectada/reports-api/internal/domain/auth"
	"github.com/cidade-conectada/reports-api/internal/testutil"
)

func TestProfileRepo_EnsureExists_CreatesWithDefaultRole(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewProfileRepo(db)

		userID := fmt.Sprintf("user-%d", time.Now().UnixNano())

		p, err := repo.EnsureExists(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, userID, p.UserID)
		assert.Equal(t, domainauth.RoleUser, p.Role)
		assert.NotZero(t, p.CreatedAt)

		// second call is a no-op read
		again, err := repo.EnsureExists(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, p.UserID, again.UserID)
		assert.Equal(t, p.Role, again.Role)
	})
}

func TestProfileRepo_EnsureExists_PreservesExistingRole(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewProfileRepo(db)

		userID := fmt.Sprintf("admin-%d", time.Now().UnixNano())
		_, err := repo.EnsureExists(ctx, userID)
		require.NoError(t, err)
		_, err = repo.SetRole(ctx, userID, domainauth.RoleAdmin)
		require.NoError(t, err)

		// EnsureExists must not reset an already elevated role
		p, err := repo.EnsureExists(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, domainauth.RoleAdmin, p.Role)
	})
}

func TestProfileRepo_EnsureExists_ConcurrentFirstLogin(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewProfileRepo(db)
		userID := fmt.Sprintf("race-%d", time.Now().UnixNano())

		runner := testutil.NewConcurrentTestRunner(t, db)
		const workers = 8
		funcs := make([]func() error, workers)
		for i := range funcs {
			funcs[i] = func() error {
				p, err := repo.EnsureExists(ctx, userID)
				if err != nil {
					return err
				}
				if p.Role != domainauth.RoleUser {
					return fmt.Errorf("unexpected role %q", p.Role)
				}
				return nil
			}
		}
		runner.AssertNoErrors(runner.RunConcurrent(funcs...))

		// exactly one row survives
		var count int
		require.NoError(t, db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM profiles WHERE user_id = $1", userID).Scan(&count))
		assert.Equal(t, 1, count)
	})
}

func TestProfileRepo_GetByUserID_NotFound(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewProfileRepo(db)
		_, err := repo.GetByUserID(context.Background(), "no-such-user")
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}

func TestProfileRepo_SetRole_NotFound(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewProfileRepo(db)
		_, err := repo.SetRole(context.Background(), "no-such-user", domainauth.RoleAdmin)
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}
