//go:build integration_test || all_tests

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testingpkg "github.com/2beens/newsroom/pkg/testing"
)

func TestRepo_PasswordResets(t *testing.T) {
	ctx := context.Background()
	pool := testingpkg.GetDBPool(t)
	repo := NewRepo(pool)

	username := gofakeit.Username()
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM password_resets WHERE username = $1`, username)
	})

	createdAt := time.Now().UTC().Truncate(time.Microsecond)
	expiresAt := createdAt.Add(DefaultOTPTTL)
	first := &PasswordReset{Username: username, OTPHash: "same-hash", ExpiresAt: expiresAt, CreatedAt: createdAt}
	second := &PasswordReset{Username: username, OTPHash: "same-hash", ExpiresAt: expiresAt, CreatedAt: createdAt}
	require.NoError(t, repo.CreatePasswordReset(ctx, first))
	require.NoError(t, repo.CreatePasswordReset(ctx, second))
	require.Greater(t, second.ID, first.ID)

	// same created_at, the newer row wins
	latest, err := repo.LatestPasswordReset(ctx, username, "same-hash")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	_, err = repo.LatestPasswordReset(ctx, username, "other-hash")
	assert.ErrorIs(t, err, ErrPasswordResetNotFound)

	// not yet expired one microsecond before, expired at the instant itself
	deleted, err := repo.DeleteExpiredPasswordResets(ctx, username, "same-hash", expiresAt.Add(-time.Microsecond))
	require.NoError(t, err)
	assert.Zero(t, deleted)
	deleted, err = repo.DeleteExpiredPasswordResets(ctx, username, "same-hash", expiresAt)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)
}
