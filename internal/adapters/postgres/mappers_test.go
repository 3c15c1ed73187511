package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viralforge/mesh/services/core-platform/auth-service/internal/domain"
)

func TestToDomainUser_NeverCarriesSecret(t *testing.T) {
	t.Parallel()
	user, err := toDomainUser(userModel{
		Email:             "ada@example.com",
		PasswordHash:      "$2a$12$abcdefghijklmnopqrstuv",
		RequiresTwoFactor: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email.String())
	assert.True(t, user.RequiresTwoFactor)
	assert.Equal(t, domain.Password{}, user.Password)
}

func TestToDomainUser_CorruptEmailIsUnexpected(t *testing.T) {
	t.Parallel()
	_, err := toDomainUser(userModel{Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrUnexpected)
}
