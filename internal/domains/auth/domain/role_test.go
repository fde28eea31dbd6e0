package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	require.NoError(t, Authorize(Principal{UserID: owner, Role: RoleUser}, owner))
	require.ErrorIs(t, Authorize(Principal{UserID: other, Role: RoleUser}, owner), ErrUnauthorized)
	require.NoError(t, Authorize(Principal{UserID: other, Role: RoleAdmin}, owner))
	require.ErrorIs(t, Authorize(Principal{}, uuid.Nil), ErrUnauthorized)
}

func TestRequireRole(t *testing.T) {
	require.NoError(t, RequireRole(Principal{Role: RoleAdmin}, RoleAdmin))
	require.ErrorIs(t, RequireRole(Principal{Role: RoleUser}, RoleAdmin), ErrUnauthorized)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Admin ")
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, r)

	_, err = ParseRole("superuser")
	require.ErrorIs(t, err, ErrInvalidRole)

	require.Equal(t, RoleUser, RoleFor(false))
}
