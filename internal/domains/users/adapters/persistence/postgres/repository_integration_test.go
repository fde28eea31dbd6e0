//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/ports"
	"github.com/Apurer/go-gin-ecommerce-api/internal/platform/postgres/pgtest"
)

func newUser(t *testing.T, email string, phone int64) *domain.User {
	t.Helper()
	user, err := domain.NewUser(domain.Profile{
		Name:    "Alice Doe",
		Email:   email,
		Phone:   phone,
		Country: "Argentina",
		City:    "Cordoba",
		Address: "Street 123",
	}, "$2a$10$hash")
	require.NoError(t, err)
	return user
}

func TestRepository_CreateAndLookup(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	saved, err := repo.Create(ctx, newUser(t, "alice@example.com", 3511111111))
	require.NoError(t, err)
	assert.False(t, saved.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, byEmail.ID)
	assert.Equal(t, "$2a$10$hash", byEmail.PasswordHash)

	exists, err := repo.ExistsByEmailOrPhone(ctx, "other@example.com", 3511111111, uuid.Nil)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ExistsByEmailOrPhone(ctx, "alice@example.com", 1, saved.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.Create(ctx, newUser(t, "alice@example.com", 3512222222))
	assert.ErrorIs(t, err, ports.ErrConflict)
}

func TestRepository_SaveListDelete(t *testing.T) {
	repo := NewRepository(pgtest.Start(t))
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 1; i <= 3; i++ {
		user, err := repo.Create(ctx, newUser(t, fmt.Sprintf("user%d@example.com", i), int64(3510000000+i)))
		require.NoError(t, err)
		ids = append(ids, user.ID)
	}

	user, err := repo.GetByID(ctx, ids[0])
	require.NoError(t, err)
	user.City = "Rosario"
	user.IsAdmin = true
	updated, err := repo.Save(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "Rosario", updated.City)
	assert.True(t, updated.IsAdmin)

	users, total, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, users, 2)

	require.NoError(t, repo.Delete(ctx, ids[1]))
	_, err = repo.GetByID(ctx, ids[1])
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, ids[1]), ports.ErrNotFound)
}
