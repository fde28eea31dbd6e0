package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	authdomain "github.com/Apurer/go-gin-ecommerce-api/internal/domains/auth/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/domain"
	"github.com/Apurer/go-gin-ecommerce-api/internal/domains/users/ports"
	"github.com/Apurer/go-gin-ecommerce-api/internal/shared/pagination"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	copy := *user
	f.users[user.ID] = &copy
	return &copy, nil
}

func (f *fakeUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := f.users[user.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	copy := *user
	f.users[user.ID] = &copy
	return &copy, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (f *fakeUserRepo) ExistsByEmailOrPhone(_ context.Context, email string, phone int64, exclude uuid.UUID) (bool, error) {
	for id, u := range f.users {
		if id != exclude && (u.Email == email || u.Phone == phone) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return ports.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, _, _ int) ([]*domain.User, int64, error) {
	var list []*domain.User
	for _, u := range f.users {
		copy := *u
		list = append(list, &copy)
	}
	return list, int64(len(list)), nil
}

type fakeOrderLookup map[uuid.UUID]bool

func (f fakeOrderLookup) UserHasOrders(_ context.Context, id uuid.UUID) (bool, error) {
	return f[id], nil
}

func seedUser(t *testing.T, repo *fakeUserRepo, email string, phone int64) *domain.User {
	t.Helper()
	user, err := domain.NewUser(domain.Profile{
		Name:    "Test User",
		Email:   email,
		Phone:   phone,
		Country: "Argentina",
		City:    "Cordoba",
		Address: "Street 123",
	}, "hash")
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func principalFor(u *domain.User) authdomain.Principal {
	return authdomain.Principal{UserID: u.ID, Email: u.Email, Role: u.Role()}
}

func ptr[T any](v T) *T { return &v }

func TestUpdate_OwnerChangesProfile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)
	alice := seedUser(t, repo, "alice@example.com", 111)

	id, err := svc.Update(context.Background(), alice.ID, ports.UpdateInput{City: ptr("Rosario")}, principalFor(alice))
	require.NoError(t, err)
	require.Equal(t, alice.ID, id)

	stored, err := repo.GetByID(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Equal(t, "Rosario", stored.City)
}

func TestUpdate_RejectsOtherUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)
	alice := seedUser(t, repo, "alice@example.com", 111)
	bob := seedUser(t, repo, "bob@example.com", 222)

	_, err := svc.Update(context.Background(), alice.ID, ports.UpdateInput{City: ptr("Rosario")}, principalFor(bob))
	require.ErrorIs(t, err, authdomain.ErrUnauthorized)
}

func TestUpdate_UserCannotPromoteSelf(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)
	alice := seedUser(t, repo, "alice@example.com", 111)

	_, err := svc.Update(context.Background(), alice.ID, ports.UpdateInput{IsAdmin: ptr(true)}, principalFor(alice))
	require.ErrorIs(t, err, authdomain.ErrUnauthorized)
}

func TestUpdate_AdminPromotesUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)
	alice := seedUser(t, repo, "alice@example.com", 111)
	admin := authdomain.Principal{UserID: uuid.New(), Role: authdomain.RoleAdmin}

	_, err := svc.Update(context.Background(), alice.ID, ports.UpdateInput{IsAdmin: ptr(true)}, admin)
	require.NoError(t, err)
	stored, _ := repo.GetByID(context.Background(), alice.ID)
	require.True(t, stored.IsAdmin)
}

func TestUpdate_EmailTaken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)
	alice := seedUser(t, repo, "alice@example.com", 111)
	seedUser(t, repo, "bob@example.com", 222)

	_, err := svc.Update(context.Background(), alice.ID, ports.UpdateInput{Email: ptr("bob@example.com")}, principalFor(alice))
	require.ErrorIs(t, err, ports.ErrConflict)
}

func TestUpdate_InvalidCity(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)
	alice := seedUser(t, repo, "alice@example.com", 111)

	_, err := svc.Update(context.Background(), alice.ID, ports.UpdateInput{City: ptr("BA")}, principalFor(alice))
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidCity)
}

func TestDelete(t *testing.T) {
	repo := newFakeUserRepo()
	alice := seedUser(t, repo, "alice@example.com", 111)
	bob := seedUser(t, repo, "bob@example.com", 222)
	svc := NewService(repo, WithOrderLookup(fakeOrderLookup{bob.ID: true}))

	_, err := svc.Delete(context.Background(), alice.ID, principalFor(bob))
	require.ErrorIs(t, err, authdomain.ErrUnauthorized)

	_, err = svc.Delete(context.Background(), bob.ID, principalFor(bob))
	require.ErrorIs(t, err, ports.ErrHasOrders)

	id, err := svc.Delete(context.Background(), alice.ID, principalFor(alice))
	require.NoError(t, err)
	require.Equal(t, alice.ID, id)

	_, err = svc.GetByID(context.Background(), alice.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestList(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)
	seedUser(t, repo, "alice@example.com", 111)

	users, err := svc.List(context.Background(), pagination.Default())
	require.NoError(t, err)
	require.Len(t, users, 1)
}
