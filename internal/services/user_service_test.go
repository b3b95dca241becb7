package services_test

import (
	"context"
	"testing"

	"cafeconnect/internal/models"
	"cafeconnect/internal/repositories"
	"cafeconnect/internal/services"
	"cafeconnect/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func storedPassword(t *testing.T, repo repositories.UserRepository, id string) string {
	t.Helper()
	u, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return u.Password
}

func TestUserService_CreateHashesPassword(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemory().Users()
	svc := services.NewUserService(repo)

	user, err := svc.CreateUser(ctx, body(`{"name":"Jane","email":" Jane@Example.com ","password":"user123"}`))
	require.NoError(t, err)

	assert.Empty(t, user.Password, "hash never leaves the service")
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.True(t, user.IsActive)

	hash := storedPassword(t, repo, user.ID)
	assert.NotEqual(t, "user123", hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("user123")))
}

func TestUserService_EmailUnique(t *testing.T) {
	ctx := context.Background()
	svc := services.NewUserService(store.NewMemory().Users())

	_, err := svc.CreateUser(ctx, body(`{"name":"Jane","email":"jane@example.com","password":"user123"}`))
	require.NoError(t, err)
	other, err := svc.CreateUser(ctx, body(`{"name":"John","email":"john@example.com","password":"user123"}`))
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, body(`{"name":"Jane 2","email":"JANE@example.com","password":"user123"}`))
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	_, err = svc.UpdateUser(ctx, other.ID, services.UpdatePartial, body(`{"email":"jane@example.com"}`))
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
}

func TestUserService_UpdatePassword(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemory().Users()
	svc := services.NewUserService(repo)

	user, err := svc.CreateUser(ctx, body(`{"name":"Jane","email":"jane@example.com","password":"user123"}`))
	require.NoError(t, err)
	original := storedPassword(t, repo, user.ID)

	// omitted on PATCH: the stored hash is kept
	patched, err := svc.UpdateUser(ctx, user.ID, services.UpdatePartial, body(`{"phone":"0812"}`))
	require.NoError(t, err)
	assert.Equal(t, "0812", patched.Phone)
	assert.Empty(t, patched.Password)
	assert.Equal(t, original, storedPassword(t, repo, user.ID))

	// supplied on PATCH: re-hashed
	_, err = svc.UpdateUser(ctx, user.ID, services.UpdatePartial, body(`{"password":"secret99"}`))
	require.NoError(t, err)
	rehashed := storedPassword(t, repo, user.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(rehashed), []byte("secret99")))

	// omitted on PUT: required
	_, err = svc.UpdateUser(ctx, user.ID, services.UpdateFull, body(`{"name":"Jane","email":"jane@example.com"}`))
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.UpdateUser(ctx, user.ID, services.UpdateFull, body(`{"name":"Jane","email":"jane@example.com","password":"abc"}`))
	assert.ErrorIs(t, err, services.ErrValidation, "minimum length applies to the plain-text password")
}

func TestUserService_ListAndDeleteArePublic(t *testing.T) {
	ctx := context.Background()
	svc := services.NewUserService(store.NewMemory().Users())

	created, err := svc.InsertUser(ctx, &models.User{Name: "Admin", Email: "admin@cafeconnect.com", Password: "admin123", Role: models.RoleAdmin, IsActive: true})
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Empty(t, users[0].Password)

	got, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Password)

	deleted, err := svc.DeleteUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, deleted.Password)
	assert.Equal(t, models.RoleAdmin, deleted.Role)
}
