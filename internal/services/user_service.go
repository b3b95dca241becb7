package services

import (
	"context"
	"errors"
	"fmt"

	"cafeconnect/internal/models"
	"cafeconnect/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles business logic for user accounts. Every user it returns has
// the password hash stripped.
type UserService struct {
	repo  repositories.UserRepository
	users catalog[models.User, *models.User]
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository) *UserService {
	s := &UserService{repo: repo}
	s.users = catalog[models.User, *models.User]{
		repo:     repo,
		newDoc:   models.NewUser,
		finalize: s.finalize,
	}
	return s
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// finalize enforces email uniqueness and hashes a newly supplied password. A password
// equal to the stored hash was carried over by a partial update and is kept as is.
func (s *UserService) finalize(ctx context.Context, u, existing *models.User) error {
	other, err := s.repo.GetByEmail(ctx, u.Email)
	switch {
	case err == nil && other.ID != u.ID:
		return fmt.Errorf("user with email %s %w", u.Email, repositories.ErrDuplicate)
	case err != nil && !errors.Is(err, repositories.ErrNotFound):
		return err
	}

	if existing != nil && u.Password == existing.Password {
		return nil
	}
	hashed, err := HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.list(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Public()
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return public(s.users.get(ctx, id))
}

func (s *UserService) CreateUser(ctx context.Context, decode Decoder) (*models.User, error) {
	return public(s.users.create(ctx, decode))
}

// InsertUser stores a user built in code. u.Password is the plain-text password.
func (s *UserService) InsertUser(ctx context.Context, u *models.User) (*models.User, error) {
	return public(s.users.insert(ctx, u))
}

func (s *UserService) UpdateUser(ctx context.Context, id string, mode UpdateMode, decode Decoder) (*models.User, error) {
	return public(s.users.update(ctx, id, mode, decode))
}

func (s *UserService) DeleteUser(ctx context.Context, id string) (*models.User, error) {
	return public(s.users.remove(ctx, id))
}

func public(u *models.User, err error) (*models.User, error) {
	if err != nil {
		return nil, err
	}
	out := u.Public()
	return &out, nil
}
