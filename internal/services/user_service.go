package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/team-task-api/internal/constants"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
)

var (
	ErrNoUsers                = errors.New("no users registered")
	ErrUserFieldsRequired     = errors.New("username, email and password are required")
	ErrCannotDeleteOwnAccount = errors.New("you cannot delete your own account")
)

// UserService implements user administration.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns every user, or ErrNoUsers when there are none.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrNoUsers
	}
	return users, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return findUser(ctx, s.userRepo, id)
}

// CreateUserInput represents an administrator-created account.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     int
	Avatar   string
}

// CreateUser creates an account. Email uniqueness is checked before username.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return nil, ErrUserFieldsRequired
	}

	if err := ensureEmailAvailable(ctx, s.userRepo, email); err != nil {
		return nil, err
	}
	if err := ensureUsernameAvailable(ctx, s.userRepo, username); err != nil {
		return nil, err
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == 0 {
		role = constants.RoleRegular
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
		Avatar:       input.Avatar,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// UpdateUserInput carries the fields to change. Nil means unchanged.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	Role     *int
	Avatar   *string
}

// UpdateUser applies a partial update. Empty username, email or password
// values are ignored; role is applied whenever present.
func (s *UserService) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*models.User, error) {
	user, err := findUser(ctx, s.userRepo, id)
	if err != nil {
		return nil, err
	}

	if input.Username != nil && *input.Username != "" {
		if *input.Username != user.Username {
			if err := ensureUsernameAvailable(ctx, s.userRepo, *input.Username); err != nil {
				return nil, err
			}
		}
		user.Username = *input.Username
	}

	if input.Email != nil && *input.Email != "" {
		if *input.Email != user.Email {
			if err := ensureEmailAvailable(ctx, s.userRepo, *input.Email); err != nil {
				return nil, err
			}
		}
		user.Email = *input.Email
	}

	if input.Password != nil && *input.Password != "" {
		hashedPassword, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashedPassword
	}

	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes an account other than the caller's own.
func (s *UserService) DeleteUser(ctx context.Context, id, actingUserID string) error {
	if id == actingUserID {
		return ErrCannotDeleteOwnAccount
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
