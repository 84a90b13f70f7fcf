package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/team-task-api/internal/constants"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
	"github.com/yukikurage/team-task-api/internal/token"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrRegistrationFieldsRequired = errors.New("email, username and password are required")
	ErrEmailTaken                 = errors.New("email already registered")
	ErrUsernameTaken              = errors.New("username already exists")
	ErrInvalidCredentials         = errors.New("invalid credentials")
	ErrUserNotFound               = errors.New("user not found")
	ErrFailedToHashPassword       = errors.New("failed to hash password")
	ErrFailedToIssueToken         = errors.New("failed to issue token")
)

// passwordCost is lowered by tests.
var passwordCost = bcrypt.DefaultCost

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *token.Service
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *token.Service) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		now:      time.Now,
	}
}

// RegisterInput represents the required information to create a new account.
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// Register creates a regular account. It does not log the user in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := strings.TrimSpace(input.Email)
	username := strings.TrimSpace(input.Username)
	if email == "" || username == "" || input.Password == "" {
		return nil, ErrRegistrationFieldsRequired
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

	now := s.now()
	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         constants.RoleRegular,
		LastLoginAt:  &now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is a signed token plus the authenticated user.
type LoginResult struct {
	Token string
	User  *models.User
}

// Login verifies credentials, records the login and issues a bearer token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	user.LastLoginAt = &now

	signed, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, ErrFailedToIssueToken
	}

	return &LoginResult{Token: signed, User: user}, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return findUser(ctx, s.userRepo, id)
}

func findUser(ctx context.Context, users repository.UserRepository, id string) (*models.User, error) {
	user, err := users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func ensureEmailAvailable(ctx context.Context, users repository.UserRepository, email string) error {
	if _, err := users.FindByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	return nil
}

func ensureUsernameAvailable(ctx context.Context, users repository.UserRepository, username string) error {
	if _, err := users.FindByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", ErrFailedToHashPassword
	}
	return string(hashed), nil
}
