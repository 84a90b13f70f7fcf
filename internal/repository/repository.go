package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/team-task-api/internal/models"
)

// ErrNotFound is returned by every backend when a point read or a
// mutation targets a record that does not exist.
var ErrNotFound = errors.New("record not found")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// List returns every user
	List(ctx context.Context) ([]models.User, error)

	// SearchByPrefix returns up to limit users whose field starts with prefix.
	// field is one of UserFieldUsername or UserFieldEmail.
	SearchByPrefix(ctx context.Context, field UserSearchField, prefix string, limit int) ([]models.User, error)

	// Update persists all fields of an existing user
	Update(ctx context.Context, user *models.User) error

	// TouchLastLogin records a successful login
	TouchLastLogin(ctx context.Context, id string, at time.Time) error

	// Delete removes a user
	Delete(ctx context.Context, id string) error
}

// UserSearchField names a user field that supports prefix search
type UserSearchField string

const (
	UserFieldUsername UserSearchField = "username"
	UserFieldEmail    UserSearchField = "email"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// ListByGroup lists the non-personal tasks of a group
	ListByGroup(ctx context.Context, groupID string) ([]models.Task, error)

	// ListPersonal lists the personal tasks created by a user
	ListPersonal(ctx context.Context, creatorID string) ([]models.Task, error)

	// ListInvolving lists tasks created by or assigned to a user, newest first
	ListInvolving(ctx context.Context, userID string) ([]models.Task, error)

	// Update persists all fields of an existing task
	Update(ctx context.Context, task *models.Task) error

	// Delete removes a task
	Delete(ctx context.Context, id string) error
}

// TeamRepository defines the interface for team data access.
// Returned teams always have MemberIDs populated.
type TeamRepository interface {
	// Create creates a team together with its membership
	Create(ctx context.Context, team *models.Team) error

	// FindByID finds a team by ID
	FindByID(ctx context.Context, id string) (*models.Team, error)

	// ListByMember lists the teams a user belongs to
	ListByMember(ctx context.Context, userID string) ([]models.Team, error)

	// Update replaces team fields and its whole membership list
	Update(ctx context.Context, team *models.Team) error

	// Delete removes a team and its membership
	Delete(ctx context.Context, id string) error
}

// Store bundles the repositories of one backend.
type Store struct {
	Users UserRepository
	Tasks TaskRepository
	Teams TeamRepository

	// Ping reports whether the backend is reachable
	Ping func(ctx context.Context) error

	// Close releases backend resources
	Close func(ctx context.Context) error
}

// PrefixUpperBound returns the inclusive upper bound of a prefix range scan.
func PrefixUpperBound(prefix string) string {
	return prefix + "\uf8ff"
}
