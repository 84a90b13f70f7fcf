package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-api/internal/constants"
	"github.com/yukikurage/team-task-api/internal/repository"
	"github.com/yukikurage/team-task-api/internal/testutil"
	"github.com/yukikurage/team-task-api/internal/token"
)

func newAuthService(t *testing.T) (*AuthService, *token.Service) {
	db := testutil.NewTestDB(t)
	tokens := token.NewService("test-secret", 10*time.Minute)
	return NewAuthService(repository.NewUserRepository(db), tokens), tokens
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, tokens := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: "alice@example.com", Username: "alice", Password: "pw123456"})
	require.NoError(t, err)
	assert.Equal(t, constants.RoleRegular, user.Role)
	assert.NotEqual(t, "pw123456", user.PasswordHash)
	assert.NotNil(t, user.LastLoginAt)

	result, err := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "pw123456"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)

	claims, err := tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Username: "", Password: "x"})
	assert.ErrorIs(t, err, ErrRegistrationFieldsRequired)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@example.com", Username: "a", Password: "x"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@example.com", Username: "other", Password: "x"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(ctx, RegisterInput{Email: "b@example.com", Username: "a", Password: "x"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "alice@example.com", Username: "alice", Password: "right"})
	require.NoError(t, err)

	_, unknownErr := svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "right"})
	_, wrongErr := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrong"})

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestAuthService_LoginRecordsLastLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	registeredAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loginAt := registeredAt.Add(48 * time.Hour)

	svc.now = func() time.Time { return registeredAt }
	user, err := svc.Register(ctx, RegisterInput{Email: "alice@example.com", Username: "alice", Password: "pw"})
	require.NoError(t, err)

	svc.now = func() time.Time { return loginAt }
	_, err = svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	reloaded, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLoginAt)
	assert.True(t, loginAt.Equal(*reloaded.LastLoginAt))

	_, err = svc.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
