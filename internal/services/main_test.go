package services

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	passwordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

var errStoreDown = errors.New("store unavailable")

// flakyUsers fails FindByID for the listed ids.
type flakyUsers struct {
	repository.UserRepository
	failing map[string]bool
}

func (f *flakyUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	if f.failing[id] {
		return nil, errStoreDown
	}
	return f.UserRepository.FindByID(ctx, id)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func strPtr(s string) *string { return &s }
