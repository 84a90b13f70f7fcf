package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/team-task-api/internal/constants"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
	"golang.org/x/sync/errgroup"
)

// MemberResolver turns user ids into user records with concurrent point reads.
// A lookup that fails drops that id from the result instead of failing the call.
type MemberResolver struct {
	userRepo    repository.UserRepository
	concurrency int
	log         logrus.FieldLogger
}

// NewMemberResolver creates a MemberResolver running at most concurrency
// lookups at once.
func NewMemberResolver(userRepo repository.UserRepository, concurrency int, log logrus.FieldLogger) *MemberResolver {
	if concurrency < 1 {
		concurrency = constants.DefaultMemberLookupConcurrency
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &MemberResolver{
		userRepo:    userRepo,
		concurrency: concurrency,
		log:         log,
	}
}

// Resolve returns the users for ids in first-occurrence order, skipping
// duplicates, missing users and failed lookups.
func (r *MemberResolver) Resolve(ctx context.Context, ids []string) []models.User {
	unique := uniqueIDs(ids)
	found := r.lookup(ctx, unique)

	users := make([]models.User, 0, len(unique))
	for _, user := range found {
		if user != nil {
			users = append(users, *user)
		}
	}
	return users
}

// Usernames maps each resolvable id to its username.
func (r *MemberResolver) Usernames(ctx context.Context, ids []string) map[string]string {
	unique := uniqueIDs(ids)
	found := r.lookup(ctx, unique)

	names := make(map[string]string, len(unique))
	for i, user := range found {
		if user != nil {
			names[unique[i]] = user.Username
		}
	}
	return names
}

func (r *MemberResolver) lookup(ctx context.Context, ids []string) []*models.User {
	results := make([]*models.User, len(ids))
	if len(ids) == 0 {
		return results
	}

	var eg errgroup.Group
	eg.SetLimit(r.concurrency)

	for i, id := range ids {
		i, id := i, id
		eg.Go(func() error {
			user, err := r.userRepo.FindByID(ctx, id)
			if err != nil {
				if !errors.Is(err, repository.ErrNotFound) {
					r.log.WithError(err).WithField("user_id", id).Warn("member lookup failed")
				}
				return nil
			}
			// Each goroutine owns its slot.
			results[i] = user
			return nil
		})
	}

	_ = eg.Wait()
	return results
}

// uniqueIDs drops blanks and repeats, keeping first-occurrence order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
