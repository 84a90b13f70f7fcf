package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
	"github.com/yukikurage/team-task-api/internal/testutil"
	"gorm.io/gorm"
)

type TeamServiceTestSuite struct {
	suite.Suite
	db    *gorm.DB
	svc   *TeamService
	ctx   context.Context
	alice *models.User
	bob   *models.User
	carol *models.User
}

func (s *TeamServiceTestSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.ctx = context.Background()
	users := repository.NewUserRepository(s.db)
	s.svc = NewTeamService(repository.NewTeamRepository(s.db), users, NewMemberResolver(users, 2, quietLogger()))
	s.alice = testutil.CreateUser(s.T(), s.db, "alice", "alice@example.com")
	s.bob = testutil.CreateUser(s.T(), s.db, "bob", "bob@example.com")
	s.carol = testutil.CreateUser(s.T(), s.db, "carol", "carol@example.com")
}

func (s *TeamServiceTestSuite) TestCreateTeamAddsCreatorOnce() {
	_, err := s.svc.CreateTeam(s.ctx, CreateTeamInput{Name: " ", CreatorID: s.alice.ID})
	s.ErrorIs(err, ErrTeamNameRequired)

	team, err := s.svc.CreateTeam(s.ctx, CreateTeamInput{
		Name:      "core",
		Members:   []string{s.bob.ID, s.bob.ID, s.alice.ID},
		Tags:      []string{"backend", " "},
		CreatorID: s.alice.ID,
	})
	s.Require().NoError(err)
	s.Equal([]string{s.bob.ID, s.alice.ID}, team.MemberIDs)
	s.Equal([]string{"backend"}, team.Tags)

	solo, err := s.svc.CreateTeam(s.ctx, CreateTeamInput{Name: "solo", CreatorID: s.carol.ID})
	s.Require().NoError(err)
	s.Equal([]string{s.carol.ID}, solo.MemberIDs)
}

func (s *TeamServiceTestSuite) TestGetTeamRequiresMembership() {
	team, err := s.svc.CreateTeam(s.ctx, CreateTeamInput{Name: "core", Members: []string{s.bob.ID}, CreatorID: s.alice.ID})
	s.Require().NoError(err)

	_, err = s.svc.GetTeam(s.ctx, "missing", s.alice.ID)
	s.ErrorIs(err, ErrTeamNotFound)

	_, err = s.svc.GetTeam(s.ctx, team.ID, s.carol.ID)
	s.ErrorIs(err, ErrNotTeamMember)

	details, err := s.svc.GetTeam(s.ctx, team.ID, s.bob.ID)
	s.Require().NoError(err)
	s.Require().Len(details.Members, 2)
	s.Equal("bob", details.Members[0].Username)
	s.Equal("alice", details.Members[1].Username)

	_, err = s.svc.ListTeamMembers(s.ctx, team.ID, s.carol.ID)
	s.ErrorIs(err, ErrNotTeamMember)

	members, err := s.svc.ListTeamMembers(s.ctx, team.ID, s.alice.ID)
	s.Require().NoError(err)
	s.Len(members, 2)
}

func (s *TeamServiceTestSuite) TestListTeamsDropsMissingMembers() {
	_, err := s.svc.CreateTeam(s.ctx, CreateTeamInput{Name: "a", Members: []string{s.bob.ID, "ghost"}, CreatorID: s.alice.ID})
	s.Require().NoError(err)
	_, err = s.svc.CreateTeam(s.ctx, CreateTeamInput{Name: "b", Members: []string{s.bob.ID}, CreatorID: s.carol.ID})
	s.Require().NoError(err)
	_, err = s.svc.CreateTeam(s.ctx, CreateTeamInput{Name: "c", CreatorID: s.carol.ID})
	s.Require().NoError(err)

	teams, err := s.svc.ListTeams(s.ctx, s.bob.ID)
	s.Require().NoError(err)
	s.Require().Len(teams, 2)

	for _, details := range teams {
		for _, member := range details.Members {
			s.NotEqual("ghost", member.ID)
		}
		if details.Team.Name == "a" {
			s.Len(details.Team.MemberIDs, 3)
			s.Len(details.Members, 2)
		}
	}
}

func (s *TeamServiceTestSuite) TestUpdateTeam() {
	team, err := s.svc.CreateTeam(s.ctx, CreateTeamInput{Name: "core", Tags: []string{"x"}, CreatorID: s.alice.ID})
	s.Require().NoError(err)

	_, err = s.svc.UpdateTeam(s.ctx, "missing", s.alice.ID, UpdateTeamInput{})
	s.ErrorIs(err, ErrTeamMembersRequired, "members are validated before the lookup")

	_, err = s.svc.UpdateTeam(s.ctx, "missing", s.alice.ID, UpdateTeamInput{Members: []string{s.bob.ID}})
	s.ErrorIs(err, ErrTeamNotFound)

	_, err = s.svc.UpdateTeam(s.ctx, team.ID, s.bob.ID, UpdateTeamInput{Members: []string{s.bob.ID}})
	s.ErrorIs(err, ErrNotTeamCreator)

	updated, err := s.svc.UpdateTeam(s.ctx, team.ID, s.alice.ID, UpdateTeamInput{
		Name:    "core2",
		Members: []string{s.bob.ID, s.carol.ID, s.bob.ID},
	})
	s.Require().NoError(err)
	s.Equal([]string{s.bob.ID, s.carol.ID}, updated.MemberIDs)
	s.Equal([]string{"x"}, updated.Tags)

	// The creator dropped themselves and can no longer view the team.
	_, err = s.svc.GetTeam(s.ctx, team.ID, s.alice.ID)
	s.ErrorIs(err, ErrNotTeamMember)

	// They remain the creator and may still delete it.
	s.Require().NoError(s.svc.DeleteTeam(s.ctx, team.ID, s.alice.ID))
	_, err = s.svc.GetTeam(s.ctx, team.ID, s.bob.ID)
	s.ErrorIs(err, ErrTeamNotFound)
}

func (s *TeamServiceTestSuite) TestDeleteTeamIsCreatorOnly() {
	team, err := s.svc.CreateTeam(s.ctx, CreateTeamInput{Name: "core", Members: []string{s.bob.ID}, CreatorID: s.alice.ID})
	s.Require().NoError(err)

	s.ErrorIs(s.svc.DeleteTeam(s.ctx, team.ID, s.bob.ID), ErrNotTeamCreator)
	s.ErrorIs(s.svc.DeleteTeam(s.ctx, "missing", s.alice.ID), ErrTeamNotFound)
	s.Require().NoError(s.svc.DeleteTeam(s.ctx, team.ID, s.alice.ID))
}

func (s *TeamServiceTestSuite) TestSearchUsers() {
	testutil.CreateUser(s.T(), s.db, "bobby", "zed@example.com")
	testutil.CreateUser(s.T(), s.db, "zoe", "bo@example.com")

	_, err := s.svc.SearchUsers(s.ctx, "b")
	s.ErrorIs(err, ErrSearchQueryTooShort)

	users, err := s.svc.SearchUsers(s.ctx, "bo")
	s.Require().NoError(err)

	var names []string
	for _, u := range users {
		names = append(names, u.Username)
	}
	// Username hits first, then email hits; bob matches both and appears once.
	s.Equal([]string{"bob", "bobby", "zoe"}, names)
}

func TestTeamServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TeamServiceTestSuite))
}

func TestMemberResolver_DropsFailedLookups(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 6; i++ {
		u := testutil.CreateUser(t, db, fmt.Sprintf("user%d", i), fmt.Sprintf("user%d@example.com", i))
		ids = append(ids, u.ID)
	}

	users := &flakyUsers{
		UserRepository: repository.NewUserRepository(db),
		failing:        map[string]bool{ids[2]: true},
	}
	resolver := NewMemberResolver(users, 3, quietLogger())

	query := append([]string{"missing", ids[0]}, ids...)
	resolved := resolver.Resolve(ctx, query)
	require.Len(t, resolved, 5)
	assert.Equal(t, ids[0], resolved[0].ID)
	for _, u := range resolved {
		assert.NotEqual(t, ids[2], u.ID)
	}

	names := resolver.Usernames(ctx, []string{ids[1], ids[2], "missing"})
	assert.Equal(t, map[string]string{ids[1]: "user1"}, names)

	assert.Empty(t, resolver.Resolve(ctx, nil))
}
