package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/team-task-api/internal/constants"
	"github.com/yukikurage/team-task-api/internal/dto"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
	"github.com/yukikurage/team-task-api/internal/services"
	"github.com/yukikurage/team-task-api/internal/testutil"
	"gorm.io/gorm"
)

type TeamHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	store   *repository.Store
	handler *TeamHandler
	router  *gin.Engine

	alice *models.User
	bob   *models.User
	carol *models.User
}

func (suite *TeamHandlerTestSuite) SetupTest() {
	suite.db = testutil.NewTestDB(suite.T())
	suite.store = repository.NewGormStore(suite.db)

	resolver := services.NewMemberResolver(suite.store.Users, 4, quietLogger())
	teamService := services.NewTeamService(suite.store.Teams, suite.store.Users, resolver)
	suite.handler = NewTeamHandler(teamService, quietLogger())

	suite.alice = testutil.CreateUser(suite.T(), suite.db, "alice", "alice@example.com")
	suite.bob = testutil.CreateUser(suite.T(), suite.db, "bob", "bob@example.com")
	suite.carol = testutil.CreateUser(suite.T(), suite.db, "carol", "carol@example.com")

	// caller identity comes from a header so one router serves every user
	suite.router = gin.New()
	suite.router.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			c.Set(constants.ContextKeyUserID, id)
		}
		c.Next()
	})
	teams := suite.router.Group("/api/teams")
	teams.POST("/create", suite.handler.CreateTeam)
	teams.GET("/list", suite.handler.ListTeams)
	teams.GET("/users/search", suite.handler.SearchUsers)
	teams.GET("/:id", suite.handler.GetTeam)
	teams.PUT("/:id", suite.handler.UpdateTeam)
	teams.DELETE("/:id", suite.handler.DeleteTeam)
	teams.GET("/:id/members", suite.handler.ListTeamMembers)
}

func (suite *TeamHandlerTestSuite) do(method, path, userID string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		suite.Require().NoError(err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TeamHandlerTestSuite) createTeam(creatorID string, members ...string) string {
	w := suite.do(http.MethodPost, "/api/teams/create", creatorID, map[string]any{
		"name":        "Platform",
		"description": "Infra folks",
		"members":     members,
		"tags":        []string{"infra"},
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var response dto.CreatedResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response.ID
}

func (suite *TeamHandlerTestSuite) TestCreateTeam_AddsCreator() {
	id := suite.createTeam(suite.alice.ID, suite.bob.ID, suite.bob.ID)

	team, err := suite.store.Teams.FindByID(context.Background(), id)
	suite.Require().NoError(err)
	suite.ElementsMatch([]string{suite.alice.ID, suite.bob.ID}, team.MemberIDs)
	suite.Equal(suite.alice.ID, team.CreatedBy)
}

func (suite *TeamHandlerTestSuite) TestCreateTeam_NameRequired() {
	w := suite.do(http.MethodPost, "/api/teams/create", suite.alice.ID, map[string]any{"name": "  "})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TeamHandlerTestSuite) TestGetTeam() {
	id := suite.createTeam(suite.alice.ID, suite.bob.ID)

	w := suite.do(http.MethodGet, "/api/teams/"+id, suite.bob.ID, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var team dto.TeamDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &team))
	suite.Equal("Platform", team.Name)
	suite.Equal([]string{"infra"}, team.Tags)
	suite.Len(team.Members, 2)
	for _, member := range team.Members {
		suite.NotEmpty(member.Name)
		suite.NotEmpty(member.Email)
	}

	suite.Equal(http.StatusForbidden, suite.do(http.MethodGet, "/api/teams/"+id, suite.carol.ID, nil).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/teams/missing", suite.alice.ID, nil).Code)
}

func (suite *TeamHandlerTestSuite) TestListTeams_DropsMissingMembers() {
	suite.createTeam(suite.alice.ID, suite.bob.ID, "deleted-user")
	suite.createTeam(suite.carol.ID)

	w := suite.do(http.MethodGet, "/api/teams/list", suite.alice.ID, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var teams []dto.TeamDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &teams))
	suite.Require().Len(teams, 1)
	suite.Len(teams[0].Members, 2)
}

func (suite *TeamHandlerTestSuite) TestListTeamMembers() {
	id := suite.createTeam(suite.alice.ID, suite.bob.ID)

	w := suite.do(http.MethodGet, "/api/teams/"+id+"/members", suite.alice.ID, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var members []dto.MemberDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &members))
	suite.Len(members, 2)

	suite.Equal(http.StatusForbidden, suite.do(http.MethodGet, "/api/teams/"+id+"/members", suite.carol.ID, nil).Code)
}

func (suite *TeamHandlerTestSuite) TestUpdateTeam() {
	id := suite.createTeam(suite.alice.ID, suite.bob.ID)

	suite.Run("members required before lookup", func() {
		w := suite.do(http.MethodPut, "/api/teams/missing", suite.alice.ID, map[string]any{"name": "X", "members": []string{}})
		suite.Equal(http.StatusBadRequest, w.Code)
	})

	suite.Run("only creator", func() {
		w := suite.do(http.MethodPut, "/api/teams/"+id, suite.bob.ID, map[string]any{"name": "X", "members": []string{suite.bob.ID}})
		suite.Equal(http.StatusForbidden, w.Code)
	})

	suite.Run("replaces membership without re-adding creator", func() {
		w := suite.do(http.MethodPut, "/api/teams/"+id, suite.alice.ID, map[string]any{
			"name":        "Renamed",
			"description": "New",
			"members":     []string{suite.bob.ID, suite.carol.ID, suite.carol.ID},
		})
		suite.Require().Equal(http.StatusOK, w.Code)

		team, err := suite.store.Teams.FindByID(context.Background(), id)
		suite.Require().NoError(err)
		suite.Equal("Renamed", team.Name)
		suite.ElementsMatch([]string{suite.bob.ID, suite.carol.ID}, team.MemberIDs)
		suite.Equal([]string{"infra"}, team.Tags)
	})
}

func (suite *TeamHandlerTestSuite) TestDeleteTeam() {
	id := suite.createTeam(suite.alice.ID, suite.bob.ID)

	suite.Equal(http.StatusForbidden, suite.do(http.MethodDelete, "/api/teams/"+id, suite.bob.ID, nil).Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodDelete, "/api/teams/"+id, suite.alice.ID, nil).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodDelete, "/api/teams/"+id, suite.alice.ID, nil).Code)

	var remaining int64
	suite.Require().NoError(suite.db.Model(&models.TeamMember{}).Where("team_id = ?", id).Count(&remaining).Error)
	suite.Zero(remaining)
}

func (suite *TeamHandlerTestSuite) TestSearchUsers() {
	testutil.CreateUser(suite.T(), suite.db, "albert", "zed@example.com")
	testutil.CreateUser(suite.T(), suite.db, "zoe", "alpha@example.com")

	w := suite.do(http.MethodGet, "/api/teams/users/search?q=al", suite.bob.ID, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var hits []dto.MemberDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &hits))
	names := make([]string, len(hits))
	for i, hit := range hits {
		names[i] = hit.Name
	}
	suite.ElementsMatch([]string{"alice", "albert", "zoe"}, names)
	suite.Equal("zoe", names[len(names)-1], "email hits come after username hits")

	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/teams/users/search?q=a", suite.bob.ID, nil).Code)
}

func (suite *TeamHandlerTestSuite) TestRequiresCaller() {
	suite.Equal(http.StatusUnauthorized, suite.do(http.MethodGet, "/api/teams/list", "", nil).Code)
}

func TestTeamHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TeamHandlerTestSuite))
}
