package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/team-task-api/internal/dto"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/services"
)

// TeamHandler serves team management and member search.
type TeamHandler struct {
	teamService *services.TeamService
	log         logrus.FieldLogger
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teamService *services.TeamService, log logrus.FieldLogger) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		log:         log,
	}
}

// CreateTeam creates a team including the caller.
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type CreateTeamRequest struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Members     []string `json:"members"`
		Tags        []string `json:"tags"`
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.CreateTeam(c.Request.Context(), services.CreateTeamInput{
		Name:        req.Name,
		Description: req.Description,
		Members:     req.Members,
		Tags:        req.Tags,
		CreatorID:   userID,
	})
	if err != nil {
		h.respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: team.ID})
}

// ListTeams returns the teams the caller belongs to.
func (h *TeamHandler) ListTeams(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	teams, err := h.teamService.ListTeams(c.Request.Context(), userID)
	if err != nil {
		h.respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTOs(teams))
}

// GetTeam returns a single team.
func (h *TeamHandler) GetTeam(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	team, err := h.teamService.GetTeam(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}

// ListTeamMembers returns the member profiles of a team.
func (h *TeamHandler) ListTeamMembers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	members, err := h.teamService.ListTeamMembers(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberDTOs(members))
}

// UpdateTeam replaces a team's fields and membership.
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type UpdateTeamRequest struct {
		Name        string    `json:"name"`
		Description string    `json:"description"`
		Members     []string  `json:"members"`
		Tags        *[]string `json:"tags"`
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if _, err := h.teamService.UpdateTeam(c.Request.Context(), c.Param("id"), userID, services.UpdateTeamInput{
		Name:        req.Name,
		Description: req.Description,
		Members:     req.Members,
		Tags:        req.Tags,
	}); err != nil {
		h.respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Team updated successfully",
	})
}

// DeleteTeam removes a team.
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.teamService.DeleteTeam(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Team deleted successfully",
	})
}

// SearchUsers finds users by username or email prefix.
func (h *TeamHandler) SearchUsers(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	users, err := h.teamService.SearchUsers(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberDTOs(users))
}

func (h *TeamHandler) respondTeamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTeamNameRequired),
		errors.Is(err, services.ErrTeamMembersRequired),
		errors.Is(err, services.ErrSearchQueryTooShort):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTeamNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotTeamMember),
		errors.Is(err, services.ErrNotTeamCreator):
		apierrors.Forbidden(c, err.Error())
	default:
		respondInternal(c, h.log, err)
	}
}
