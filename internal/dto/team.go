package dto

import (
	"time"

	"github.com/yukikurage/team-task-api/internal/services"
)

// TeamDTO represents a team with resolved member profiles
type TeamDTO struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Members     []MemberDTO `json:"members"`
	Tags        []string    `json:"tags"`
	CreatedAt   time.Time   `json:"created_at"`
	CreatedBy   string      `json:"created_by"`
}

// ToTeamDTO converts a team and its resolved members
func ToTeamDTO(details services.TeamDetails) TeamDTO {
	tags := details.Team.Tags
	if tags == nil {
		tags = []string{}
	}
	return TeamDTO{
		ID:          details.Team.ID,
		Name:        details.Team.Name,
		Description: details.Team.Description,
		Members:     ToMemberDTOs(details.Members),
		Tags:        tags,
		CreatedAt:   details.Team.CreatedAt,
		CreatedBy:   details.Team.CreatedBy,
	}
}

// ToTeamDTOs converts a list of teams
func ToTeamDTOs(teams []services.TeamDetails) []TeamDTO {
	out := make([]TeamDTO, len(teams))
	for i, team := range teams {
		out[i] = ToTeamDTO(team)
	}
	return out
}
