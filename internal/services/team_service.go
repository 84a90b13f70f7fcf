package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/team-task-api/internal/constants"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
	"golang.org/x/sync/errgroup"
)

var (
	ErrTeamNotFound        = errors.New("team not found")
	ErrTeamNameRequired    = errors.New("team name is required")
	ErrTeamMembersRequired = errors.New("at least one team member is required")
	ErrNotTeamMember       = errors.New("you are not a member of this team")
	ErrNotTeamCreator      = errors.New("only the team creator can perform this action")
	ErrSearchQueryTooShort = errors.New("search query must be at least 2 characters")
)

// TeamService provides business logic for team operations.
type TeamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
	members  *MemberResolver
}

// NewTeamService creates a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository, members *MemberResolver) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
		members:  members,
	}
}

// TeamDetails is a team with its member ids resolved to users.
type TeamDetails struct {
	Team    models.Team
	Members []models.User
}

// CreateTeamInput represents parameters to create a new team.
type CreateTeamInput struct {
	Name        string
	Description string
	Members     []string
	Tags        []string
	CreatorID   string
}

// UpdateTeamInput replaces a team's fields. Tags are kept when nil.
type UpdateTeamInput struct {
	Name        string
	Description string
	Members     []string
	Tags        *[]string
}

// CreateTeam creates a team whose membership always includes the creator.
func (s *TeamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	team := &models.Team{
		Name:        name,
		Description: input.Description,
		CreatedBy:   input.CreatorID,
		Tags:        normalizeTags(input.Tags),
		MemberIDs:   uniqueIDs(append(append([]string{}, input.Members...), input.CreatorID)),
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

// ListTeams returns the caller's teams with members resolved.
func (s *TeamService) ListTeams(ctx context.Context, callerID string) ([]TeamDetails, error) {
	teams, err := s.teamRepo.ListByMember(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	// One lookup per distinct member across all teams.
	var allIDs []string
	for _, team := range teams {
		allIDs = append(allIDs, team.MemberIDs...)
	}
	byID := make(map[string]models.User)
	for _, user := range s.members.Resolve(ctx, allIDs) {
		byID[user.ID] = user
	}

	result := make([]TeamDetails, len(teams))
	for i, team := range teams {
		result[i] = TeamDetails{Team: team, Members: pickMembers(team.MemberIDs, byID)}
	}
	return result, nil
}

// GetTeam returns a team the caller belongs to.
func (s *TeamService) GetTeam(ctx context.Context, teamID, callerID string) (*TeamDetails, error) {
	team, err := s.memberView(ctx, teamID, callerID)
	if err != nil {
		return nil, err
	}

	return &TeamDetails{
		Team:    *team,
		Members: s.members.Resolve(ctx, team.MemberIDs),
	}, nil
}

// ListTeamMembers returns the resolved members of a team the caller belongs to.
func (s *TeamService) ListTeamMembers(ctx context.Context, teamID, callerID string) ([]models.User, error) {
	team, err := s.memberView(ctx, teamID, callerID)
	if err != nil {
		return nil, err
	}
	return s.members.Resolve(ctx, team.MemberIDs), nil
}

// UpdateTeam replaces name, description and the whole member list. The
// creator is not re-added when absent from the new list.
func (s *TeamService) UpdateTeam(ctx context.Context, teamID, callerID string, input UpdateTeamInput) (*models.Team, error) {
	memberIDs := uniqueIDs(input.Members)
	if len(memberIDs) == 0 {
		return nil, ErrTeamMembersRequired
	}

	team, err := s.creatorView(ctx, teamID, callerID)
	if err != nil {
		return nil, err
	}

	team.Name = input.Name
	team.Description = input.Description
	team.MemberIDs = memberIDs
	if input.Tags != nil {
		team.Tags = normalizeTags(*input.Tags)
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return team, nil
}

// DeleteTeam removes a team on behalf of its creator.
func (s *TeamService) DeleteTeam(ctx context.Context, teamID, callerID string) error {
	if _, err := s.creatorView(ctx, teamID, callerID); err != nil {
		return err
	}

	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return nil
}

// SearchUsers runs username and email prefix searches concurrently and
// returns the union, username hits first, without duplicates.
func (s *TeamService) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	if utf8.RuneCountInString(query) < constants.MinSearchQueryLength {
		return nil, ErrSearchQueryTooShort
	}

	var byUsername, byEmail []models.User
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		users, err := s.userRepo.SearchByPrefix(egCtx, repository.UserFieldUsername, query, constants.SearchResultLimit)
		byUsername = users
		return err
	})
	eg.Go(func() error {
		users, err := s.userRepo.SearchByPrefix(egCtx, repository.UserFieldEmail, query, constants.SearchResultLimit)
		byEmail = users
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	seen := make(map[string]struct{}, len(byUsername)+len(byEmail))
	result := make([]models.User, 0, len(byUsername)+len(byEmail))
	for _, user := range append(byUsername, byEmail...) {
		if _, ok := seen[user.ID]; ok {
			continue
		}
		seen[user.ID] = struct{}{}
		result = append(result, user)
	}
	return result, nil
}

func (s *TeamService) findTeam(ctx context.Context, teamID string) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return team, nil
}

func (s *TeamService) memberView(ctx context.Context, teamID, callerID string) (*models.Team, error) {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !team.HasMember(callerID) {
		return nil, ErrNotTeamMember
	}
	return team, nil
}

func (s *TeamService) creatorView(ctx context.Context, teamID, callerID string) (*models.Team, error) {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.CreatedBy != callerID {
		return nil, ErrNotTeamCreator
	}
	return team, nil
}

func pickMembers(ids []string, byID map[string]models.User) []models.User {
	members := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := byID[id]; ok {
			members = append(members, user)
		}
	}
	return members
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
