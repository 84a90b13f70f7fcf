package repository

import (
	"context"
	"time"

	"github.com/yukikurage/team-task-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTeamRepository is a GORM implementation of TeamRepository.
// Membership lives in the team_members table.
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// Create creates a team and its member rows in a transaction
func (r *GormTeamRepository) Create(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(team).Error; err != nil {
			return err
		}
		return insertMembers(tx, team.ID, team.MemberIDs)
	})
}

// FindByID finds a team by ID with its membership
func (r *GormTeamRepository) FindByID(ctx context.Context, id string) (*models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC")
		}).
		Where("id = ?", id).
		First(&team).Error; err != nil {
		return nil, translate(err)
	}
	fillMemberIDs(&team)
	return &team, nil
}

// ListByMember lists the teams a user belongs to
func (r *GormTeamRepository) ListByMember(ctx context.Context, userID string) ([]models.Team, error) {
	var teams []models.Team
	if err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC")
		}).
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Order("teams.created_at DESC").
		Find(&teams).Error; err != nil {
		return nil, err
	}
	for i := range teams {
		fillMemberIDs(&teams[i])
	}
	return teams, nil
}

// Update saves team fields and replaces every member row in a transaction
func (r *GormTeamRepository) Update(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Team
		if err := tx.Select("id").Where("id = ?", team.ID).First(&existing).Error; err != nil {
			return translate(err)
		}

		if err := tx.Model(&models.Team{}).
			Where("id = ?", team.ID).
			Select("name", "description", "tags", "updated_at").
			Updates(&models.Team{
				Name:        team.Name,
				Description: team.Description,
				Tags:        team.Tags,
				UpdatedAt:   time.Now(),
			}).Error; err != nil {
			return err
		}

		if err := tx.Where("team_id = ?", team.ID).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		return insertMembers(tx, team.ID, team.MemberIDs)
	})
}

// Delete deletes a team and its member rows in a transaction
func (r *GormTeamRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Team{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func insertMembers(tx *gorm.DB, teamID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]models.TeamMember, len(userIDs))
	for i, userID := range userIDs {
		// Keep insertion order observable through joined_at.
		rows[i] = models.TeamMember{
			TeamID:   teamID,
			UserID:   userID,
			JoinedAt: now.Add(time.Duration(i) * time.Microsecond),
		}
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func fillMemberIDs(team *models.Team) {
	team.MemberIDs = make([]string, len(team.Members))
	for i, m := range team.Members {
		team.MemberIDs[i] = m.UserID
	}
}
