package repository

import (
	"context"

	"github.com/yukikurage/team-task-api/internal/database"
	"github.com/yukikurage/team-task-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

// ListByGroup lists the tasks of a group
func (r *GormTaskRepository) ListByGroup(ctx context.Context, groupID string) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND is_personal = ?", groupID, false).
		Scopes(database.NewestFirst).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListPersonal lists a user's personal tasks
func (r *GormTaskRepository) ListPersonal(ctx context.Context, creatorID string) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Where("creator_id = ? AND is_personal = ?", creatorID, true).
		Scopes(database.NewestFirst).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListInvolving lists tasks created by or assigned to a user
func (r *GormTaskRepository) ListInvolving(ctx context.Context, userID string) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Where("creator_id = ? OR assigned_user_id = ?", userID, userID).
		Scopes(database.NewestFirst).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// Delete deletes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
