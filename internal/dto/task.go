package dto

import (
	"time"

	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/services"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID             string     `json:"id"`
	CreatorID      string     `json:"creator_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Deadline       *time.Time `json:"deadline"`
	Status         string     `json:"status"`
	Category       string     `json:"category"`
	AssignedUserID *string    `json:"assigned_user_id"`
	GroupID        *string    `json:"group_id"`
	IsPersonal     bool       `json:"is_personal"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// GroupTaskDTO is a group task with the assignee's username
type GroupTaskDTO struct {
	TaskDTO
	AssignedUsername *string `json:"assigned_username"`
}

// CreatedResponse carries the id of a new resource
type CreatedResponse struct {
	ID string `json:"id"`
}

// TaskActionResponse acknowledges a task mutation
type TaskActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:             task.ID,
		CreatorID:      task.CreatorID,
		Name:           task.Name,
		Description:    task.Description,
		Deadline:       task.Deadline,
		Status:         task.Status,
		Category:       task.Category,
		AssignedUserID: task.AssignedUserID,
		GroupID:        task.GroupID,
		IsPersonal:     task.IsPersonal,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
}

// ToTaskDTOs converts a list of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		out[i] = ToTaskDTO(task)
	}
	return out
}

// ToGroupTaskDTOs converts annotated group tasks
func ToGroupTaskDTOs(tasks []services.TaskWithAssignee) []GroupTaskDTO {
	out := make([]GroupTaskDTO, len(tasks))
	for i, task := range tasks {
		out[i] = GroupTaskDTO{
			TaskDTO:          ToTaskDTO(task.Task),
			AssignedUsername: task.AssignedUsername,
		}
	}
	return out
}
