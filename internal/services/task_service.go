package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrGroupIDRequired = errors.New("group_id is required for group tasks")
	ErrStatusRequired  = errors.New("status is required")
	ErrNothingToUpdate = errors.New("no fields to update")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	members  *MemberResolver
	now      func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, members *MemberResolver) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		members:  members,
		now:      time.Now,
	}
}

// TaskFields are the content fields shared by both task kinds.
type TaskFields struct {
	Name        string
	Description string
	Deadline    *time.Time
	Status      string
	Category    string
}

// CreateGroupTaskInput represents input for creating a group task
type CreateGroupTaskInput struct {
	TaskFields
	GroupID        string
	AssignedUserID string
	CreatorID      string
}

// UpdateTaskInput represents a partial update. Nil fields are left unchanged.
type UpdateTaskInput struct {
	Name          *string
	Description   *string
	Deadline      *time.Time
	ClearDeadline bool
	Status        *string
	Category      *string
}

func (in UpdateTaskInput) isEmpty() bool {
	return in.Name == nil && in.Description == nil && in.Deadline == nil &&
		!in.ClearDeadline && in.Status == nil && in.Category == nil
}

// TaskWithAssignee is a group task annotated with its assignee's username.
type TaskWithAssignee struct {
	models.Task
	AssignedUsername *string
}

// CreateGroupTask creates a non-personal task attached to a group.
func (s *TaskService) CreateGroupTask(ctx context.Context, input CreateGroupTaskInput) (*models.Task, error) {
	groupID := strings.TrimSpace(input.GroupID)
	if groupID == "" {
		return nil, ErrGroupIDRequired
	}

	task := newTask(input.CreatorID, input.TaskFields)
	task.GroupID = &groupID
	task.IsPersonal = false
	if assignee := strings.TrimSpace(input.AssignedUserID); assignee != "" {
		task.AssignedUserID = &assignee
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// CreatePersonalTask creates a task owned by and assigned to its creator.
func (s *TaskService) CreatePersonalTask(ctx context.Context, creatorID string, fields TaskFields) (*models.Task, error) {
	task := newTask(creatorID, fields)
	assignee := creatorID
	task.AssignedUserID = &assignee
	task.GroupID = nil
	task.IsPersonal = true

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// ListGroupTasks returns a group's tasks with assignee usernames resolved.
// Unresolvable assignees yield a nil username.
func (s *TaskService) ListGroupTasks(ctx context.Context, groupID string) ([]TaskWithAssignee, error) {
	tasks, err := s.taskRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group tasks: %w", err)
	}

	assigneeIDs := make([]string, 0, len(tasks))
	for _, task := range tasks {
		if task.AssignedUserID != nil {
			assigneeIDs = append(assigneeIDs, *task.AssignedUserID)
		}
	}
	usernames := s.members.Usernames(ctx, assigneeIDs)

	result := make([]TaskWithAssignee, len(tasks))
	for i, task := range tasks {
		result[i] = TaskWithAssignee{Task: task}
		if task.AssignedUserID == nil {
			continue
		}
		if name, ok := usernames[*task.AssignedUserID]; ok {
			result[i].AssignedUsername = &name
		}
	}
	return result, nil
}

// ListPersonalTasks returns the caller's personal tasks.
func (s *TaskService) ListPersonalTasks(ctx context.Context, callerID string) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListPersonal(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list personal tasks: %w", err)
	}
	return tasks, nil
}

// ListMyTasks returns every task the caller created or is assigned to.
func (s *TaskService) ListMyTasks(ctx context.Context, callerID string) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListInvolving(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask applies a partial content update on behalf of the creator.
func (s *TaskService) UpdateTask(ctx context.Context, taskID, callerID string, input UpdateTaskInput) (*models.Task, error) {
	if input.isEmpty() {
		return nil, ErrNothingToUpdate
	}

	task, err := s.authorize(ctx, taskID, callerID, CreatorEdit)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		task.Name = *input.Name
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.ClearDeadline {
		task.Deadline = nil
	} else if input.Deadline != nil {
		task.Deadline = input.Deadline
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Category != nil {
		task.Category = *input.Category
	}
	task.UpdatedAt = s.now()

	if err := s.save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// SetTaskStatus changes the status on behalf of the assignee.
func (s *TaskService) SetTaskStatus(ctx context.Context, taskID, callerID, status string) (*models.Task, error) {
	if strings.TrimSpace(status) == "" {
		return nil, ErrStatusRequired
	}

	task, err := s.authorize(ctx, taskID, callerID, AssigneeStatus)
	if err != nil {
		return nil, err
	}

	task.Status = status
	task.UpdatedAt = s.now()

	if err := s.save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task on behalf of its creator.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, callerID string) error {
	if _, err := s.authorize(ctx, taskID, callerID, CreatorDelete); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// authorize loads the task and evaluates policy against the caller.
func (s *TaskService) authorize(ctx context.Context, taskID, callerID string, policy TaskPolicy) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := policy.Check(task, callerID); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) save(ctx context.Context, task *models.Task) error {
	if err := s.taskRepo.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

func newTask(creatorID string, fields TaskFields) *models.Task {
	return &models.Task{
		CreatorID:   creatorID,
		Name:        fields.Name,
		Description: fields.Description,
		Deadline:    fields.Deadline,
		Status:      fields.Status,
		Category:    fields.Category,
	}
}
