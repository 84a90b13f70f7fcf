package services

import (
	"errors"

	"github.com/yukikurage/team-task-api/internal/models"
)

var (
	ErrNotTaskCreator  = errors.New("only the task creator can perform this action")
	ErrNotTaskAssignee = errors.New("only the assigned user can change the task status")
)

// TaskPolicy is a named authorization rule evaluated against a task and the caller.
type TaskPolicy struct {
	Name   string
	allow  func(task *models.Task, callerID string) bool
	denied error
}

// Check returns nil when the caller may act, the policy's denial otherwise.
func (p TaskPolicy) Check(task *models.Task, callerID string) error {
	if callerID == "" || !p.allow(task, callerID) {
		return p.denied
	}
	return nil
}

var (
	// CreatorEdit guards content fields.
	CreatorEdit = TaskPolicy{
		Name:   "creator-edit",
		allow:  isTaskCreator,
		denied: ErrNotTaskCreator,
	}

	// AssigneeStatus guards status changes.
	AssigneeStatus = TaskPolicy{
		Name:   "assignee-status",
		allow:  func(task *models.Task, callerID string) bool { return task.IsAssignedTo(callerID) },
		denied: ErrNotTaskAssignee,
	}

	// CreatorDelete guards deletion.
	CreatorDelete = TaskPolicy{
		Name:   "creator-delete",
		allow:  isTaskCreator,
		denied: ErrNotTaskCreator,
	}
)

func isTaskCreator(task *models.Task, callerID string) bool {
	return task.CreatorID == callerID
}
