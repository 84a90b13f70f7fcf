package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/team-task-api/internal/dto"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/services"
)

// deadlineLayouts are the accepted deadline formats, tried in order.
var deadlineLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

var errInvalidDeadline = errors.New("invalid deadline format")

type TaskHandler struct {
	taskService *services.TaskService
	log         logrus.FieldLogger
}

func NewTaskHandler(taskService *services.TaskService, log logrus.FieldLogger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		log:         log,
	}
}

type taskFieldsRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Deadline    *string `json:"deadline"`
	Status      string  `json:"status"`
	Category    string  `json:"category"`
}

func (r taskFieldsRequest) toFields() (services.TaskFields, error) {
	fields := services.TaskFields{
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		Category:    r.Category,
	}
	if r.Deadline != nil && *r.Deadline != "" {
		deadline, err := parseDeadline(*r.Deadline)
		if err != nil {
			return fields, err
		}
		fields.Deadline = &deadline
	}
	return fields, nil
}

// CreateGroupTask creates a task attached to a group
func (h *TaskHandler) CreateGroupTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type CreateGroupTaskRequest struct {
		taskFieldsRequest
		GroupID        string `json:"group_id"`
		AssignedUserID string `json:"assigned_user_id"`
	}

	var req CreateGroupTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	fields, err := req.toFields()
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.CreateGroupTask(c.Request.Context(), services.CreateGroupTaskInput{
		TaskFields:     fields,
		GroupID:        req.GroupID,
		AssignedUserID: req.AssignedUserID,
		CreatorID:      userID,
	})
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: task.ID})
}

// CreatePersonalTask creates a task assigned to the caller
func (h *TaskHandler) CreatePersonalTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req taskFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	fields, err := req.toFields()
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.CreatePersonalTask(c.Request.Context(), userID, fields)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: task.ID})
}

// ListGroupTasks returns the tasks of a group with assignee usernames
func (h *TaskHandler) ListGroupTasks(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	tasks, err := h.taskService.ListGroupTasks(c.Request.Context(), c.Param("groupId"))
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupTaskDTOs(tasks))
}

// ListPersonalTasks returns the caller's personal tasks
func (h *TaskHandler) ListPersonalTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListPersonalTasks(c.Request.Context(), userID)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// ListMyTasks returns tasks the caller created or is assigned to
func (h *TaskHandler) ListMyTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListMyTasks(c.Request.Context(), userID)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// UpdateTask updates an existing task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, err := parseTaskUpdate(rawReq)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	if _, err := h.taskService.UpdateTask(c.Request.Context(), c.Param("id"), userID, input); err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskActionResponse{
		Success: true,
		Message: "Task updated successfully",
	})
}

// UpdateTaskStatus changes the status of a task assigned to the caller
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type UpdateStatusRequest struct {
		Status string `json:"status"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if _, err := h.taskService.SetTaskStatus(c.Request.Context(), c.Param("id"), userID, req.Status); err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskActionResponse{
		Success: true,
		Message: "Task status updated successfully",
	})
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskActionResponse{
		Success: true,
		Message: "Task deleted successfully",
	})
}

// parseTaskUpdate keeps only the fields present in the body. A null deadline
// clears it.
func parseTaskUpdate(rawReq map[string]any) (services.UpdateTaskInput, error) {
	var input services.UpdateTaskInput

	stringField := func(key string) (*string, error) {
		value, ok := rawReq[key]
		if !ok {
			return nil, nil
		}
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%s must be a string", key)
		}
		return &str, nil
	}

	var err error
	if input.Name, err = stringField("name"); err != nil {
		return input, err
	}
	if input.Description, err = stringField("description"); err != nil {
		return input, err
	}
	if input.Status, err = stringField("status"); err != nil {
		return input, err
	}
	if input.Category, err = stringField("category"); err != nil {
		return input, err
	}

	if value, ok := rawReq["deadline"]; ok {
		// deadline was provided (might be null)
		switch v := value.(type) {
		case nil:
			input.ClearDeadline = true
		case string:
			if v == "" {
				input.ClearDeadline = true
				break
			}
			deadline, err := parseDeadline(v)
			if err != nil {
				return input, err
			}
			input.Deadline = &deadline
		default:
			return input, errInvalidDeadline
		}
	}

	return input, nil
}

func parseDeadline(value string) (time.Time, error) {
	for _, layout := range deadlineLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, errInvalidDeadline
}

func (h *TaskHandler) respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrGroupIDRequired),
		errors.Is(err, services.ErrStatusRequired),
		errors.Is(err, services.ErrNothingToUpdate):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotTaskCreator),
		errors.Is(err, services.ErrNotTaskAssignee):
		apierrors.Forbidden(c, err.Error())
	default:
		respondInternal(c, h.log, err)
	}
}
