package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the page of tasks visible to the current user.
// Admins see all tasks; everyone else only their own.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	role, _ := middleware.GetUserRole(c)

	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListTasks(services.ListTasksInput{
		ActorID:  userID,
		Role:     role,
		Page:     params.Page,
		PageSize: params.Limit,
	})
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// GetTask returns a specific task by ID.
// Access was already checked by RequireTaskAccess, which stashed the task.
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := taskFromContext(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(task))
}

// CreateTask creates a new task owned by the current user
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title       string            `json:"title"`
		Description string            `json:"description"`
		Status      models.TaskStatus `json:"status"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		CreatorID:   userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update to a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	role, _ := middleware.GetUserRole(c)

	task, ok := taskFromContext(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	type UpdateTaskRequest struct {
		Title       *string            `json:"title"`
		Description *string            `json:"description"`
		Status      *models.TaskStatus `json:"status"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.taskService.UpdateTask(task.ID, userID, role, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	role, _ := middleware.GetUserRole(c)

	task, ok := taskFromContext(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	if err := h.taskService.DeleteTask(task.ID, userID, role); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": task.ID})
}

func taskFromContext(c *gin.Context) (models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return models.Task{}, false
	}

	task, ok := value.(models.Task)
	return task, ok
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrInvalidStatus):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTaskPermissionDenied):
		apierrors.Forbidden(c, "User not authorized")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
