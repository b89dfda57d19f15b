package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskPermissionDenied = errors.New("user does not have permission to access this task")
	ErrTitleRequired        = errors.New("title is required")
	ErrTitleEmpty           = errors.New("title cannot be empty")
	ErrInvalidStatus        = errors.New("invalid task status")
)

// CanAccessTask is the single authorization rule for read, update and delete:
// admins bypass ownership, everyone else must own the task.
func CanAccessTask(actorID uint64, role models.Role, ownerID uint64) bool {
	return role == models.RoleAdmin || actorID == ownerID
}

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// ListTasksInput represents scoping and paging for listing tasks
type ListTasksInput struct {
	ActorID  uint64
	Role     models.Role
	Page     int
	PageSize int
}

// ListTasks returns the page of tasks visible to the actor, newest first.
// Admins see every task; other users only their own.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		Page:     input.Page,
		PageSize: input.PageSize,
	}
	if input.Role != models.RoleAdmin {
		filter.CreatorID = &input.ActorID
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task if the actor may see it. The existence check runs
// before the ownership check, so an absent task is ErrTaskNotFound even for
// callers who could never have accessed it.
func (s *TaskService) GetTask(taskID, actorID uint64, role models.Role) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Creator")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !CanAccessTask(actorID, role, task.CreatorID) {
		return nil, ErrTaskPermissionDenied
	}

	return task, nil
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	CreatorID   uint64
}

// CreateTask creates a new task owned by the creator. The owner is always the
// authenticated actor; there is no way to create a task for someone else.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		CreatorID:   input.CreatorID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
}

// UpdateTask applies a partial update if the actor owns the task or is an
// admin. The write itself is conditional on ownership for non-admins, so a
// concurrent ownership-conflicting mutation cannot slip between the check and
// the update.
func (s *TaskService) UpdateTask(taskID, actorID uint64, role models.Role, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !CanAccessTask(actorID, role, task.CreatorID) {
		return nil, ErrTaskPermissionDenied
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}

	if err := s.taskRepo.Update(task, ownerCondition(actorID, role)); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, ErrTaskPermissionDenied
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Creator")
}

// DeleteTask deletes a task if the actor owns it or is an admin.
func (s *TaskService) DeleteTask(taskID, actorID uint64, role models.Role) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if !CanAccessTask(actorID, role, task.CreatorID) {
		return ErrTaskPermissionDenied
	}

	if err := s.taskRepo.Delete(taskID, ownerCondition(actorID, role)); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return ErrTaskPermissionDenied
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// ownerCondition returns the creator predicate for conditional writes:
// nil (unconditional) for admins, the actor's ID otherwise.
func ownerCondition(actorID uint64, role models.Role) *uint64 {
	if role == models.RoleAdmin {
		return nil
	}
	return &actorID
}
