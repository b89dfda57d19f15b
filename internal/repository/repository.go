package repository

import (
	"github.com/yukikurage/task-tracker-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user. Username uniqueness is enforced by the
	// store's unique constraint; a losing concurrent insert returns
	// ErrDuplicateUsername.
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}

// TaskFilter holds scoping and pagination options for listing tasks
type TaskFilter struct {
	// CreatorID restricts the query to one owner; nil means unscoped (admin)
	CreatorID *uint64
	Page      int
	PageSize  int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks newest-first with scoping and pagination,
	// returning the total count over the same scoped query
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update persists the task's mutable fields. A non-nil ownerID makes the
	// write conditional on creator_id so the ownership check and the mutation
	// cannot interleave with a conflicting write; ErrNoRowsAffected is
	// returned when the condition no longer holds.
	Update(task *models.Task, ownerID *uint64) error

	// Delete soft deletes a task, conditional on ownerID like Update
	Delete(id uint64, ownerID *uint64) error
}
