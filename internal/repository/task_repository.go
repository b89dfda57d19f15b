package repository

import (
	"errors"

	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// ErrNoRowsAffected is returned when a conditional update or delete matched nothing.
var ErrNoRowsAffected = errors.New("task repository: no rows affected")

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with scoping and pagination, newest first.
// The total count runs over the same scoped query as the page of items.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})
	if filter.CreatorID != nil {
		query = query.Scopes(database.OwnedBy(*filter.CreatorID))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(filter.Page, filter.PageSize))
	}

	if err := listQuery.Preload("Creator").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update persists title, description and status. With a non-nil ownerID the
// write carries the creator_id predicate so it is atomic with the ownership
// precondition.
func (r *GormTaskRepository) Update(task *models.Task, ownerID *uint64) error {
	query := r.db.Model(&models.Task{}).Where("id = ?", task.ID)
	if ownerID != nil {
		query = query.Where("creator_id = ?", *ownerID)
	}

	result := query.Updates(map[string]interface{}{
		"title":       task.Title,
		"description": task.Description,
		"status":      task.Status,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// Delete soft deletes a task, conditional on ownerID like Update
func (r *GormTaskRepository) Delete(id uint64, ownerID *uint64) error {
	query := r.db.Where("id = ?", id)
	if ownerID != nil {
		query = query.Where("creator_id = ?", *ownerID)
	}

	result := query.Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
