package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestCanAccessTask(t *testing.T) {
	cases := []struct {
		name    string
		actorID uint64
		role    models.Role
		ownerID uint64
		want    bool
	}{
		{"owner", 1, models.RoleUser, 1, true},
		{"non-owner", 1, models.RoleUser, 2, false},
		{"admin owns", 1, models.RoleAdmin, 1, true},
		{"admin does not own", 1, models.RoleAdmin, 2, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, CanAccessTask(tc.actorID, tc.role, tc.ownerID))
		})
	}
}

func setupTaskService(t *testing.T) (*TaskService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return NewTaskService(repository.NewTaskRepository(db)), db
}

func TestTaskService_CreateValidation(t *testing.T) {
	svc, _ := setupTaskService(t)

	_, err := svc.CreateTask(CreateTaskInput{Title: "", CreatorID: 1})
	require.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.CreateTask(CreateTaskInput{Title: "ok", Status: "someday", CreatorID: 1})
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTaskService_CreateDefaultsToPending(t *testing.T) {
	svc, _ := setupTaskService(t)

	task, err := svc.CreateTask(CreateTaskInput{Title: "ok", CreatorID: 1})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusPending, task.Status)
	require.Equal(t, uint64(1), task.CreatorID)
}

func TestTaskService_ExistenceCheckedBeforeOwnership(t *testing.T) {
	svc, db := setupTaskService(t)

	require.NoError(t, db.Create(&models.Task{Title: "owned", CreatorID: 1}).Error)

	// Absent task: not found, even for a caller who owns nothing
	_, err := svc.GetTask(999, 2, models.RoleUser)
	require.ErrorIs(t, err, ErrTaskNotFound)

	// Existing task owned by someone else: forbidden, not "not found"
	_, err = svc.GetTask(1, 2, models.RoleUser)
	require.ErrorIs(t, err, ErrTaskPermissionDenied)
}

func TestTaskService_UpdateAndDeleteByNonOwner(t *testing.T) {
	svc, db := setupTaskService(t)

	require.NoError(t, db.Create(&models.Task{Title: "owned", CreatorID: 1}).Error)

	title := "revised"
	_, err := svc.UpdateTask(1, 2, models.RoleUser, UpdateTaskInput{Title: &title})
	require.ErrorIs(t, err, ErrTaskPermissionDenied)

	err = svc.DeleteTask(1, 2, models.RoleUser)
	require.ErrorIs(t, err, ErrTaskPermissionDenied)

	// Admin bypasses ownership on both
	updated, err := svc.UpdateTask(1, 2, models.RoleAdmin, UpdateTaskInput{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "revised", updated.Title)

	require.NoError(t, svc.DeleteTask(1, 2, models.RoleAdmin))
}
