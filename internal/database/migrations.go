package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database.
// Only used on the postgres driver; AutoMigrate covers the rest.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task indexes for ownership scoping and newest-first ordering
		{"tasks", "idx_tasks_creator_id", "creator_id"},
		{"tasks", "idx_tasks_status", "status"},
		{"tasks", "idx_tasks_created_at", "created_at"},
	}

	for _, idx := range indexes {
		// Check if index already exists
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			fmt.Printf("Index %s already exists, skipping\n", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		fmt.Printf("Created index %s on %s(%s)\n", idx.name, idx.table, idx.columns)
	}

	return nil
}
