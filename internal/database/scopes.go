package database

import (
	"gorm.io/gorm"
)

// Paginate applies an offset/limit window to a GORM query
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		offset := (page - 1) * pageSize
		return db.Offset(offset).Limit(pageSize)
	}
}

// OwnedBy restricts a task query to a single creator
func OwnedBy(userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("creator_id = ?", userID)
	}
}
