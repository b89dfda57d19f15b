package constants

import "time"

// Context keys set by the auth middleware
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
	ContextKeyTask     = "task"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 5
	MaxPageSize     = 100
)

// Auth policy
const (
	MinPasswordLength = 8
	TokenTTL          = 30 * 24 * time.Hour
)
