package constants

import "time"

// Session and context keys
const (
	SessionCookieName = "academic_session"
	ContextKeyUserID  = "user_id"
	ContextKeyViewer  = "viewer"
	ContextKeyUser    = "current_user"
	ContextKeyTask    = "task"
	ContextKeyProject = "project"
	ContextKeyTeam    = "team"
	ContextKeyReqID   = "request_id"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Validation limits
const (
	MinPasswordLength       = 8
	TemporaryPasswordLength = 12
	MaxAISuggestedSubTasks  = 10
)

// Dashboard windows
const (
	RecentActivityWindow = 7 * 24 * time.Hour
	DueSoonWindow        = 7 * 24 * time.Hour
	RecentActivityLimit  = 5
)
