// internal/models/task.go
package models

import "time"

// TaskStatus defines the possible statuses for a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusBlocked    TaskStatus = "blocked"
	StatusCompleted  TaskStatus = "completed"
)

// IsValid reports whether s is one of the four recognized statuses.
// Request validation is fail-closed; the scoring layer is fail-open.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusBlocked, StatusCompleted:
		return true
	}
	return false
}

// Task represents the structure of a task in the system.
// EstimatedDuration is in hours; DueDate carries a calendar date only
// (time-of-day is always midnight UTC).
type Task struct {
	ID                int64      `json:"id"`
	UserID            int64      `json:"user_id"`
	CategoryID        *int64     `json:"category_id,omitempty"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Status            TaskStatus `json:"status"`
	Priority          int        `json:"priority"` // user-assigned, 1..5
	DueDate           *time.Time `json:"due_date,omitempty"`
	EstimatedDuration *float64   `json:"estimated_duration,omitempty"`
	LastRemindedAt    *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TaskFilter defines the available parameters for filtering tasks.
type TaskFilter struct {
	UserID     *int64
	CategoryID *int64
	Status     *TaskStatus
	Limit      int
	Offset     int
}
