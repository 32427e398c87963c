package domain

import "time"

// TaskStatus enumerates lifecycle states for tasks.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusReview     TaskStatus = "REVIEW"
	TaskStatusDone       TaskStatus = "DONE"
)

// TaskPriority enumerates urgency.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityUrgent TaskPriority = "URGENT"
)

// Task is a unit of work under a project.
type Task struct {
	ID             string
	ProjectID      string
	AssigneeUserID *string
	Title          string
	Description    string
	Status         TaskStatus
	Priority       TaskPriority
	DueDate        *time.Time
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TaskComment is a threaded note on a task.
type TaskComment struct {
	ID           string
	TaskID       string
	AuthorUserID string
	Body         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
