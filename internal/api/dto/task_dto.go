package dto

import (
	"time"

	"github.com/spec-kit/project-service/internal/domain"
)

// CreateTaskRequest payload.
type CreateTaskRequest struct {
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Priority       domain.TaskPriority `json:"priority"`
	AssigneeUserID *string             `json:"assignee_user_id"`
	DueDate        *time.Time          `json:"due_date"`
}

// UpdateTaskRequest payload. Omitted fields are left unchanged; an explicit
// empty assignee_user_id clears the assignment.
type UpdateTaskRequest struct {
	Title          *string              `json:"title"`
	Description    *string              `json:"description"`
	Status         *domain.TaskStatus   `json:"status"`
	Priority       *domain.TaskPriority `json:"priority"`
	AssigneeUserID *string              `json:"assignee_user_id"`
	DueDate        *time.Time           `json:"due_date"`
}

// TaskResponse shape.
type TaskResponse struct {
	ID             string              `json:"id"`
	ProjectID      string              `json:"project_id"`
	AssigneeUserID *string             `json:"assignee_user_id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Status         domain.TaskStatus   `json:"status"`
	Priority       domain.TaskPriority `json:"priority"`
	DueDate        *time.Time          `json:"due_date"`
	CompletedAt    *time.Time          `json:"completed_at"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// TaskDetailResponse adds comments and logged time.
type TaskDetailResponse struct {
	TaskResponse
	Comments      []CommentResponse `json:"comments"`
	LoggedSeconds int64             `json:"logged_seconds"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// CommentResponse shape.
type CommentResponse struct {
	ID           string    `json:"id"`
	TaskID       string    `json:"task_id"`
	AuthorUserID string    `json:"author_user_id"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
}
