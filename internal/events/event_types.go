package events

import (
	"time"

	"github.com/spec-kit/project-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTaskAssigned      EventType = "task_assigned"
	EventTaskStatusChanged EventType = "task_status_changed"
	EventCommentAdded      EventType = "comment_added"
	EventTeamMemberAdded   EventType = "team_member_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ActorUserID string      `json:"actor_user_id"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// TaskAssignedPayload payload.
type TaskAssignedPayload struct {
	TaskID         string `json:"task_id"`
	TaskTitle      string `json:"task_title"`
	AssigneeUserID string `json:"assignee_user_id"`
}

// TaskStatusChangedPayload payload.
type TaskStatusChangedPayload struct {
	TaskID         string            `json:"task_id"`
	TaskTitle      string            `json:"task_title"`
	AssigneeUserID *string           `json:"assignee_user_id,omitempty"`
	OldStatus      domain.TaskStatus `json:"old_status"`
	NewStatus      domain.TaskStatus `json:"new_status"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	TaskID         string  `json:"task_id"`
	TaskTitle      string  `json:"task_title"`
	CommentID      string  `json:"comment_id"`
	AssigneeUserID *string `json:"assignee_user_id,omitempty"`
	BodyPreview    string  `json:"body_preview"`
}

// TeamMemberAddedPayload payload.
type TeamMemberAddedPayload struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	UserID   string `json:"user_id"`
}
