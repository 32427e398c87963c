package dto

import (
	"time"

	"github.com/spec-kit/project-service/internal/domain"
)

// NotificationResponse shape.
type NotificationResponse struct {
	ID        string                  `json:"id"`
	Kind      domain.NotificationKind `json:"kind"`
	SubjectID *string                 `json:"subject_id"`
	Message   string                  `json:"message"`
	ReadAt    *time.Time              `json:"read_at"`
	CreatedAt time.Time               `json:"created_at"`
}
