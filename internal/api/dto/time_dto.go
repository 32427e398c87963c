package dto

import "time"

// StartTimerRequest payload.
type StartTimerRequest struct {
	Note *string `json:"note"`
}

// ManualEntryRequest payload.
type ManualEntryRequest struct {
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	Note      *string   `json:"note"`
}

// TimeEntryResponse shape.
type TimeEntryResponse struct {
	ID        string     `json:"id"`
	TaskID    string     `json:"task_id"`
	UserID    string     `json:"user_id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
	Note      *string    `json:"note"`
	Running   bool       `json:"running"`
	Seconds   int64      `json:"seconds"`
}

// TaskTimeResponse bundles a task's entries with the logged total.
type TaskTimeResponse struct {
	Entries      []TimeEntryResponse `json:"entries"`
	TotalSeconds int64               `json:"total_seconds"`
}
