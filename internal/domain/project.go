package domain

import "time"

// ProjectStatus enumerates lifecycle states for projects.
type ProjectStatus string

const (
	ProjectStatusPlanned   ProjectStatus = "PLANNED"
	ProjectStatusActive    ProjectStatus = "ACTIVE"
	ProjectStatusOnHold    ProjectStatus = "ON_HOLD"
	ProjectStatusCompleted ProjectStatus = "COMPLETED"
	ProjectStatusArchived  ProjectStatus = "ARCHIVED"
)

// Project groups applications and tasks under a client.
type Project struct {
	ID          string
	ClientID    string
	Name        string
	Description string
	Status      ProjectStatus
	StartDate   *time.Time
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
