package dto

import (
	"time"

	"github.com/spec-kit/project-service/internal/domain"
)

// ProjectRequest payload for create/update.
type ProjectRequest struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Status      domain.ProjectStatus `json:"status"`
	StartDate   *time.Time           `json:"start_date"`
	DueDate     *time.Time           `json:"due_date"`
}

// ProjectResponse shape.
type ProjectResponse struct {
	ID          string               `json:"id"`
	ClientID    string               `json:"client_id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Status      domain.ProjectStatus `json:"status"`
	StartDate   *time.Time           `json:"start_date"`
	DueDate     *time.Time           `json:"due_date"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// ProjectDetailResponse adds applications and the open task count.
type ProjectDetailResponse struct {
	ProjectResponse
	Applications []ApplicationResponse `json:"applications"`
	OpenTasks    int                   `json:"open_tasks"`
}

// ApplicationRequest payload for create/update.
type ApplicationRequest struct {
	Name        string                        `json:"name"`
	URL         *string                       `json:"url"`
	Environment domain.ApplicationEnvironment `json:"environment"`
	Description *string                       `json:"description"`
}

// ApplicationResponse shape.
type ApplicationResponse struct {
	ID          string                        `json:"id"`
	ProjectID   string                        `json:"project_id"`
	Name        string                        `json:"name"`
	URL         *string                       `json:"url"`
	Environment domain.ApplicationEnvironment `json:"environment"`
	Description *string                       `json:"description"`
	CreatedAt   time.Time                     `json:"created_at"`
	UpdatedAt   time.Time                     `json:"updated_at"`
}
