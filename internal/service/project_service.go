package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/repository"
	apperrors "github.com/spec-kit/project-service/pkg/util/errorutil"
)

// ProjectService coordinates project and application workflows, including
// the procedural cascade when a project is removed.
type ProjectService struct {
	projects repository.ProjectRepository
	apps     repository.ApplicationRepository
	tasks    repository.TaskRepository
	comments repository.CommentRepository
	entries  repository.TimeEntryRepository
	access   *AccessService
}

// ProjectDependencies bundles repositories for the project service.
type ProjectDependencies struct {
	ProjectRepo     repository.ProjectRepository
	ApplicationRepo repository.ApplicationRepository
	TaskRepo        repository.TaskRepository
	CommentRepo     repository.CommentRepository
	TimeEntryRepo   repository.TimeEntryRepository
	Access          *AccessService
}

// ProjectInput describes project create/update payloads.
type ProjectInput struct {
	Name        string
	Description string
	Status      domain.ProjectStatus
	StartDate   *time.Time
	DueDate     *time.Time
}

// ApplicationInput describes application create/update payloads.
type ApplicationInput struct {
	Name        string
	URL         *string
	Environment domain.ApplicationEnvironment
	Description *string
}

// ProjectDetail is a project with its applications and open task count.
type ProjectDetail struct {
	Project      domain.Project
	Applications []domain.Application
	OpenTasks    int
}

var validProjectStatuses = map[domain.ProjectStatus]struct{}{
	domain.ProjectStatusPlanned:   {},
	domain.ProjectStatusActive:    {},
	domain.ProjectStatusOnHold:    {},
	domain.ProjectStatusCompleted: {},
	domain.ProjectStatusArchived:  {},
}

var validEnvironments = map[domain.ApplicationEnvironment]struct{}{
	domain.EnvironmentDevelopment: {},
	domain.EnvironmentStaging:     {},
	domain.EnvironmentProduction:  {},
}

// NewProjectService constructs the service.
func NewProjectService(deps ProjectDependencies) *ProjectService {
	return &ProjectService{
		projects: deps.ProjectRepo,
		apps:     deps.ApplicationRepo,
		tasks:    deps.TaskRepo,
		comments: deps.CommentRepo,
		entries:  deps.TimeEntryRepo,
		access:   deps.Access,
	}
}

// CreateProject creates a project under a client.
func (s *ProjectService) CreateProject(ctx context.Context, userID, clientID string, input ProjectInput) (*domain.Project, error) {
	if err := s.access.Require(ctx, clientID, userID, PermEdit); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	status := input.Status
	if status == "" {
		status = domain.ProjectStatusPlanned
	}
	if _, ok := validProjectStatuses[status]; !ok {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}
	project := &domain.Project{
		ClientID:    clientID,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Status:      status,
		StartDate:   input.StartDate,
		DueDate:     input.DueDate,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// ListProjects returns a client's projects, optionally filtered by status.
func (s *ProjectService) ListProjects(ctx context.Context, userID, clientID string, statuses []domain.ProjectStatus) ([]domain.Project, error) {
	if err := s.access.Require(ctx, clientID, userID, PermView); err != nil {
		return nil, err
	}
	return s.projects.ListByClient(ctx, clientID, statuses)
}

// GetProject fetches a project with applications and open task count.
func (s *ProjectService) GetProject(ctx context.Context, userID, projectID string) (*ProjectDetail, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.access.Require(ctx, project.ClientID, userID, PermView); err != nil {
		return nil, err
	}
	apps, err := s.apps.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	open, err := s.tasks.CountOpenByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &ProjectDetail{Project: *project, Applications: apps, OpenTasks: open}, nil
}

// UpdateProject updates project fields.
func (s *ProjectService) UpdateProject(ctx context.Context, userID, projectID string, input ProjectInput) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.access.Require(ctx, project.ClientID, userID, PermEdit); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) != "" {
		project.Name = strings.TrimSpace(input.Name)
	}
	if input.Description != "" {
		project.Description = strings.TrimSpace(input.Description)
	}
	if input.Status != "" {
		if _, ok := validProjectStatuses[input.Status]; !ok {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": input.Status})
		}
		project.Status = input.Status
	}
	if input.StartDate != nil {
		project.StartDate = input.StartDate
	}
	if input.DueDate != nil {
		project.DueDate = input.DueDate
	}
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes a project and its children sequentially.
func (s *ProjectService) DeleteProject(ctx context.Context, userID, projectID string) error {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.access.Require(ctx, project.ClientID, userID, PermDelete); err != nil {
		return err
	}
	return s.deleteProjectCascade(ctx, projectID)
}

// deleteProjectCascade removes applications, then each task with its
// comments and time entries, then the project row. No transaction; the
// first error aborts the loop.
func (s *ProjectService) deleteProjectCascade(ctx context.Context, projectID string) error {
	if err := s.apps.DeleteByProject(ctx, projectID); err != nil {
		return err
	}
	taskIDs, err := s.tasks.ListIDsByProject(ctx, projectID)
	if err != nil {
		return err
	}
	for _, taskID := range taskIDs {
		if err := s.comments.DeleteByTask(ctx, taskID); err != nil {
			return err
		}
		if err := s.entries.DeleteByTask(ctx, taskID); err != nil {
			return err
		}
		if err := s.tasks.Delete(ctx, taskID); err != nil {
			return err
		}
	}
	return s.projects.Delete(ctx, projectID)
}

// CreateApplication records an application under a project.
func (s *ProjectService) CreateApplication(ctx context.Context, userID, projectID string, input ApplicationInput) (*domain.Application, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.access.Require(ctx, project.ClientID, userID, PermEdit); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	env := input.Environment
	if env == "" {
		env = domain.EnvironmentDevelopment
	}
	if _, ok := validEnvironments[env]; !ok {
		return nil, apperrors.NewValidationError("invalid environment", map[string]any{"environment": env})
	}
	app := &domain.Application{
		ProjectID:   projectID,
		Name:        strings.TrimSpace(input.Name),
		URL:         input.URL,
		Environment: env,
		Description: input.Description,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// ListApplications returns a project's applications.
func (s *ProjectService) ListApplications(ctx context.Context, userID, projectID string) ([]domain.Application, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.access.Require(ctx, project.ClientID, userID, PermView); err != nil {
		return nil, err
	}
	return s.apps.ListByProject(ctx, projectID)
}

// UpdateApplication updates application fields.
func (s *ProjectService) UpdateApplication(ctx context.Context, userID, appID string, input ApplicationInput) (*domain.Application, error) {
	app, err := s.apps.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.GetByID(ctx, app.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := s.access.Require(ctx, project.ClientID, userID, PermEdit); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) != "" {
		app.Name = strings.TrimSpace(input.Name)
	}
	if input.URL != nil {
		app.URL = input.URL
	}
	if input.Environment != "" {
		if _, ok := validEnvironments[input.Environment]; !ok {
			return nil, apperrors.NewValidationError("invalid environment", map[string]any{"environment": input.Environment})
		}
		app.Environment = input.Environment
	}
	if input.Description != nil {
		app.Description = input.Description
	}
	if err := s.apps.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// DeleteApplication removes a single application.
func (s *ProjectService) DeleteApplication(ctx context.Context, userID, appID string) error {
	app, err := s.apps.GetByID(ctx, appID)
	if err != nil {
		return err
	}
	project, err := s.projects.GetByID(ctx, app.ProjectID)
	if err != nil {
		return err
	}
	if err := s.access.Require(ctx, project.ClientID, userID, PermEdit); err != nil {
		return err
	}
	return s.apps.Delete(ctx, appID)
}
