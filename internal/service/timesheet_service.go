package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/repository"
	apperrors "github.com/spec-kit/project-service/pkg/util/errorutil"
)

// TimesheetService coordinates timers and manual time entries.
type TimesheetService struct {
	entries  repository.TimeEntryRepository
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	access   *AccessService
}

// TimesheetDependencies bundles repositories for the timesheet service.
type TimesheetDependencies struct {
	TimeEntryRepo repository.TimeEntryRepository
	TaskRepo      repository.TaskRepository
	ProjectRepo   repository.ProjectRepository
	Access        *AccessService
}

// ManualEntryInput describes a hand-entered time entry.
type ManualEntryInput struct {
	StartedAt time.Time
	EndedAt   time.Time
	Note      *string
}

// TaskTimeSummary is a task's entries plus total logged duration.
type TaskTimeSummary struct {
	Entries []domain.TimeEntry
	Total   time.Duration
}

// NewTimesheetService constructs the service.
func NewTimesheetService(deps TimesheetDependencies) *TimesheetService {
	return &TimesheetService{
		entries:  deps.TimeEntryRepo,
		tasks:    deps.TaskRepo,
		projects: deps.ProjectRepo,
		access:   deps.Access,
	}
}

// StartTimer opens a running entry for the caller on a task.
// A second start while one is running is a conflict.
func (s *TimesheetService) StartTimer(ctx context.Context, userID, taskID string, note *string) (*domain.TimeEntry, error) {
	if err := s.requireTaskAccess(ctx, userID, taskID); err != nil {
		return nil, err
	}
	if _, err := s.entries.GetRunning(ctx, taskID, userID); err == nil {
		return nil, apperrors.NewConflict("timer already running for task", nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	entry := &domain.TimeEntry{
		TaskID:    taskID,
		UserID:    userID,
		StartedAt: time.Now(),
		Note:      note,
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// StopTimer closes the caller's running entry on a task.
func (s *TimesheetService) StopTimer(ctx context.Context, userID, taskID string) (*domain.TimeEntry, error) {
	if err := s.requireTaskAccess(ctx, userID, taskID); err != nil {
		return nil, err
	}
	entry, err := s.entries.GetRunning(ctx, taskID, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("running timer", nil)
		}
		return nil, err
	}
	now := time.Now()
	entry.EndedAt = &now
	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// AddManualEntry records a closed entry with explicit bounds.
func (s *TimesheetService) AddManualEntry(ctx context.Context, userID, taskID string, input ManualEntryInput) (*domain.TimeEntry, error) {
	if err := s.requireTaskAccess(ctx, userID, taskID); err != nil {
		return nil, err
	}
	if input.StartedAt.IsZero() || input.EndedAt.IsZero() {
		return nil, apperrors.NewValidationError("started_at and ended_at required", nil)
	}
	if !input.EndedAt.After(input.StartedAt) {
		return nil, apperrors.NewValidationError("ended_at must be after started_at", nil)
	}
	ended := input.EndedAt
	entry := &domain.TimeEntry{
		TaskID:    taskID,
		UserID:    userID,
		StartedAt: input.StartedAt,
		EndedAt:   &ended,
		Note:      input.Note,
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// TaskSummary returns a task's entries with the total closed duration.
func (s *TimesheetService) TaskSummary(ctx context.Context, userID, taskID string) (*TaskTimeSummary, error) {
	if err := s.requireTaskAccess(ctx, userID, taskID); err != nil {
		return nil, err
	}
	entries, err := s.entries.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	var total time.Duration
	for _, entry := range entries {
		total += entry.Duration()
	}
	return &TaskTimeSummary{Entries: entries, Total: total}, nil
}

// MyEntries returns the caller's entries across all tasks.
func (s *TimesheetService) MyEntries(ctx context.Context, userID string, from, to *time.Time) ([]domain.TimeEntry, error) {
	return s.entries.ListByUser(ctx, userID, from, to)
}

// requireTaskAccess resolves the owning client and checks can_view.
func (s *TimesheetService) requireTaskAccess(ctx context.Context, userID, taskID string) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	project, err := s.projects.GetByID(ctx, task.ProjectID)
	if err != nil {
		return err
	}
	return s.access.Require(ctx, project.ClientID, userID, PermView)
}
