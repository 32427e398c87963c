package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/events"
	"github.com/spec-kit/project-service/internal/repository"
	apperrors "github.com/spec-kit/project-service/pkg/util/errorutil"
)

// TaskService coordinates task and comment workflows.
type TaskService struct {
	tasks      repository.TaskRepository
	comments   repository.CommentRepository
	entries    repository.TimeEntryRepository
	projects   repository.ProjectRepository
	access     *AccessService
	dispatcher events.Dispatcher
}

// TaskDependencies bundles repositories for the task service.
type TaskDependencies struct {
	TaskRepo      repository.TaskRepository
	CommentRepo   repository.CommentRepository
	TimeEntryRepo repository.TimeEntryRepository
	ProjectRepo   repository.ProjectRepository
	Access        *AccessService
	Dispatcher    events.Dispatcher
}

// TaskCreateInput describes task creation payloads.
type TaskCreateInput struct {
	Title          string
	Description    string
	Priority       domain.TaskPriority
	AssigneeUserID *string
	DueDate        *time.Time
}

// TaskUpdateInput describes task update payloads. Nil fields are unchanged.
type TaskUpdateInput struct {
	Title          *string
	Description    *string
	Status         *domain.TaskStatus
	Priority       *domain.TaskPriority
	AssigneeUserID *string
	ClearAssignee  bool
	DueDate        *time.Time
}

// TaskListFilter describes task listing parameters.
type TaskListFilter struct {
	Statuses       []domain.TaskStatus
	Priorities     []domain.TaskPriority
	AssigneeUserID *string
	Limit          int
	Offset         int
}

// TaskDetail is a task with comments and logged time.
type TaskDetail struct {
	Task        domain.Task
	Comments    []domain.TaskComment
	LoggedTotal time.Duration
}

var validTaskStatuses = map[domain.TaskStatus]struct{}{
	domain.TaskStatusTodo:       {},
	domain.TaskStatusInProgress: {},
	domain.TaskStatusReview:     {},
	domain.TaskStatusDone:       {},
}

var validTaskPriorities = map[domain.TaskPriority]struct{}{
	domain.TaskPriorityLow:    {},
	domain.TaskPriorityMedium: {},
	domain.TaskPriorityHigh:   {},
	domain.TaskPriorityUrgent: {},
}

// NewTaskService constructs the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	return &TaskService{
		tasks:      deps.TaskRepo,
		comments:   deps.CommentRepo,
		entries:    deps.TimeEntryRepo,
		projects:   deps.ProjectRepo,
		access:     deps.Access,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTask creates a task under a project.
func (s *TaskService) CreateTask(ctx context.Context, userID, projectID string, input TaskCreateInput) (*domain.Task, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.access.Require(ctx, project.ClientID, userID, PermManageTask); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TaskPriorityMedium
	}
	if _, ok := validTaskPriorities[priority]; !ok {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}

	task := &domain.Task{
		ProjectID:      projectID,
		AssigneeUserID: input.AssigneeUserID,
		Title:          strings.TrimSpace(input.Title),
		Description:    strings.TrimSpace(input.Description),
		Status:         domain.TaskStatusTodo,
		Priority:       priority,
		DueDate:        input.DueDate,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	if task.AssigneeUserID != nil && *task.AssigneeUserID != userID {
		s.publishEvent(ctx, events.Event{
			Type:        events.EventTaskAssigned,
			ActorUserID: userID,
			Payload: events.TaskAssignedPayload{
				TaskID:         task.ID,
				TaskTitle:      task.Title,
				AssigneeUserID: *task.AssigneeUserID,
			},
		})
	}
	return task, nil
}

// ListTasks returns tasks under a project.
func (s *TaskService) ListTasks(ctx context.Context, userID, projectID string, filter TaskListFilter) ([]domain.Task, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.access.Require(ctx, project.ClientID, userID, PermView); err != nil {
		return nil, err
	}
	repoFilter := repository.TaskFilter{
		ProjectID:      &projectID,
		AssigneeUserID: filter.AssigneeUserID,
		Statuses:       filter.Statuses,
		Priorities:     filter.Priorities,
		Limit:          filter.Limit,
		Offset:         filter.Offset,
	}
	return s.tasks.ListWithFilter(ctx, repoFilter)
}

// GetTask fetches a task with its comments and logged time.
func (s *TaskService) GetTask(ctx context.Context, userID, taskID string) (*TaskDetail, error) {
	task, _, err := s.taskWithViewAccess(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByTask(ctx, taskID)
	if err != nil {
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
	return &TaskDetail{Task: *task, Comments: comments, LoggedTotal: total}, nil
}

// UpdateTask applies field updates and emits assignment/status events.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID string, input TaskUpdateInput) (*domain.Task, error) {
	task, _, err := s.taskWithManageAccess(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	oldStatus := task.Status
	oldAssignee := task.AssigneeUserID

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, apperrors.NewValidationError("title cannot be empty", nil)
		}
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		if _, ok := validTaskStatuses[*input.Status]; !ok {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if _, ok := validTaskPriorities[*input.Priority]; !ok {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": *input.Priority})
		}
		task.Priority = *input.Priority
	}
	if input.ClearAssignee {
		task.AssigneeUserID = nil
	} else if input.AssigneeUserID != nil {
		task.AssigneeUserID = input.AssigneeUserID
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if task.Status == domain.TaskStatusDone && oldStatus != domain.TaskStatusDone {
		now := time.Now()
		task.CompletedAt = &now
	} else if task.Status != domain.TaskStatusDone {
		task.CompletedAt = nil
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	if task.AssigneeUserID != nil && (oldAssignee == nil || *oldAssignee != *task.AssigneeUserID) && *task.AssigneeUserID != userID {
		s.publishEvent(ctx, events.Event{
			Type:        events.EventTaskAssigned,
			ActorUserID: userID,
			Payload: events.TaskAssignedPayload{
				TaskID:         task.ID,
				TaskTitle:      task.Title,
				AssigneeUserID: *task.AssigneeUserID,
			},
		})
	}
	if task.Status != oldStatus {
		s.publishEvent(ctx, events.Event{
			Type:        events.EventTaskStatusChanged,
			ActorUserID: userID,
			Payload: events.TaskStatusChangedPayload{
				TaskID:         task.ID,
				TaskTitle:      task.Title,
				AssigneeUserID: task.AssigneeUserID,
				OldStatus:      oldStatus,
				NewStatus:      task.Status,
			},
		})
	}
	return task, nil
}

// DeleteTask removes a task and its comments and time entries sequentially.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID string) error {
	if _, _, err := s.taskWithManageAccess(ctx, userID, taskID); err != nil {
		return err
	}
	if err := s.comments.DeleteByTask(ctx, taskID); err != nil {
		return err
	}
	if err := s.entries.DeleteByTask(ctx, taskID); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, taskID)
}

// AddComment appends a comment to a task and notifies the assignee.
func (s *TaskService) AddComment(ctx context.Context, userID, taskID, body string) (*domain.TaskComment, error) {
	task, _, err := s.taskWithViewAccess(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("body required", nil)
	}
	comment := &domain.TaskComment{
		TaskID:       taskID,
		AuthorUserID: userID,
		Body:         strings.TrimSpace(body),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventCommentAdded,
		ActorUserID: userID,
		Payload: events.CommentAddedPayload{
			TaskID:         task.ID,
			TaskTitle:      task.Title,
			CommentID:      comment.ID,
			AssigneeUserID: task.AssigneeUserID,
			BodyPreview:    stringPreview(comment.Body, 120),
		},
	})
	return comment, nil
}

// ListComments returns a task's comments.
func (s *TaskService) ListComments(ctx context.Context, userID, taskID string) ([]domain.TaskComment, error) {
	if _, _, err := s.taskWithViewAccess(ctx, userID, taskID); err != nil {
		return nil, err
	}
	return s.comments.ListByTask(ctx, taskID)
}

// DeleteComment removes a comment; allowed for its author or can_edit holders.
func (s *TaskService) DeleteComment(ctx context.Context, userID, commentID string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorUserID != userID {
		task, err := s.tasks.GetByID(ctx, comment.TaskID)
		if err != nil {
			return err
		}
		project, err := s.projects.GetByID(ctx, task.ProjectID)
		if err != nil {
			return err
		}
		if err := s.access.Require(ctx, project.ClientID, userID, PermEdit); err != nil {
			return err
		}
	}
	return s.comments.Delete(ctx, commentID)
}

func (s *TaskService) taskWithViewAccess(ctx context.Context, userID, taskID string) (*domain.Task, *domain.Project, error) {
	return s.taskWithAccess(ctx, userID, taskID, PermView)
}

func (s *TaskService) taskWithManageAccess(ctx context.Context, userID, taskID string) (*domain.Task, *domain.Project, error) {
	return s.taskWithAccess(ctx, userID, taskID, PermManageTask)
}

func (s *TaskService) taskWithAccess(ctx context.Context, userID, taskID string, flag Permission) (*domain.Task, *domain.Project, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	project, err := s.projects.GetByID(ctx, task.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.access.Require(ctx, project.ClientID, userID, flag); err != nil {
		return nil, nil, err
	}
	return task, project, nil
}

func (s *TaskService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
