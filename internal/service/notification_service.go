package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/project-service/internal/config"
	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/events"
	"github.com/spec-kit/project-service/internal/repository"
	apperrors "github.com/spec-kit/project-service/pkg/util/errorutil"
)

// NotificationService turns domain events into per-user inbox rows and
// serves the notification endpoints.
type NotificationService struct {
	notifications repository.NotificationRepository
	tasks         repository.TaskRepository
	loans         repository.LoanRepository
	clients       repository.ClientRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	cfg           config.NotificationConfig
}

// NotificationDependencies bundles requirements for the service.
type NotificationDependencies struct {
	NotificationRepo repository.NotificationRepository
	TaskRepo         repository.TaskRepository
	LoanRepo         repository.LoanRepository
	ClientRepo       repository.ClientRepository
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(cfg config.NotificationConfig, deps NotificationDependencies) *NotificationService {
	return &NotificationService{
		notifications: deps.NotificationRepo,
		tasks:         deps.TaskRepo,
		loans:         deps.LoanRepo,
		clients:       deps.ClientRepo,
		dispatcher:    deps.Dispatcher,
		logger:        deps.Logger,
		cfg:           cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTaskAssigned, n.handleTaskAssigned)
	n.dispatcher.Subscribe(events.EventTaskStatusChanged, n.handleTaskStatusChanged)
	n.dispatcher.Subscribe(events.EventCommentAdded, n.handleCommentAdded)
	n.dispatcher.Subscribe(events.EventTeamMemberAdded, n.handleTeamMemberAdded)
}

// List returns the caller's notifications.
func (n *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	return n.notifications.ListByUser(ctx, userID, unreadOnly, limit, offset)
}

// MarkRead stamps one notification read; only the owner may do so.
func (n *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	notification, err := n.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		// do not leak other users' notification ids
		return apperrors.NewNotFound("notification", nil)
	}
	if notification.ReadAt != nil {
		return nil
	}
	return n.notifications.MarkRead(ctx, notificationID, time.Now())
}

// MarkAllRead stamps every unread notification for the caller.
func (n *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return n.notifications.MarkAllRead(ctx, userID, time.Now())
}

// RunDueSoonScan writes reminders for tasks approaching their due date and
// loans past theirs. One reminder per subject per day.
func (n *NotificationService) RunDueSoonScan(ctx context.Context) error {
	now := time.Now()
	window := time.Duration(n.cfg.DueSoonWindowHours) * time.Hour
	if window <= 0 {
		window = 24 * time.Hour
	}
	dayAgo := now.Add(-24 * time.Hour)

	tasks, err := n.tasks.ListDueBetween(ctx, now, now.Add(window))
	if err != nil {
		return err
	}
	for _, task := range tasks {
		if task.AssigneeUserID == nil {
			continue
		}
		seen, err := n.notifications.ExistsSince(ctx, *task.AssigneeUserID, domain.NotificationTaskDueSoon, task.ID, dayAgo)
		if err != nil {
			return err
		}
		if seen {
			continue
		}
		subjectID := task.ID
		if err := n.notifications.Create(ctx, &domain.Notification{
			UserID:    *task.AssigneeUserID,
			Kind:      domain.NotificationTaskDueSoon,
			SubjectID: &subjectID,
			Message:   fmt.Sprintf("Task %q is due soon", task.Title),
		}); err != nil {
			return err
		}
	}

	loans, err := n.loans.ListOverdue(ctx, now)
	if err != nil {
		return err
	}
	for _, loan := range loans {
		client, err := n.clients.GetByID(ctx, loan.ClientID)
		if err != nil {
			return err
		}
		seen, err := n.notifications.ExistsSince(ctx, client.OwnerUserID, domain.NotificationLoanOverdue, loan.ID, dayAgo)
		if err != nil {
			return err
		}
		if seen {
			continue
		}
		subjectID := loan.ID
		if err := n.notifications.Create(ctx, &domain.Notification{
			UserID:    client.OwnerUserID,
			Kind:      domain.NotificationLoanOverdue,
			SubjectID: &subjectID,
			Message:   fmt.Sprintf("Loan %q for %s is overdue", loan.Label, client.CompanyName),
		}); err != nil {
			return err
		}
	}

	n.logger.Info("due-soon scan complete",
		zap.Int("tasks", len(tasks)),
		zap.Int("overdue_loans", len(loans)))
	return nil
}

func (n *NotificationService) handleTaskAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TaskAssignedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("TaskAssigned", zap.String("task_id", payload.TaskID), zap.String("assignee", payload.AssigneeUserID))
	subjectID := payload.TaskID
	return n.notifications.Create(ctx, &domain.Notification{
		UserID:    payload.AssigneeUserID,
		Kind:      domain.NotificationTaskAssigned,
		SubjectID: &subjectID,
		Message:   fmt.Sprintf("You were assigned task %q", payload.TaskTitle),
	})
}

func (n *NotificationService) handleTaskStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TaskStatusChangedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("TaskStatusChanged", zap.String("task_id", payload.TaskID),
		zap.String("old", string(payload.OldStatus)), zap.String("new", string(payload.NewStatus)))
	if payload.AssigneeUserID == nil || *payload.AssigneeUserID == event.ActorUserID {
		return nil
	}
	subjectID := payload.TaskID
	return n.notifications.Create(ctx, &domain.Notification{
		UserID:    *payload.AssigneeUserID,
		Kind:      domain.NotificationTaskStatus,
		SubjectID: &subjectID,
		Message:   fmt.Sprintf("Task %q moved to %s", payload.TaskTitle, payload.NewStatus),
	})
}

func (n *NotificationService) handleCommentAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CommentAddedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("CommentAdded", zap.String("task_id", payload.TaskID), zap.String("comment_id", payload.CommentID))
	if payload.AssigneeUserID == nil || *payload.AssigneeUserID == event.ActorUserID {
		return nil
	}
	subjectID := payload.TaskID
	return n.notifications.Create(ctx, &domain.Notification{
		UserID:    *payload.AssigneeUserID,
		Kind:      domain.NotificationCommentAdded,
		SubjectID: &subjectID,
		Message:   fmt.Sprintf("New comment on %q: %s", payload.TaskTitle, payload.BodyPreview),
	})
}

func (n *NotificationService) handleTeamMemberAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TeamMemberAddedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("TeamMemberAdded", zap.String("team_id", payload.TeamID), zap.String("user_id", payload.UserID))
	if payload.UserID == event.ActorUserID {
		return nil
	}
	subjectID := payload.TeamID
	return n.notifications.Create(ctx, &domain.Notification{
		UserID:    payload.UserID,
		Kind:      domain.NotificationMemberAdded,
		SubjectID: &subjectID,
		Message:   fmt.Sprintf("You were added to team %q", payload.TeamName),
	})
}
