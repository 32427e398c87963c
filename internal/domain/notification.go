package domain

import "time"

// NotificationKind enumerates notification triggers.
type NotificationKind string

const (
	NotificationTaskAssigned  NotificationKind = "TASK_ASSIGNED"
	NotificationTaskStatus    NotificationKind = "TASK_STATUS_CHANGED"
	NotificationCommentAdded  NotificationKind = "COMMENT_ADDED"
	NotificationMemberAdded   NotificationKind = "TEAM_MEMBER_ADDED"
	NotificationTaskDueSoon   NotificationKind = "TASK_DUE_SOON"
	NotificationLoanOverdue   NotificationKind = "LOAN_OVERDUE"
)

// Notification is a per-user inbox row.
type Notification struct {
	ID        string
	UserID    string
	Kind      NotificationKind
	SubjectID *string
	Message   string
	ReadAt    *time.Time
	CreatedAt time.Time
}

// Unread reports whether the notification has not been acknowledged.
func (n Notification) Unread() bool {
	return n.ReadAt == nil
}
