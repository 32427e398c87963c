package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/repository"
)

// In-memory repository fakes backing the service tests.

type fakeStore struct {
	seq           int
	users         map[string]*domain.User
	clients       map[string]*domain.Client
	perms         map[string]*domain.ClientPermission
	teams         map[string]*domain.Team
	members       map[string]*domain.TeamMember
	projects      map[string]*domain.Project
	apps          map[string]*domain.Application
	tasks         map[string]*domain.Task
	comments      map[string]*domain.TaskComment
	entries       map[string]*domain.TimeEntry
	notifications map[string]*domain.Notification
	loans         map[string]*domain.Loan
	payments      map[string]*domain.LoanPayment
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         map[string]*domain.User{},
		clients:       map[string]*domain.Client{},
		perms:         map[string]*domain.ClientPermission{},
		teams:         map[string]*domain.Team{},
		members:       map[string]*domain.TeamMember{},
		projects:      map[string]*domain.Project{},
		apps:          map[string]*domain.Application{},
		tasks:         map[string]*domain.Task{},
		comments:      map[string]*domain.TaskComment{},
		entries:       map[string]*domain.TimeEntry{},
		notifications: map[string]*domain.Notification{},
		loans:         map[string]*domain.Loan{},
		payments:      map[string]*domain.LoanPayment{},
	}
}

func (s *fakeStore) nextID() string {
	s.seq++
	return fmt.Sprintf("id-%d", s.seq)
}

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = r.store.nextID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.store.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.store.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	r.store.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.store.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.store.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	var out []domain.User
	for _, id := range ids {
		if user, ok := r.store.users[id]; ok {
			out = append(out, *user)
		}
	}
	return out, nil
}

type fakeClientRepo struct{ store *fakeStore }

func (r *fakeClientRepo) Create(_ context.Context, client *domain.Client) error {
	client.ID = r.store.nextID()
	client.CreatedAt = time.Now()
	client.UpdatedAt = client.CreatedAt
	copied := *client
	r.store.clients[client.ID] = &copied
	return nil
}

func (r *fakeClientRepo) Update(_ context.Context, client *domain.Client) error {
	if _, ok := r.store.clients[client.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *client
	r.store.clients[client.ID] = &copied
	return nil
}

func (r *fakeClientRepo) GetByID(_ context.Context, id string) (*domain.Client, error) {
	client, ok := r.store.clients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *client
	return &copied, nil
}

func (r *fakeClientRepo) ListViewableByUser(_ context.Context, userID string) ([]domain.Client, error) {
	var out []domain.Client
	for _, perm := range r.store.perms {
		if perm.UserID != userID || !perm.CanView {
			continue
		}
		if client, ok := r.store.clients[perm.ClientID]; ok {
			out = append(out, *client)
		}
	}
	return out, nil
}

func (r *fakeClientRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.store.clients[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.clients, id)
	return nil
}

type fakePermissionRepo struct{ store *fakeStore }

func permKey(clientID, userID string) string { return clientID + "/" + userID }

func (r *fakePermissionRepo) Upsert(_ context.Context, perm *domain.ClientPermission) error {
	key := permKey(perm.ClientID, perm.UserID)
	if existing, ok := r.store.perms[key]; ok {
		perm.ID = existing.ID
	} else {
		perm.ID = r.store.nextID()
	}
	copied := *perm
	r.store.perms[key] = &copied
	return nil
}

func (r *fakePermissionRepo) GetForUser(_ context.Context, clientID, userID string) (*domain.ClientPermission, error) {
	perm, ok := r.store.perms[permKey(clientID, userID)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *perm
	return &copied, nil
}

func (r *fakePermissionRepo) ListByClient(_ context.Context, clientID string) ([]domain.ClientPermission, error) {
	var out []domain.ClientPermission
	for _, perm := range r.store.perms {
		if perm.ClientID == clientID {
			out = append(out, *perm)
		}
	}
	return out, nil
}

func (r *fakePermissionRepo) DeleteForUser(_ context.Context, clientID, userID string) error {
	delete(r.store.perms, permKey(clientID, userID))
	return nil
}

func (r *fakePermissionRepo) DeleteByClient(_ context.Context, clientID string) error {
	for key, perm := range r.store.perms {
		if perm.ClientID == clientID {
			delete(r.store.perms, key)
		}
	}
	return nil
}

type fakeTeamRepo struct{ store *fakeStore }

func (r *fakeTeamRepo) Create(_ context.Context, team *domain.Team) error {
	team.ID = r.store.nextID()
	team.CreatedAt = time.Now()
	team.UpdatedAt = team.CreatedAt
	copied := *team
	r.store.teams[team.ID] = &copied
	return nil
}

func (r *fakeTeamRepo) Update(_ context.Context, team *domain.Team) error {
	if _, ok := r.store.teams[team.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *team
	r.store.teams[team.ID] = &copied
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id string) (*domain.Team, error) {
	team, ok := r.store.teams[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *team
	return &copied, nil
}

func (r *fakeTeamRepo) ListByClient(_ context.Context, clientID string) ([]domain.Team, error) {
	var out []domain.Team
	for _, team := range r.store.teams {
		if team.ClientID == clientID {
			out = append(out, *team)
		}
	}
	return out, nil
}

func (r *fakeTeamRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.store.teams[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.teams, id)
	return nil
}

func (r *fakeTeamRepo) AddMember(_ context.Context, member *domain.TeamMember) error {
	for _, existing := range r.store.members {
		if existing.TeamID == member.TeamID && existing.UserID == member.UserID {
			member.ID = ""
			return nil
		}
	}
	member.ID = r.store.nextID()
	member.AddedAt = time.Now()
	copied := *member
	r.store.members[member.ID] = &copied
	return nil
}

func (r *fakeTeamRepo) RemoveMember(_ context.Context, teamID, userID string) error {
	for id, member := range r.store.members {
		if member.TeamID == teamID && member.UserID == userID {
			delete(r.store.members, id)
		}
	}
	return nil
}

func (r *fakeTeamRepo) ListMembers(_ context.Context, teamID string) ([]domain.TeamMember, error) {
	var out []domain.TeamMember
	for _, member := range r.store.members {
		if member.TeamID == teamID {
			out = append(out, *member)
		}
	}
	return out, nil
}

func (r *fakeTeamRepo) DeleteMembersByTeam(_ context.Context, teamID string) error {
	for id, member := range r.store.members {
		if member.TeamID == teamID {
			delete(r.store.members, id)
		}
	}
	return nil
}

type fakeProjectRepo struct{ store *fakeStore }

func (r *fakeProjectRepo) Create(_ context.Context, project *domain.Project) error {
	project.ID = r.store.nextID()
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	copied := *project
	r.store.projects[project.ID] = &copied
	return nil
}

func (r *fakeProjectRepo) Update(_ context.Context, project *domain.Project) error {
	if _, ok := r.store.projects[project.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *project
	r.store.projects[project.ID] = &copied
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id string) (*domain.Project, error) {
	project, ok := r.store.projects[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *project
	return &copied, nil
}

func (r *fakeProjectRepo) ListByClient(_ context.Context, clientID string, statuses []domain.ProjectStatus) ([]domain.Project, error) {
	var out []domain.Project
	for _, project := range r.store.projects {
		if project.ClientID != clientID {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, status := range statuses {
				if project.Status == status {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, *project)
	}
	return out, nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.store.projects[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.projects, id)
	return nil
}

type fakeApplicationRepo struct{ store *fakeStore }

func (r *fakeApplicationRepo) Create(_ context.Context, app *domain.Application) error {
	app.ID = r.store.nextID()
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt
	copied := *app
	r.store.apps[app.ID] = &copied
	return nil
}

func (r *fakeApplicationRepo) Update(_ context.Context, app *domain.Application) error {
	if _, ok := r.store.apps[app.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *app
	r.store.apps[app.ID] = &copied
	return nil
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id string) (*domain.Application, error) {
	app, ok := r.store.apps[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *app
	return &copied, nil
}

func (r *fakeApplicationRepo) ListByProject(_ context.Context, projectID string) ([]domain.Application, error) {
	var out []domain.Application
	for _, app := range r.store.apps {
		if app.ProjectID == projectID {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.store.apps[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.apps, id)
	return nil
}

func (r *fakeApplicationRepo) DeleteByProject(_ context.Context, projectID string) error {
	for id, app := range r.store.apps {
		if app.ProjectID == projectID {
			delete(r.store.apps, id)
		}
	}
	return nil
}

type fakeTaskRepo struct{ store *fakeStore }

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) error {
	task.ID = r.store.nextID()
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	copied := *task
	r.store.tasks[task.ID] = &copied
	return nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *domain.Task) error {
	if _, ok := r.store.tasks[task.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *task
	r.store.tasks[task.ID] = &copied
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	task, ok := r.store.tasks[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *task
	return &copied, nil
}

func (r *fakeTaskRepo) ListWithFilter(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range r.store.tasks {
		if filter.ProjectID != nil && task.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.AssigneeUserID != nil {
			if task.AssigneeUserID == nil || *task.AssigneeUserID != *filter.AssigneeUserID {
				continue
			}
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, status := range filter.Statuses {
				if task.Status == status {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, *task)
	}
	return out, nil
}

func (r *fakeTaskRepo) ListIDsByProject(_ context.Context, projectID string) ([]string, error) {
	var out []string
	for _, task := range r.store.tasks {
		if task.ProjectID == projectID {
			out = append(out, task.ID)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) CountOpenByProject(_ context.Context, projectID string) (int, error) {
	count := 0
	for _, task := range r.store.tasks {
		if task.ProjectID == projectID && task.Status != domain.TaskStatusDone {
			count++
		}
	}
	return count, nil
}

func (r *fakeTaskRepo) ListDueBetween(_ context.Context, from, to time.Time) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range r.store.tasks {
		if task.Status == domain.TaskStatusDone || task.DueDate == nil {
			continue
		}
		if task.DueDate.After(from) && task.DueDate.Before(to) {
			out = append(out, *task)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.store.tasks[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.tasks, id)
	return nil
}

type fakeCommentRepo struct{ store *fakeStore }

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.TaskComment) error {
	comment.ID = r.store.nextID()
	comment.CreatedAt = time.Now()
	copied := *comment
	r.store.comments[comment.ID] = &copied
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id string) (*domain.TaskComment, error) {
	comment, ok := r.store.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *comment
	return &copied, nil
}

func (r *fakeCommentRepo) ListByTask(_ context.Context, taskID string) ([]domain.TaskComment, error) {
	var out []domain.TaskComment
	for _, comment := range r.store.comments {
		if comment.TaskID == taskID {
			out = append(out, *comment)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.store.comments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.comments, id)
	return nil
}

func (r *fakeCommentRepo) DeleteByTask(_ context.Context, taskID string) error {
	for id, comment := range r.store.comments {
		if comment.TaskID == taskID {
			delete(r.store.comments, id)
		}
	}
	return nil
}

type fakeTimeEntryRepo struct{ store *fakeStore }

func (r *fakeTimeEntryRepo) Create(_ context.Context, entry *domain.TimeEntry) error {
	entry.ID = r.store.nextID()
	entry.CreatedAt = time.Now()
	copied := *entry
	r.store.entries[entry.ID] = &copied
	return nil
}

func (r *fakeTimeEntryRepo) Update(_ context.Context, entry *domain.TimeEntry) error {
	if _, ok := r.store.entries[entry.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *entry
	r.store.entries[entry.ID] = &copied
	return nil
}

func (r *fakeTimeEntryRepo) GetRunning(_ context.Context, taskID, userID string) (*domain.TimeEntry, error) {
	for _, entry := range r.store.entries {
		if entry.TaskID == taskID && entry.UserID == userID && entry.EndedAt == nil {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTimeEntryRepo) ListByTask(_ context.Context, taskID string) ([]domain.TimeEntry, error) {
	var out []domain.TimeEntry
	for _, entry := range r.store.entries {
		if entry.TaskID == taskID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (r *fakeTimeEntryRepo) ListByUser(_ context.Context, userID string, from, to *time.Time) ([]domain.TimeEntry, error) {
	var out []domain.TimeEntry
	for _, entry := range r.store.entries {
		if entry.UserID != userID {
			continue
		}
		if from != nil && entry.StartedAt.Before(*from) {
			continue
		}
		if to != nil && entry.StartedAt.After(*to) {
			continue
		}
		out = append(out, *entry)
	}
	return out, nil
}

func (r *fakeTimeEntryRepo) DeleteByTask(_ context.Context, taskID string) error {
	for id, entry := range r.store.entries {
		if entry.TaskID == taskID {
			delete(r.store.entries, id)
		}
	}
	return nil
}

type fakeNotificationRepo struct{ store *fakeStore }

func (r *fakeNotificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	notification.ID = r.store.nextID()
	notification.CreatedAt = time.Now()
	copied := *notification
	r.store.notifications[notification.ID] = &copied
	return nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id string) (*domain.Notification, error) {
	notification, ok := r.store.notifications[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *notification
	return &copied, nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, notification := range r.store.notifications {
		if notification.UserID != userID {
			continue
		}
		if unreadOnly && notification.ReadAt != nil {
			continue
		}
		out = append(out, *notification)
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id string, at time.Time) error {
	notification, ok := r.store.notifications[id]
	if !ok || notification.ReadAt != nil {
		return pgx.ErrNoRows
	}
	stamped := at
	notification.ReadAt = &stamped
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string, at time.Time) error {
	for _, notification := range r.store.notifications {
		if notification.UserID == userID && notification.ReadAt == nil {
			stamped := at
			notification.ReadAt = &stamped
		}
	}
	return nil
}

func (r *fakeNotificationRepo) ExistsSince(_ context.Context, userID string, kind domain.NotificationKind, subjectID string, since time.Time) (bool, error) {
	for _, notification := range r.store.notifications {
		if notification.UserID != userID || notification.Kind != kind {
			continue
		}
		if notification.SubjectID == nil || *notification.SubjectID != subjectID {
			continue
		}
		if notification.CreatedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

type fakeLoanRepo struct{ store *fakeStore }

func (r *fakeLoanRepo) Create(_ context.Context, loan *domain.Loan) error {
	loan.ID = r.store.nextID()
	loan.CreatedAt = time.Now()
	copied := *loan
	r.store.loans[loan.ID] = &copied
	return nil
}

func (r *fakeLoanRepo) Update(_ context.Context, loan *domain.Loan) error {
	if _, ok := r.store.loans[loan.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *loan
	r.store.loans[loan.ID] = &copied
	return nil
}

func (r *fakeLoanRepo) GetByID(_ context.Context, id string) (*domain.Loan, error) {
	loan, ok := r.store.loans[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *loan
	return &copied, nil
}

func (r *fakeLoanRepo) ListByClient(_ context.Context, clientID string) ([]domain.Loan, error) {
	var out []domain.Loan
	for _, loan := range r.store.loans {
		if loan.ClientID == clientID {
			out = append(out, *loan)
		}
	}
	return out, nil
}

func (r *fakeLoanRepo) ListOverdue(_ context.Context, asOf time.Time) ([]domain.Loan, error) {
	var out []domain.Loan
	for _, loan := range r.store.loans {
		if !loan.Closed && loan.DueOn != nil && loan.DueOn.Before(asOf) {
			out = append(out, *loan)
		}
	}
	return out, nil
}

func (r *fakeLoanRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.store.loans[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.store.loans, id)
	return nil
}

func (r *fakeLoanRepo) AddPayment(_ context.Context, payment *domain.LoanPayment) error {
	payment.ID = r.store.nextID()
	payment.CreatedAt = time.Now()
	copied := *payment
	r.store.payments[payment.ID] = &copied
	return nil
}

func (r *fakeLoanRepo) ListPayments(_ context.Context, loanID string) ([]domain.LoanPayment, error) {
	var out []domain.LoanPayment
	for _, payment := range r.store.payments {
		if payment.LoanID == loanID {
			out = append(out, *payment)
		}
	}
	return out, nil
}

func (r *fakeLoanRepo) DeletePaymentsByLoan(_ context.Context, loanID string) error {
	for id, payment := range r.store.payments {
		if payment.LoanID == loanID {
			delete(r.store.payments, id)
		}
	}
	return nil
}

var (
	_ repository.UserRepository         = (*fakeUserRepo)(nil)
	_ repository.ClientRepository       = (*fakeClientRepo)(nil)
	_ repository.PermissionRepository   = (*fakePermissionRepo)(nil)
	_ repository.TeamRepository         = (*fakeTeamRepo)(nil)
	_ repository.ProjectRepository      = (*fakeProjectRepo)(nil)
	_ repository.ApplicationRepository  = (*fakeApplicationRepo)(nil)
	_ repository.TaskRepository         = (*fakeTaskRepo)(nil)
	_ repository.CommentRepository      = (*fakeCommentRepo)(nil)
	_ repository.TimeEntryRepository    = (*fakeTimeEntryRepo)(nil)
	_ repository.NotificationRepository = (*fakeNotificationRepo)(nil)
	_ repository.LoanRepository         = (*fakeLoanRepo)(nil)
)
