package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/project-service/internal/config"
	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/events"
)

// memorySessionStore is an in-process SessionStore used by auth tests.
type memorySessionStore struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{revoked: map[string]bool{}}
}

func (s *memorySessionStore) Revoke(_ context.Context, jti string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = true
	return nil
}

func (s *memorySessionStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoked[jti], nil
}

// testEnv wires every service over the in-memory fakes with a live
// dispatcher, so event fan-out runs end to end.
type testEnv struct {
	store         *fakeStore
	users         *fakeUserRepo
	clients       *fakeClientRepo
	perms         *fakePermissionRepo
	teams         *fakeTeamRepo
	projects      *fakeProjectRepo
	apps          *fakeApplicationRepo
	tasks         *fakeTaskRepo
	comments      *fakeCommentRepo
	entries       *fakeTimeEntryRepo
	notifications *fakeNotificationRepo
	loans         *fakeLoanRepo

	sessions   *memorySessionStore
	dispatcher events.Dispatcher

	access       *AccessService
	auth         *AuthService
	client       *ClientService
	project      *ProjectService
	task         *TaskService
	team         *TeamService
	timesheet    *TimesheetService
	loan         *LoanService
	notification *NotificationService
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	env := &testEnv{
		store:         store,
		users:         &fakeUserRepo{store: store},
		clients:       &fakeClientRepo{store: store},
		perms:         &fakePermissionRepo{store: store},
		teams:         &fakeTeamRepo{store: store},
		projects:      &fakeProjectRepo{store: store},
		apps:          &fakeApplicationRepo{store: store},
		tasks:         &fakeTaskRepo{store: store},
		comments:      &fakeCommentRepo{store: store},
		entries:       &fakeTimeEntryRepo{store: store},
		notifications: &fakeNotificationRepo{store: store},
		loans:         &fakeLoanRepo{store: store},
		sessions:      newMemorySessionStore(),
		dispatcher:    events.NewInMemoryDispatcher(),
	}

	logger := zap.NewNop()

	env.access = NewAccessService(env.perms)
	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:         "test-secret",
		SessionTTLMinutes: 60,
		BcryptCost:        4,
	}}
	env.auth = NewAuthService(cfg, AuthDependencies{
		UserRepo:     env.users,
		SessionStore: env.sessions,
	})
	env.project = NewProjectService(ProjectDependencies{
		ProjectRepo:     env.projects,
		ApplicationRepo: env.apps,
		TaskRepo:        env.tasks,
		CommentRepo:     env.comments,
		TimeEntryRepo:   env.entries,
		Access:          env.access,
	})
	env.client = NewClientService(ClientDependencies{
		ClientRepo:     env.clients,
		PermissionRepo: env.perms,
		ProjectRepo:    env.projects,
		TeamRepo:       env.teams,
		LoanRepo:       env.loans,
		ProjectService: env.project,
		Access:         env.access,
		Logger:         logger,
	})
	env.task = NewTaskService(TaskDependencies{
		TaskRepo:      env.tasks,
		CommentRepo:   env.comments,
		TimeEntryRepo: env.entries,
		ProjectRepo:   env.projects,
		Access:        env.access,
		Dispatcher:    env.dispatcher,
	})
	env.team = NewTeamService(TeamDependencies{
		TeamRepo:   env.teams,
		UserRepo:   env.users,
		Access:     env.access,
		Dispatcher: env.dispatcher,
	})
	env.timesheet = NewTimesheetService(TimesheetDependencies{
		TimeEntryRepo: env.entries,
		TaskRepo:      env.tasks,
		ProjectRepo:   env.projects,
		Access:        env.access,
	})
	env.loan = NewLoanService(LoanDependencies{
		LoanRepo: env.loans,
		Access:   env.access,
	})
	env.notification = NewNotificationService(config.NotificationConfig{DueSoonWindowHours: 24}, NotificationDependencies{
		NotificationRepo: env.notifications,
		TaskRepo:         env.tasks,
		LoanRepo:         env.loans,
		ClientRepo:       env.clients,
		Dispatcher:       env.dispatcher,
		Logger:           logger,
	})
	env.notification.RegisterHandlers()

	return env
}

func (e *testEnv) seedUser(name, email string) *domain.User {
	user := &domain.User{Name: name, Email: email, PasswordHash: "x", Status: domain.UserStatusActive}
	_ = e.users.Create(context.Background(), user)
	return user
}

func (e *testEnv) seedClient(ownerID, company string) *domain.Client {
	client, err := e.client.CreateClient(context.Background(), ownerID, ClientInput{CompanyName: company})
	if err != nil {
		panic(err)
	}
	return client
}

func (e *testEnv) grant(clientID, userID string, input PermissionInput) {
	perm := &domain.ClientPermission{
		ClientID:      clientID,
		UserID:        userID,
		CanView:       input.CanView,
		CanEdit:       input.CanEdit,
		CanDelete:     input.CanDelete,
		CanManageTeam: input.CanManageTeam,
		CanManageTask: input.CanManageTask,
	}
	_ = e.perms.Upsert(context.Background(), perm)
}
