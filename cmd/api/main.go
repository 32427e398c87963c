package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/project-service/internal/api/http"
	"github.com/spec-kit/project-service/internal/api/http/handlers"
	"github.com/spec-kit/project-service/internal/auth"
	"github.com/spec-kit/project-service/internal/config"
	"github.com/spec-kit/project-service/internal/events"
	"github.com/spec-kit/project-service/internal/observability"
	"github.com/spec-kit/project-service/internal/persistence"
	"github.com/spec-kit/project-service/internal/repository"
	"github.com/spec-kit/project-service/internal/service"
	"github.com/spec-kit/project-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	permissionRepo := repository.NewPermissionRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	applicationRepo := repository.NewApplicationRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	timeEntryRepo := repository.NewTimeEntryRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	loanRepo := repository.NewLoanRepository(pool)

	sessionStore := auth.NewRedisSessionStore(redis.Client)
	dispatcher := events.NewInMemoryDispatcher()

	accessService := service.NewAccessService(permissionRepo)
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:     userRepo,
		SessionStore: sessionStore,
	})
	projectService := service.NewProjectService(service.ProjectDependencies{
		ProjectRepo:     projectRepo,
		ApplicationRepo: applicationRepo,
		TaskRepo:        taskRepo,
		CommentRepo:     commentRepo,
		TimeEntryRepo:   timeEntryRepo,
		Access:          accessService,
	})
	clientService := service.NewClientService(service.ClientDependencies{
		ClientRepo:     clientRepo,
		PermissionRepo: permissionRepo,
		ProjectRepo:    projectRepo,
		TeamRepo:       teamRepo,
		LoanRepo:       loanRepo,
		ProjectService: projectService,
		Access:         accessService,
		Logger:         logger,
	})
	taskService := service.NewTaskService(service.TaskDependencies{
		TaskRepo:      taskRepo,
		CommentRepo:   commentRepo,
		TimeEntryRepo: timeEntryRepo,
		ProjectRepo:   projectRepo,
		Access:        accessService,
		Dispatcher:    dispatcher,
	})
	teamService := service.NewTeamService(service.TeamDependencies{
		TeamRepo:   teamRepo,
		UserRepo:   userRepo,
		Access:     accessService,
		Dispatcher: dispatcher,
	})
	timesheetService := service.NewTimesheetService(service.TimesheetDependencies{
		TimeEntryRepo: timeEntryRepo,
		TaskRepo:      taskRepo,
		ProjectRepo:   projectRepo,
		Access:        accessService,
	})
	loanService := service.NewLoanService(service.LoanDependencies{
		LoanRepo: loanRepo,
		Access:   accessService,
	})
	notificationService := service.NewNotificationService(cfg.Notification, service.NotificationDependencies{
		NotificationRepo: notificationRepo,
		TaskRepo:         taskRepo,
		LoanRepo:         loanRepo,
		ClientRepo:       clientRepo,
		Dispatcher:       dispatcher,
		Logger:           logger,
	})

	worker.StartNotificationWorker(notificationService)
	reminderWorker := worker.StartReminderWorker(cfg.Scheduler, notificationService, logger)
	defer reminderWorker.Stop()

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, sessionStore, cfg.Auth.CookieName)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, cfg.Auth),
		Clients:        handlers.NewClientsHandler(clientService),
		Teams:          handlers.NewTeamsHandler(teamService),
		Projects:       handlers.NewProjectsHandler(projectService),
		Tasks:          handlers.NewTasksHandler(taskService),
		Time:           handlers.NewTimeHandler(timesheetService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Loans:          handlers.NewLoansHandler(loanService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
