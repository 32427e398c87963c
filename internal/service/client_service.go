package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/repository"
	apperrors "github.com/spec-kit/project-service/pkg/util/errorutil"
)

// ClientService coordinates client (tenant) workflows including the
// procedural cascade on delete.
type ClientService struct {
	clients  repository.ClientRepository
	perms    repository.PermissionRepository
	projects repository.ProjectRepository
	teams    repository.TeamRepository
	loans    repository.LoanRepository
	projSvc  *ProjectService
	access   *AccessService
	logger   *zap.Logger
}

// ClientDependencies bundles repositories for the client service.
type ClientDependencies struct {
	ClientRepo     repository.ClientRepository
	PermissionRepo repository.PermissionRepository
	ProjectRepo    repository.ProjectRepository
	TeamRepo       repository.TeamRepository
	LoanRepo       repository.LoanRepository
	ProjectService *ProjectService
	Access         *AccessService
	Logger         *zap.Logger
}

// ClientInput describes client create/update payloads.
type ClientInput struct {
	CompanyName string
	ContactName string
	Email       string
	Phone       *string
	Address     *string
	Notes       *string
	IsActive    *bool
}

// PermissionInput describes a permission upsert payload.
type PermissionInput struct {
	CanView       bool
	CanEdit       bool
	CanDelete     bool
	CanManageTeam bool
	CanManageTask bool
}

// NewClientService constructs the service.
func NewClientService(deps ClientDependencies) *ClientService {
	return &ClientService{
		clients:  deps.ClientRepo,
		perms:    deps.PermissionRepo,
		projects: deps.ProjectRepo,
		teams:    deps.TeamRepo,
		loans:    deps.LoanRepo,
		projSvc:  deps.ProjectService,
		access:   deps.Access,
		logger:   deps.Logger,
	}
}

// CreateClient creates a client and grants the creator the owner permission row.
func (s *ClientService) CreateClient(ctx context.Context, userID string, input ClientInput) (*domain.Client, error) {
	if strings.TrimSpace(input.CompanyName) == "" {
		return nil, apperrors.NewValidationError("company_name required", nil)
	}
	client := &domain.Client{
		OwnerUserID: userID,
		CompanyName: strings.TrimSpace(input.CompanyName),
		ContactName: strings.TrimSpace(input.ContactName),
		Email:       strings.TrimSpace(input.Email),
		Phone:       input.Phone,
		Address:     input.Address,
		Notes:       input.Notes,
		IsActive:    true,
	}
	if input.IsActive != nil {
		client.IsActive = *input.IsActive
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}
	if err := s.perms.Upsert(ctx, domain.OwnerPermission(client.ID, userID)); err != nil {
		return nil, err
	}
	return client, nil
}

// ListClients returns clients the caller can view.
func (s *ClientService) ListClients(ctx context.Context, userID string) ([]domain.Client, error) {
	return s.clients.ListViewableByUser(ctx, userID)
}

// GetClient fetches a client, enforcing can_view.
func (s *ClientService) GetClient(ctx context.Context, userID, clientID string) (*domain.Client, error) {
	if err := s.access.Require(ctx, clientID, userID, PermView); err != nil {
		return nil, err
	}
	return s.clients.GetByID(ctx, clientID)
}

// UpdateClient updates client fields, enforcing can_edit.
func (s *ClientService) UpdateClient(ctx context.Context, userID, clientID string, input ClientInput) (*domain.Client, error) {
	if err := s.access.Require(ctx, clientID, userID, PermEdit); err != nil {
		return nil, err
	}
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.CompanyName) != "" {
		client.CompanyName = strings.TrimSpace(input.CompanyName)
	}
	if strings.TrimSpace(input.ContactName) != "" {
		client.ContactName = strings.TrimSpace(input.ContactName)
	}
	if strings.TrimSpace(input.Email) != "" {
		client.Email = strings.TrimSpace(input.Email)
	}
	if input.Phone != nil {
		client.Phone = input.Phone
	}
	if input.Address != nil {
		client.Address = input.Address
	}
	if input.Notes != nil {
		client.Notes = input.Notes
	}
	if input.IsActive != nil {
		client.IsActive = *input.IsActive
	}
	if err := s.clients.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// DeleteClient removes the client and everything under it. Children are
// removed with sequential repository calls; the first failure aborts and
// surfaces, leaving earlier deletions in place.
func (s *ClientService) DeleteClient(ctx context.Context, userID, clientID string) error {
	if err := s.access.Require(ctx, clientID, userID, PermDelete); err != nil {
		return err
	}
	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		return err
	}

	projects, err := s.projects.ListByClient(ctx, clientID, nil)
	if err != nil {
		return err
	}
	for _, project := range projects {
		if err := s.projSvc.deleteProjectCascade(ctx, project.ID); err != nil {
			return err
		}
	}

	teams, err := s.teams.ListByClient(ctx, clientID)
	if err != nil {
		return err
	}
	for _, team := range teams {
		if err := s.teams.DeleteMembersByTeam(ctx, team.ID); err != nil {
			return err
		}
		if err := s.teams.Delete(ctx, team.ID); err != nil {
			return err
		}
	}

	loans, err := s.loans.ListByClient(ctx, clientID)
	if err != nil {
		return err
	}
	for _, loan := range loans {
		if err := s.loans.DeletePaymentsByLoan(ctx, loan.ID); err != nil {
			return err
		}
		if err := s.loans.Delete(ctx, loan.ID); err != nil {
			return err
		}
	}

	if err := s.perms.DeleteByClient(ctx, clientID); err != nil {
		return err
	}

	s.logger.Info("client deleted",
		zap.String("client_id", clientID),
		zap.Int("projects", len(projects)),
		zap.Int("teams", len(teams)),
		zap.Int("loans", len(loans)),
	)
	return s.clients.Delete(ctx, clientID)
}

// ListPermissions returns the permission rows for a client.
func (s *ClientService) ListPermissions(ctx context.Context, userID, clientID string) ([]domain.ClientPermission, error) {
	if err := s.access.Require(ctx, clientID, userID, PermManageTeam); err != nil {
		return nil, err
	}
	return s.perms.ListByClient(ctx, clientID)
}

// UpsertPermission sets flags for a user on a client. The owner row cannot
// be downgraded.
func (s *ClientService) UpsertPermission(ctx context.Context, callerID, clientID, targetUserID string, input PermissionInput) (*domain.ClientPermission, error) {
	if err := s.access.Require(ctx, clientID, callerID, PermManageTeam); err != nil {
		return nil, err
	}
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client.OwnerUserID == targetUserID {
		return nil, apperrors.NewConflict("owner permissions cannot be changed", nil)
	}
	perm := &domain.ClientPermission{
		ClientID:      clientID,
		UserID:        targetUserID,
		CanView:       input.CanView,
		CanEdit:       input.CanEdit,
		CanDelete:     input.CanDelete,
		CanManageTeam: input.CanManageTeam,
		CanManageTask: input.CanManageTask,
	}
	if err := s.perms.Upsert(ctx, perm); err != nil {
		return nil, err
	}
	return perm, nil
}

// RevokePermission removes a user's access to a client.
func (s *ClientService) RevokePermission(ctx context.Context, callerID, clientID, targetUserID string) error {
	if err := s.access.Require(ctx, clientID, callerID, PermManageTeam); err != nil {
		return err
	}
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return err
	}
	if client.OwnerUserID == targetUserID {
		return apperrors.NewConflict("owner access cannot be revoked", nil)
	}
	return s.perms.DeleteForUser(ctx, clientID, targetUserID)
}
