package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/repository"
	apperrors "github.com/spec-kit/project-service/pkg/util/errorutil"
)

// Permission names one access flag on a client permission row.
type Permission string

const (
	PermView       Permission = "can_view"
	PermEdit       Permission = "can_edit"
	PermDelete     Permission = "can_delete"
	PermManageTeam Permission = "can_manage_team"
	PermManageTask Permission = "can_manage_tasks"
)

// AccessService answers row-level permission checks for client-scoped operations.
type AccessService struct {
	perms repository.PermissionRepository
}

// NewAccessService constructs the service.
func NewAccessService(perms repository.PermissionRepository) *AccessService {
	return &AccessService{perms: perms}
}

// Require returns nil when the user holds the flag on the client, a
// Forbidden error otherwise. A missing permission row reads as no access.
func (s *AccessService) Require(ctx context.Context, clientID, userID string, flag Permission) error {
	perm, err := s.perms.GetForUser(ctx, clientID, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewForbidden("no access to client")
		}
		return err
	}
	if !hasFlag(perm, flag) {
		return apperrors.NewForbidden("missing permission: " + string(flag))
	}
	return nil
}

// Grant upserts a permission row.
func (s *AccessService) Grant(ctx context.Context, perm *domain.ClientPermission) error {
	return s.perms.Upsert(ctx, perm)
}

func hasFlag(perm *domain.ClientPermission, flag Permission) bool {
	switch flag {
	case PermView:
		return perm.CanView
	case PermEdit:
		return perm.CanEdit
	case PermDelete:
		return perm.CanDelete
	case PermManageTeam:
		return perm.CanManageTeam
	case PermManageTask:
		return perm.CanManageTask
	default:
		return false
	}
}
