package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/project-service/internal/domain"
)

// PermissionRepository manages per-(client,user) access flag rows.
type PermissionRepository interface {
	Upsert(ctx context.Context, perm *domain.ClientPermission) error
	GetForUser(ctx context.Context, clientID, userID string) (*domain.ClientPermission, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.ClientPermission, error)
	DeleteForUser(ctx context.Context, clientID, userID string) error
	DeleteByClient(ctx context.Context, clientID string) error
}

type permissionRepository struct {
	pool *pgxpool.Pool
}

// NewPermissionRepository constructs repository.
func NewPermissionRepository(pool *pgxpool.Pool) PermissionRepository {
	return &permissionRepository{pool: pool}
}

func (r *permissionRepository) Upsert(ctx context.Context, perm *domain.ClientPermission) error {
	const query = `
        INSERT INTO client_permissions (client_id, user_id, can_view, can_edit, can_delete, can_manage_team, can_manage_tasks)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (client_id, user_id) DO UPDATE SET
            can_view=EXCLUDED.can_view,
            can_edit=EXCLUDED.can_edit,
            can_delete=EXCLUDED.can_delete,
            can_manage_team=EXCLUDED.can_manage_team,
            can_manage_tasks=EXCLUDED.can_manage_tasks,
            updated_at=NOW()
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		perm.ClientID,
		perm.UserID,
		perm.CanView,
		perm.CanEdit,
		perm.CanDelete,
		perm.CanManageTeam,
		perm.CanManageTask,
	).Scan(&perm.ID, &perm.CreatedAt, &perm.UpdatedAt)
}

func (r *permissionRepository) GetForUser(ctx context.Context, clientID, userID string) (*domain.ClientPermission, error) {
	const query = `
        SELECT id, client_id, user_id, can_view, can_edit, can_delete, can_manage_team, can_manage_tasks, created_at, updated_at
        FROM client_permissions WHERE client_id=$1 AND user_id=$2`
	var perm domain.ClientPermission
	if err := r.pool.QueryRow(ctx, query, clientID, userID).Scan(
		&perm.ID,
		&perm.ClientID,
		&perm.UserID,
		&perm.CanView,
		&perm.CanEdit,
		&perm.CanDelete,
		&perm.CanManageTeam,
		&perm.CanManageTask,
		&perm.CreatedAt,
		&perm.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &perm, nil
}

func (r *permissionRepository) ListByClient(ctx context.Context, clientID string) ([]domain.ClientPermission, error) {
	const query = `
        SELECT id, client_id, user_id, can_view, can_edit, can_delete, can_manage_team, can_manage_tasks, created_at, updated_at
        FROM client_permissions WHERE client_id=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ClientPermission
	for rows.Next() {
		var perm domain.ClientPermission
		if err := rows.Scan(&perm.ID, &perm.ClientID, &perm.UserID, &perm.CanView, &perm.CanEdit, &perm.CanDelete, &perm.CanManageTeam, &perm.CanManageTask, &perm.CreatedAt, &perm.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, perm)
	}
	return result, rows.Err()
}

func (r *permissionRepository) DeleteForUser(ctx context.Context, clientID, userID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM client_permissions WHERE client_id=$1 AND user_id=$2`, clientID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *permissionRepository) DeleteByClient(ctx context.Context, clientID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM client_permissions WHERE client_id=$1`, clientID)
	return err
}
