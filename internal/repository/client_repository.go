package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/project-service/internal/domain"
)

// ClientRepository encapsulates client (tenant) persistence.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	ListViewableByUser(ctx context.Context, userID string) ([]domain.Client, error)
	Delete(ctx context.Context, id string) error
}

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository constructs repository.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (owner_user_id, company_name, contact_name, email, phone, address, notes, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		client.OwnerUserID,
		client.CompanyName,
		client.ContactName,
		client.Email,
		client.Phone,
		client.Address,
		client.Notes,
		client.IsActive,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	const query = `
        UPDATE clients SET company_name=$1, contact_name=$2, email=$3, phone=$4, address=$5,
            notes=$6, is_active=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		client.CompanyName,
		client.ContactName,
		client.Email,
		client.Phone,
		client.Address,
		client.Notes,
		client.IsActive,
		client.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	const query = `
        SELECT id, owner_user_id, company_name, contact_name, email, phone, address, notes, is_active, created_at, updated_at
        FROM clients WHERE id=$1`
	var client domain.Client
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&client.ID,
		&client.OwnerUserID,
		&client.CompanyName,
		&client.ContactName,
		&client.Email,
		&client.Phone,
		&client.Address,
		&client.Notes,
		&client.IsActive,
		&client.CreatedAt,
		&client.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) ListViewableByUser(ctx context.Context, userID string) ([]domain.Client, error) {
	const query = `
        SELECT c.id, c.owner_user_id, c.company_name, c.contact_name, c.email, c.phone, c.address, c.notes, c.is_active, c.created_at, c.updated_at
        FROM clients c
        JOIN client_permissions p ON p.client_id = c.id
        WHERE p.user_id=$1 AND p.can_view=TRUE
        ORDER BY c.company_name`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Client
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(&client.ID, &client.OwnerUserID, &client.CompanyName, &client.ContactName, &client.Email, &client.Phone, &client.Address, &client.Notes, &client.IsActive, &client.CreatedAt, &client.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, client)
	}
	return result, rows.Err()
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
