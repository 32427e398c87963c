package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/project-service/internal/domain"
)

// ApplicationRepository encapsulates application persistence.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	Update(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Application, error)
	Delete(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) error
}

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository constructs repository.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	const query = `
        INSERT INTO applications (project_id, name, url, environment, description)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		app.ProjectID,
		app.Name,
		app.URL,
		app.Environment,
		app.Description,
	).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
}

func (r *applicationRepository) Update(ctx context.Context, app *domain.Application) error {
	const query = `
        UPDATE applications SET name=$1, url=$2, environment=$3, description=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		app.Name,
		app.URL,
		app.Environment,
		app.Description,
		app.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	const query = `
        SELECT id, project_id, name, url, environment, description, created_at, updated_at
        FROM applications WHERE id=$1`
	var app domain.Application
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&app.ID,
		&app.ProjectID,
		&app.Name,
		&app.URL,
		&app.Environment,
		&app.Description,
		&app.CreatedAt,
		&app.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Application, error) {
	const query = `
        SELECT id, project_id, name, url, environment, description, created_at, updated_at
        FROM applications WHERE project_id=$1 ORDER BY name`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Application
	for rows.Next() {
		var app domain.Application
		if err := rows.Scan(&app.ID, &app.ProjectID, &app.Name, &app.URL, &app.Environment, &app.Description, &app.CreatedAt, &app.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, app)
	}
	return result, rows.Err()
}

func (r *applicationRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *applicationRepository) DeleteByProject(ctx context.Context, projectID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE project_id=$1`, projectID)
	return err
}
