package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/project-service/internal/domain"
)

// CommentRepository encapsulates task comment persistence.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.TaskComment) error
	GetByID(ctx context.Context, id string) (*domain.TaskComment, error)
	ListByTask(ctx context.Context, taskID string) ([]domain.TaskComment, error)
	Delete(ctx context.Context, id string) error
	DeleteByTask(ctx context.Context, taskID string) error
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository constructs repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.TaskComment) error {
	const query = `
        INSERT INTO task_comments (task_id, author_user_id, body)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		comment.TaskID,
		comment.AuthorUserID,
		comment.Body,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.TaskComment, error) {
	const query = `
        SELECT id, task_id, author_user_id, body, created_at, updated_at
        FROM task_comments WHERE id=$1`
	var comment domain.TaskComment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.TaskID,
		&comment.AuthorUserID,
		&comment.Body,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByTask(ctx context.Context, taskID string) ([]domain.TaskComment, error) {
	const query = `
        SELECT id, task_id, author_user_id, body, created_at, updated_at
        FROM task_comments WHERE task_id=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TaskComment
	for rows.Next() {
		var comment domain.TaskComment
		if err := rows.Scan(&comment.ID, &comment.TaskID, &comment.AuthorUserID, &comment.Body, &comment.CreatedAt, &comment.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM task_comments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *commentRepository) DeleteByTask(ctx context.Context, taskID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM task_comments WHERE task_id=$1`, taskID)
	return err
}
