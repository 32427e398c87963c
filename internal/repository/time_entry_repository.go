package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/project-service/internal/domain"
)

// TimeEntryRepository encapsulates time entry persistence.
type TimeEntryRepository interface {
	Create(ctx context.Context, entry *domain.TimeEntry) error
	Update(ctx context.Context, entry *domain.TimeEntry) error
	GetRunning(ctx context.Context, taskID, userID string) (*domain.TimeEntry, error)
	ListByTask(ctx context.Context, taskID string) ([]domain.TimeEntry, error)
	ListByUser(ctx context.Context, userID string, from, to *time.Time) ([]domain.TimeEntry, error)
	DeleteByTask(ctx context.Context, taskID string) error
}

type timeEntryRepository struct {
	pool *pgxpool.Pool
}

// NewTimeEntryRepository constructs repository.
func NewTimeEntryRepository(pool *pgxpool.Pool) TimeEntryRepository {
	return &timeEntryRepository{pool: pool}
}

func (r *timeEntryRepository) Create(ctx context.Context, entry *domain.TimeEntry) error {
	const query = `
        INSERT INTO time_entries (task_id, user_id, started_at, ended_at, note)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		entry.TaskID,
		entry.UserID,
		entry.StartedAt,
		entry.EndedAt,
		entry.Note,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
}

func (r *timeEntryRepository) Update(ctx context.Context, entry *domain.TimeEntry) error {
	const query = `
        UPDATE time_entries SET started_at=$1, ended_at=$2, note=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		entry.StartedAt,
		entry.EndedAt,
		entry.Note,
		entry.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *timeEntryRepository) GetRunning(ctx context.Context, taskID, userID string) (*domain.TimeEntry, error) {
	const query = `
        SELECT id, task_id, user_id, started_at, ended_at, note, created_at, updated_at
        FROM time_entries WHERE task_id=$1 AND user_id=$2 AND ended_at IS NULL`
	var entry domain.TimeEntry
	if err := r.pool.QueryRow(ctx, query, taskID, userID).Scan(
		&entry.ID,
		&entry.TaskID,
		&entry.UserID,
		&entry.StartedAt,
		&entry.EndedAt,
		&entry.Note,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepository) ListByTask(ctx context.Context, taskID string) ([]domain.TimeEntry, error) {
	const query = `
        SELECT id, task_id, user_id, started_at, ended_at, note, created_at, updated_at
        FROM time_entries WHERE task_id=$1 ORDER BY started_at`
	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTimeEntries(rows)
}

func (r *timeEntryRepository) ListByUser(ctx context.Context, userID string, from, to *time.Time) ([]domain.TimeEntry, error) {
	query := `
        SELECT id, task_id, user_id, started_at, ended_at, note, created_at, updated_at
        FROM time_entries WHERE user_id=$1`
	args := []any{userID}
	if from != nil {
		args = append(args, *from)
		query += ` AND started_at >= $2`
	}
	if to != nil {
		args = append(args, *to)
		if from != nil {
			query += ` AND started_at <= $3`
		} else {
			query += ` AND started_at <= $2`
		}
	}
	query += ` ORDER BY started_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTimeEntries(rows)
}

func (r *timeEntryRepository) DeleteByTask(ctx context.Context, taskID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM time_entries WHERE task_id=$1`, taskID)
	return err
}

func scanTimeEntries(rows pgx.Rows) ([]domain.TimeEntry, error) {
	var result []domain.TimeEntry
	for rows.Next() {
		var entry domain.TimeEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TaskID,
			&entry.UserID,
			&entry.StartedAt,
			&entry.EndedAt,
			&entry.Note,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
