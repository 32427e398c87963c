package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/project-service/internal/domain"
)

// LoanRepository encapsulates loan and loan payment persistence.
type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) error
	Update(ctx context.Context, loan *domain.Loan) error
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.Loan, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Loan, error)
	Delete(ctx context.Context, id string) error

	AddPayment(ctx context.Context, payment *domain.LoanPayment) error
	ListPayments(ctx context.Context, loanID string) ([]domain.LoanPayment, error)
	DeletePaymentsByLoan(ctx context.Context, loanID string) error
}

type loanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository constructs repository.
func NewLoanRepository(pool *pgxpool.Pool) LoanRepository {
	return &loanRepository{pool: pool}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	const query = `
        INSERT INTO loans (client_id, label, principal_cents, interest_note, issued_on, due_on, closed)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		loan.ClientID,
		loan.Label,
		loan.PrincipalCents,
		loan.InterestNote,
		loan.IssuedOn,
		loan.DueOn,
		loan.Closed,
	).Scan(&loan.ID, &loan.CreatedAt, &loan.UpdatedAt)
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	const query = `
        UPDATE loans SET label=$1, principal_cents=$2, interest_note=$3, issued_on=$4, due_on=$5, closed=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		loan.Label,
		loan.PrincipalCents,
		loan.InterestNote,
		loan.IssuedOn,
		loan.DueOn,
		loan.Closed,
		loan.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *loanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	const query = `
        SELECT id, client_id, label, principal_cents, interest_note, issued_on, due_on, closed, created_at, updated_at
        FROM loans WHERE id=$1`
	var loan domain.Loan
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&loan.ID,
		&loan.ClientID,
		&loan.Label,
		&loan.PrincipalCents,
		&loan.InterestNote,
		&loan.IssuedOn,
		&loan.DueOn,
		&loan.Closed,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) ListByClient(ctx context.Context, clientID string) ([]domain.Loan, error) {
	const query = `
        SELECT id, client_id, label, principal_cents, interest_note, issued_on, due_on, closed, created_at, updated_at
        FROM loans WHERE client_id=$1 ORDER BY issued_on DESC`
	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLoans(rows)
}

func (r *loanRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Loan, error) {
	const query = `
        SELECT id, client_id, label, principal_cents, interest_note, issued_on, due_on, closed, created_at, updated_at
        FROM loans WHERE closed=FALSE AND due_on IS NOT NULL AND due_on < $1`
	rows, err := r.pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLoans(rows)
}

func (r *loanRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM loans WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *loanRepository) AddPayment(ctx context.Context, payment *domain.LoanPayment) error {
	const query = `
        INSERT INTO loan_payments (loan_id, amount_cents, paid_on, note)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		payment.LoanID,
		payment.AmountCents,
		payment.PaidOn,
		payment.Note,
	).Scan(&payment.ID, &payment.CreatedAt)
}

func (r *loanRepository) ListPayments(ctx context.Context, loanID string) ([]domain.LoanPayment, error) {
	const query = `
        SELECT id, loan_id, amount_cents, paid_on, note, created_at
        FROM loan_payments WHERE loan_id=$1 ORDER BY paid_on`
	rows, err := r.pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.LoanPayment
	for rows.Next() {
		var payment domain.LoanPayment
		if err := rows.Scan(&payment.ID, &payment.LoanID, &payment.AmountCents, &payment.PaidOn, &payment.Note, &payment.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, payment)
	}
	return result, rows.Err()
}

func (r *loanRepository) DeletePaymentsByLoan(ctx context.Context, loanID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM loan_payments WHERE loan_id=$1`, loanID)
	return err
}

func scanLoans(rows pgx.Rows) ([]domain.Loan, error) {
	var result []domain.Loan
	for rows.Next() {
		var loan domain.Loan
		if err := rows.Scan(
			&loan.ID,
			&loan.ClientID,
			&loan.Label,
			&loan.PrincipalCents,
			&loan.InterestNote,
			&loan.IssuedOn,
			&loan.DueOn,
			&loan.Closed,
			&loan.CreatedAt,
			&loan.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, loan)
	}
	return result, rows.Err()
}
