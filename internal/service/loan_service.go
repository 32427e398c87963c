package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/repository"
	apperrors "github.com/spec-kit/project-service/pkg/util/errorutil"
)

// LoanService coordinates the loan/expense tracker.
type LoanService struct {
	loans  repository.LoanRepository
	access *AccessService
}

// LoanDependencies bundles repositories for the loan service.
type LoanDependencies struct {
	LoanRepo repository.LoanRepository
	Access   *AccessService
}

// LoanInput describes loan creation payloads.
type LoanInput struct {
	Label          string
	PrincipalCents int64
	InterestNote   *string
	IssuedOn       time.Time
	DueOn          *time.Time
}

// PaymentInput describes a repayment payload.
type PaymentInput struct {
	AmountCents int64
	PaidOn      time.Time
	Note        *string
}

// LoanWithBalance pairs a loan with its outstanding balance.
type LoanWithBalance struct {
	Loan    domain.Loan
	Balance int64
}

// LoanDetail is a loan with its payments and balance.
type LoanDetail struct {
	Loan     domain.Loan
	Payments []domain.LoanPayment
	Balance  int64
}

// NewLoanService constructs the service.
func NewLoanService(deps LoanDependencies) *LoanService {
	return &LoanService{loans: deps.LoanRepo, access: deps.Access}
}

// CreateLoan records a loan against a client.
func (s *LoanService) CreateLoan(ctx context.Context, userID, clientID string, input LoanInput) (*domain.Loan, error) {
	if err := s.access.Require(ctx, clientID, userID, PermEdit); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Label) == "" {
		return nil, apperrors.NewValidationError("label required", nil)
	}
	if input.PrincipalCents <= 0 {
		return nil, apperrors.NewValidationError("principal_cents must be positive", nil)
	}
	issuedOn := input.IssuedOn
	if issuedOn.IsZero() {
		issuedOn = time.Now()
	}
	loan := &domain.Loan{
		ClientID:       clientID,
		Label:          strings.TrimSpace(input.Label),
		PrincipalCents: input.PrincipalCents,
		InterestNote:   input.InterestNote,
		IssuedOn:       issuedOn,
		DueOn:          input.DueOn,
	}
	if err := s.loans.Create(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}

// ListLoans returns a client's loans with balances.
func (s *LoanService) ListLoans(ctx context.Context, userID, clientID string) ([]LoanWithBalance, error) {
	if err := s.access.Require(ctx, clientID, userID, PermView); err != nil {
		return nil, err
	}
	loans, err := s.loans.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	result := make([]LoanWithBalance, 0, len(loans))
	for _, loan := range loans {
		payments, err := s.loans.ListPayments(ctx, loan.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, LoanWithBalance{Loan: loan, Balance: loan.Balance(payments)})
	}
	return result, nil
}

// GetLoan fetches a loan with its payments.
func (s *LoanService) GetLoan(ctx context.Context, userID, loanID string) (*LoanDetail, error) {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if err := s.access.Require(ctx, loan.ClientID, userID, PermView); err != nil {
		return nil, err
	}
	payments, err := s.loans.ListPayments(ctx, loan.ID)
	if err != nil {
		return nil, err
	}
	return &LoanDetail{Loan: *loan, Payments: payments, Balance: loan.Balance(payments)}, nil
}

// AddPayment records a repayment. Paying the balance down to zero closes
// the loan; overpayment is rejected.
func (s *LoanService) AddPayment(ctx context.Context, userID, loanID string, input PaymentInput) (*domain.LoanPayment, error) {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if err := s.access.Require(ctx, loan.ClientID, userID, PermEdit); err != nil {
		return nil, err
	}
	if loan.Closed {
		return nil, apperrors.NewConflict("loan already closed", nil)
	}
	if input.AmountCents <= 0 {
		return nil, apperrors.NewValidationError("amount_cents must be positive", nil)
	}
	payments, err := s.loans.ListPayments(ctx, loanID)
	if err != nil {
		return nil, err
	}
	balance := loan.Balance(payments)
	if input.AmountCents > balance {
		return nil, apperrors.NewValidationError("payment exceeds outstanding balance",
			map[string]any{"balance_cents": balance})
	}
	paidOn := input.PaidOn
	if paidOn.IsZero() {
		paidOn = time.Now()
	}
	payment := &domain.LoanPayment{
		LoanID:      loanID,
		AmountCents: input.AmountCents,
		PaidOn:      paidOn,
		Note:        input.Note,
	}
	if err := s.loans.AddPayment(ctx, payment); err != nil {
		return nil, err
	}
	if balance-input.AmountCents == 0 {
		loan.Closed = true
		if err := s.loans.Update(ctx, loan); err != nil {
			return nil, err
		}
	}
	return payment, nil
}

// DeleteLoan removes payments then the loan row.
func (s *LoanService) DeleteLoan(ctx context.Context, userID, loanID string) error {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return err
	}
	if err := s.access.Require(ctx, loan.ClientID, userID, PermDelete); err != nil {
		return err
	}
	if err := s.loans.DeletePaymentsByLoan(ctx, loanID); err != nil {
		return err
	}
	return s.loans.Delete(ctx, loanID)
}
