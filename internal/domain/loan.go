package domain

import "time"

// Loan tracks money lent to or advanced for a client.
// Amounts are integer cents.
type Loan struct {
	ID             string
	ClientID       string
	Label          string
	PrincipalCents int64
	InterestNote   *string
	IssuedOn       time.Time
	DueOn          *time.Time
	Closed         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LoanPayment is a repayment against a loan.
type LoanPayment struct {
	ID          string
	LoanID      string
	AmountCents int64
	PaidOn      time.Time
	Note        *string
	CreatedAt   time.Time
}

// Balance returns the outstanding principal after the given payments.
func (l Loan) Balance(payments []LoanPayment) int64 {
	balance := l.PrincipalCents
	for _, p := range payments {
		balance -= p.AmountCents
	}
	if balance < 0 {
		return 0
	}
	return balance
}
