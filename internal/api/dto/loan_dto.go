package dto

import "time"

// LoanRequest payload.
type LoanRequest struct {
	Label          string     `json:"label"`
	PrincipalCents int64      `json:"principal_cents"`
	InterestNote   *string    `json:"interest_note"`
	IssuedOn       *time.Time `json:"issued_on"`
	DueOn          *time.Time `json:"due_on"`
}

// PaymentRequest payload.
type PaymentRequest struct {
	AmountCents int64      `json:"amount_cents"`
	PaidOn      *time.Time `json:"paid_on"`
	Note        *string    `json:"note"`
}

// LoanResponse shape.
type LoanResponse struct {
	ID             string     `json:"id"`
	ClientID       string     `json:"client_id"`
	Label          string     `json:"label"`
	PrincipalCents int64      `json:"principal_cents"`
	BalanceCents   int64      `json:"balance_cents"`
	InterestNote   *string    `json:"interest_note"`
	IssuedOn       time.Time  `json:"issued_on"`
	DueOn          *time.Time `json:"due_on"`
	Closed         bool       `json:"closed"`
	CreatedAt      time.Time  `json:"created_at"`
}

// LoanDetailResponse adds the payment history.
type LoanDetailResponse struct {
	LoanResponse
	Payments []PaymentResponse `json:"payments"`
}

// PaymentResponse shape.
type PaymentResponse struct {
	ID          string    `json:"id"`
	LoanID      string    `json:"loan_id"`
	AmountCents int64     `json:"amount_cents"`
	PaidOn      time.Time `json:"paid_on"`
	Note        *string   `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}
