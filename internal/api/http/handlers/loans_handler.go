package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-service/internal/api/dto"
	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/service"
	apperrors "github.com/spec-kit/project-service/pkg/util/errorutil"
)

type LoansHandler struct {
	svc *service.LoanService
}

func NewLoansHandler(svc *service.LoanService) *LoansHandler {
	return &LoansHandler{svc: svc}
}

func (h *LoansHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.LoanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.LoanInput{
		Label:          req.Label,
		PrincipalCents: req.PrincipalCents,
		InterestNote:   req.InterestNote,
		DueOn:          req.DueOn,
	}
	if req.IssuedOn != nil {
		input.IssuedOn = *req.IssuedOn
	}

	loan, err := h.svc.CreateLoan(c.Context(), principal.User.ID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": mapLoan(loan, loan.PrincipalCents)})
}

func (h *LoansHandler) List(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	loans, err := h.svc.ListLoans(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}

	out := make([]dto.LoanResponse, 0, len(loans))
	for i := range loans {
		out = append(out, mapLoan(&loans[i].Loan, loans[i].Balance))
	}
	return c.JSON(fiber.Map{"data": out})
}

func (h *LoansHandler) Get(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	detail, err := h.svc.GetLoan(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}

	resp := dto.LoanDetailResponse{
		LoanResponse: mapLoan(&detail.Loan, detail.Balance),
		Payments:     make([]dto.PaymentResponse, 0, len(detail.Payments)),
	}
	for i := range detail.Payments {
		resp.Payments = append(resp.Payments, mapPayment(&detail.Payments[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

func (h *LoansHandler) AddPayment(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.PaymentInput{
		AmountCents: req.AmountCents,
		Note:        req.Note,
	}
	if req.PaidOn != nil {
		input.PaidOn = *req.PaidOn
	} else {
		input.PaidOn = time.Now()
	}

	payment, err := h.svc.AddPayment(c.Context(), principal.User.ID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": mapPayment(payment)})
}

func (h *LoansHandler) Delete(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeleteLoan(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func mapLoan(loan *domain.Loan, balance int64) dto.LoanResponse {
	return dto.LoanResponse{
		ID:             loan.ID,
		ClientID:       loan.ClientID,
		Label:          loan.Label,
		PrincipalCents: loan.PrincipalCents,
		BalanceCents:   balance,
		InterestNote:   loan.InterestNote,
		IssuedOn:       loan.IssuedOn,
		DueOn:          loan.DueOn,
		Closed:         loan.Closed,
		CreatedAt:      loan.CreatedAt,
	}
}

func mapPayment(payment *domain.LoanPayment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:          payment.ID,
		LoanID:      payment.LoanID,
		AmountCents: payment.AmountCents,
		PaidOn:      payment.PaidOn,
		Note:        payment.Note,
		CreatedAt:   payment.CreatedAt,
	}
}
