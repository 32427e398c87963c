package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-service/internal/api/dto"
	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/service"
	apperrors "github.com/spec-kit/project-service/pkg/util/errorutil"
)

type TimeHandler struct {
	svc *service.TimesheetService
}

func NewTimeHandler(svc *service.TimesheetService) *TimeHandler {
	return &TimeHandler{svc: svc}
}

func (h *TimeHandler) StartTimer(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.StartTimerRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	entry, err := h.svc.StartTimer(c.Context(), principal.User.ID, c.Params("id"), req.Note)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": mapTimeEntry(entry)})
}

func (h *TimeHandler) StopTimer(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	entry, err := h.svc.StopTimer(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapTimeEntry(entry)})
}

func (h *TimeHandler) AddManualEntry(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.ManualEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	entry, err := h.svc.AddManualEntry(c.Context(), principal.User.ID, c.Params("id"), service.ManualEntryInput{
		StartedAt: req.StartedAt,
		EndedAt:   req.EndedAt,
		Note:      req.Note,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": mapTimeEntry(entry)})
}

func (h *TimeHandler) TaskSummary(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	summary, err := h.svc.TaskSummary(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}

	resp := dto.TaskTimeResponse{
		Entries:      make([]dto.TimeEntryResponse, 0, len(summary.Entries)),
		TotalSeconds: int64(summary.Total.Seconds()),
	}
	for i := range summary.Entries {
		resp.Entries = append(resp.Entries, mapTimeEntry(&summary.Entries[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

func (h *TimeHandler) MyEntries(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	from := parseTime(c.Query("from"))
	to := parseTime(c.Query("to"))

	entries, err := h.svc.MyEntries(c.Context(), principal.User.ID, from, to)
	if err != nil {
		return err
	}

	out := make([]dto.TimeEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, mapTimeEntry(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

func mapTimeEntry(entry *domain.TimeEntry) dto.TimeEntryResponse {
	return dto.TimeEntryResponse{
		ID:        entry.ID,
		TaskID:    entry.TaskID,
		UserID:    entry.UserID,
		StartedAt: entry.StartedAt,
		EndedAt:   entry.EndedAt,
		Note:      entry.Note,
		Running:   entry.Running(),
		Seconds:   int64(entry.Duration().Seconds()),
	}
}
