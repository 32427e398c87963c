package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-service/internal/api/dto"
	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/service"
	apperrors "github.com/spec-kit/project-service/pkg/util/errorutil"
)

type TeamsHandler struct {
	svc *service.TeamService
}

func NewTeamsHandler(svc *service.TeamService) *TeamsHandler {
	return &TeamsHandler{svc: svc}
}

func (h *TeamsHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.TeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	team, err := h.svc.CreateTeam(c.Context(), principal.User.ID, c.Params("id"), service.TeamInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": mapTeam(team, nil)})
}

func (h *TeamsHandler) List(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	teams, err := h.svc.ListTeams(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}

	out := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		out = append(out, mapTeam(&teams[i].Team, teams[i].Members))
	}
	return c.JSON(fiber.Map{"data": out})
}

func (h *TeamsHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.TeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	team, err := h.svc.UpdateTeam(c.Context(), principal.User.ID, c.Params("id"), service.TeamInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapTeam(team, nil)})
}

func (h *TeamsHandler) Delete(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeleteTeam(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *TeamsHandler) AddMembers(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.TeamMembersRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	added, err := h.svc.AddMembers(c.Context(), principal.User.ID, c.Params("id"), req.UserIDs, req.Role)
	if err != nil {
		return err
	}

	out := make([]dto.TeamMemberResponse, 0, len(added))
	for _, m := range added {
		out = append(out, dto.TeamMemberResponse{
			UserID:  m.UserID,
			Role:    m.Role,
			AddedAt: m.AddedAt,
		})
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": out})
}

func (h *TeamsHandler) RemoveMembers(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.TeamMembersRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.svc.RemoveMembers(c.Context(), principal.User.ID, c.Params("id"), req.UserIDs); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func mapTeam(team *domain.Team, members []service.TeamMemberDetail) dto.TeamResponse {
	resp := dto.TeamResponse{
		ID:          team.ID,
		ClientID:    team.ClientID,
		Name:        team.Name,
		Description: team.Description,
		IsActive:    team.IsActive,
		CreatedAt:   team.CreatedAt,
		UpdatedAt:   team.UpdatedAt,
	}
	for _, m := range members {
		resp.Members = append(resp.Members, dto.TeamMemberResponse{
			UserID:  m.Member.UserID,
			Name:    m.Name,
			Email:   m.Email,
			Role:    m.Member.Role,
			AddedAt: m.Member.AddedAt,
		})
	}
	return resp
}
