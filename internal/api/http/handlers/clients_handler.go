package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-service/internal/api/dto"
	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/service"
	apperrors "github.com/spec-kit/project-service/pkg/util/errorutil"
)

type ClientsHandler struct {
	svc *service.ClientService
}

func NewClientsHandler(svc *service.ClientService) *ClientsHandler {
	return &ClientsHandler{svc: svc}
}

func (h *ClientsHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	client, err := h.svc.CreateClient(c.Context(), principal.User.ID, clientInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": mapClient(client)})
}

func (h *ClientsHandler) List(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	clients, err := h.svc.ListClients(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}

	out := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		out = append(out, mapClient(&clients[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

func (h *ClientsHandler) Get(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	client, err := h.svc.GetClient(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapClient(client)})
}

func (h *ClientsHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	client, err := h.svc.UpdateClient(c.Context(), principal.User.ID, c.Params("id"), clientInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapClient(client)})
}

func (h *ClientsHandler) Delete(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeleteClient(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *ClientsHandler) ListPermissions(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	perms, err := h.svc.ListPermissions(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}

	out := make([]dto.PermissionResponse, 0, len(perms))
	for i := range perms {
		out = append(out, mapPermission(&perms[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

func (h *ClientsHandler) UpsertPermission(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.PermissionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	perm, err := h.svc.UpsertPermission(c.Context(), principal.User.ID, c.Params("id"), c.Params("userId"), service.PermissionInput{
		CanView:       req.CanView,
		CanEdit:       req.CanEdit,
		CanDelete:     req.CanDelete,
		CanManageTeam: req.CanManageTeam,
		CanManageTask: req.CanManageTask,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapPermission(perm)})
}

func (h *ClientsHandler) RevokePermission(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	if err := h.svc.RevokePermission(c.Context(), principal.User.ID, c.Params("id"), c.Params("userId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func clientInput(req dto.ClientRequest) service.ClientInput {
	return service.ClientInput{
		CompanyName: req.CompanyName,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Notes:       req.Notes,
		IsActive:    req.IsActive,
	}
}

func mapClient(client *domain.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:          client.ID,
		OwnerUserID: client.OwnerUserID,
		CompanyName: client.CompanyName,
		ContactName: client.ContactName,
		Email:       client.Email,
		Phone:       client.Phone,
		Address:     client.Address,
		Notes:       client.Notes,
		IsActive:    client.IsActive,
		CreatedAt:   client.CreatedAt,
		UpdatedAt:   client.UpdatedAt,
	}
}

func mapPermission(perm *domain.ClientPermission) dto.PermissionResponse {
	return dto.PermissionResponse{
		ClientID:      perm.ClientID,
		UserID:        perm.UserID,
		CanView:       perm.CanView,
		CanEdit:       perm.CanEdit,
		CanDelete:     perm.CanDelete,
		CanManageTeam: perm.CanManageTeam,
		CanManageTask: perm.CanManageTask,
	}
}
