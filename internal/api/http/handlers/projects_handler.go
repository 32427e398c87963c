package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-service/internal/api/dto"
	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/service"
	apperrors "github.com/spec-kit/project-service/pkg/util/errorutil"
)

type ProjectsHandler struct {
	svc *service.ProjectService
}

func NewProjectsHandler(svc *service.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{svc: svc}
}

func (h *ProjectsHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	project, err := h.svc.CreateProject(c.Context(), principal.User.ID, c.Params("id"), projectInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": mapProject(project)})
}

func (h *ProjectsHandler) List(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var statuses []domain.ProjectStatus
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			statuses = append(statuses, domain.ProjectStatus(strings.TrimSpace(s)))
		}
	}

	projects, err := h.svc.ListProjects(c.Context(), principal.User.ID, c.Params("id"), statuses)
	if err != nil {
		return err
	}

	out := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, mapProject(&projects[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

func (h *ProjectsHandler) Get(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	detail, err := h.svc.GetProject(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}

	resp := dto.ProjectDetailResponse{
		ProjectResponse: mapProject(&detail.Project),
		Applications:    make([]dto.ApplicationResponse, 0, len(detail.Applications)),
		OpenTasks:       detail.OpenTasks,
	}
	for i := range detail.Applications {
		resp.Applications = append(resp.Applications, mapApplication(&detail.Applications[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

func (h *ProjectsHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	project, err := h.svc.UpdateProject(c.Context(), principal.User.ID, c.Params("id"), projectInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapProject(project)})
}

func (h *ProjectsHandler) Delete(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeleteProject(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *ProjectsHandler) CreateApplication(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.ApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	app, err := h.svc.CreateApplication(c.Context(), principal.User.ID, c.Params("id"), applicationInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": mapApplication(app)})
}

func (h *ProjectsHandler) ListApplications(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	apps, err := h.svc.ListApplications(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}

	out := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, mapApplication(&apps[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

func (h *ProjectsHandler) UpdateApplication(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.ApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	app, err := h.svc.UpdateApplication(c.Context(), principal.User.ID, c.Params("id"), applicationInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapApplication(app)})
}

func (h *ProjectsHandler) DeleteApplication(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeleteApplication(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func projectInput(req dto.ProjectRequest) service.ProjectInput {
	return service.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
	}
}

func applicationInput(req dto.ApplicationRequest) service.ApplicationInput {
	return service.ApplicationInput{
		Name:        req.Name,
		URL:         req.URL,
		Environment: req.Environment,
		Description: req.Description,
	}
}

func mapProject(project *domain.Project) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:          project.ID,
		ClientID:    project.ClientID,
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		StartDate:   project.StartDate,
		DueDate:     project.DueDate,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func mapApplication(app *domain.Application) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		ID:          app.ID,
		ProjectID:   app.ProjectID,
		Name:        app.Name,
		URL:         app.URL,
		Environment: app.Environment,
		Description: app.Description,
		CreatedAt:   app.CreatedAt,
		UpdatedAt:   app.UpdatedAt,
	}
}
