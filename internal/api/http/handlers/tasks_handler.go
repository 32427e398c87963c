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

type TasksHandler struct {
	svc *service.TaskService
}

func NewTasksHandler(svc *service.TaskService) *TasksHandler {
	return &TasksHandler{svc: svc}
}

func (h *TasksHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	task, err := h.svc.CreateTask(c.Context(), principal.User.ID, c.Params("id"), service.TaskCreateInput{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		AssigneeUserID: req.AssigneeUserID,
		DueDate:        req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": mapTask(task)})
}

func (h *TasksHandler) List(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	filter := service.TaskListFilter{}
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			filter.Statuses = append(filter.Statuses, domain.TaskStatus(strings.TrimSpace(s)))
		}
	}
	if raw := c.Query("priority"); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			filter.Priorities = append(filter.Priorities, domain.TaskPriority(strings.TrimSpace(p)))
		}
	}
	if assignee := c.Query("assignee"); assignee != "" {
		filter.AssigneeUserID = &assignee
	}
	filter.Limit, filter.Offset = pageOffsets(c)

	tasks, err := h.svc.ListTasks(c.Context(), principal.User.ID, c.Params("id"), filter)
	if err != nil {
		return err
	}

	out := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, mapTask(&tasks[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

func (h *TasksHandler) Get(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	detail, err := h.svc.GetTask(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}

	resp := dto.TaskDetailResponse{
		TaskResponse:  mapTask(&detail.Task),
		Comments:      make([]dto.CommentResponse, 0, len(detail.Comments)),
		LoggedSeconds: int64(detail.LoggedTotal.Seconds()),
	}
	for i := range detail.Comments {
		resp.Comments = append(resp.Comments, mapComment(&detail.Comments[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

func (h *TasksHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TaskUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}
	if req.AssigneeUserID != nil {
		if *req.AssigneeUserID == "" {
			input.ClearAssignee = true
		} else {
			input.AssigneeUserID = req.AssigneeUserID
		}
	}

	task, err := h.svc.UpdateTask(c.Context(), principal.User.ID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": mapTask(task)})
}

func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeleteTask(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *TasksHandler) AddComment(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.svc.AddComment(c.Context(), principal.User.ID, c.Params("id"), req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": mapComment(comment)})
}

func (h *TasksHandler) ListComments(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	comments, err := h.svc.ListComments(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}

	out := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, mapComment(&comments[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

func (h *TasksHandler) DeleteComment(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeleteComment(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func mapTask(task *domain.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:             task.ID,
		ProjectID:      task.ProjectID,
		AssigneeUserID: task.AssigneeUserID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		Priority:       task.Priority,
		DueDate:        task.DueDate,
		CompletedAt:    task.CompletedAt,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
}

func mapComment(comment *domain.TaskComment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:           comment.ID,
		TaskID:       comment.TaskID,
		AuthorUserID: comment.AuthorUserID,
		Body:         comment.Body,
		CreatedAt:    comment.CreatedAt,
	}
}
