package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-service/internal/api/dto"
	"github.com/spec-kit/project-service/internal/domain"
	"github.com/spec-kit/project-service/internal/service"
)

type NotificationsHandler struct {
	svc *service.NotificationService
}

func NewNotificationsHandler(svc *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{svc: svc}
}

func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	unreadOnly := c.QueryBool("unread")
	limit, offset := pageOffsets(c)

	notifications, err := h.svc.List(c.Context(), principal.User.ID, unreadOnly, limit, offset)
	if err != nil {
		return err
	}

	out := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		out = append(out, mapNotification(&notifications[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	if err := h.svc.MarkRead(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	if err := h.svc.MarkAllRead(c.Context(), principal.User.ID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func mapNotification(notification *domain.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        notification.ID,
		Kind:      notification.Kind,
		SubjectID: notification.SubjectID,
		Message:   notification.Message,
		ReadAt:    notification.ReadAt,
		CreatedAt: notification.CreatedAt,
	}
}
