package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/JairoProDev/mitube-go/internal/middleware"
	"github.com/JairoProDev/mitube-go/internal/service"
)

type NotificationHandler struct {
	svc *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(c fiber.Ctx) error {
	notifications, err := h.svc.List(c.Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err, "Failed to fetch notifications")
	}
	return c.JSON(notifications)
}

// MarkRead handles PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c fiber.Ctx) error {
	id, errResp := pathID(c, "id")
	if errResp != nil {
		return errResp
	}

	n, err := h.svc.MarkRead(c.Context(), middleware.UserID(c), id)
	if err != nil {
		return respondError(c, err, "Failed to mark notification read")
	}
	return c.JSON(n)
}

// MarkAllRead handles PUT /api/notifications/read
func (h *NotificationHandler) MarkAllRead(c fiber.Ctx) error {
	if err := h.svc.MarkAllRead(c.Context(), middleware.UserID(c)); err != nil {
		return respondError(c, err, "Failed to mark notifications read")
	}
	return c.JSON(fiber.Map{"success": true})
}

// Delete handles DELETE /api/notifications/:id
func (h *NotificationHandler) Delete(c fiber.Ctx) error {
	id, errResp := pathID(c, "id")
	if errResp != nil {
		return errResp
	}

	if err := h.svc.Delete(c.Context(), middleware.UserID(c), id); err != nil {
		return respondError(c, err, "Failed to delete notification")
	}
	return c.JSON(fiber.Map{"success": true})
}
