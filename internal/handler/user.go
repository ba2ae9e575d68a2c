package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/JairoProDev/mitube-go/internal/middleware"
	"github.com/JairoProDev/mitube-go/internal/model"
	"github.com/JairoProDev/mitube-go/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Get handles GET /api/users/:id
func (h *UserHandler) Get(c fiber.Ctx) error {
	id, errResp := pathID(c, "id")
	if errResp != nil {
		return errResp
	}

	// The owner sees the full record, everyone else the public profile.
	if middleware.UserID(c) == id {
		user, err := h.svc.GetFull(c.Context(), id)
		if err != nil {
			return respondError(c, err, "Failed to fetch user")
		}
		user.Password = ""
		return c.JSON(user)
	}

	user, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err, "Failed to fetch user")
	}
	return c.JSON(user)
}

// Update handles PUT /api/users/:id
func (h *UserHandler) Update(c fiber.Ctx) error {
	id, errResp := pathID(c, "id")
	if errResp != nil {
		return errResp
	}
	if middleware.UserID(c) != id {
		return middleware.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", "You can only update your own account")
	}

	var req model.UpdateUserRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if req.Name != nil {
		name, errMsg := middleware.ValidateName(*req.Name)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
		req.Name = &name
	}
	if req.Email != nil {
		email, errMsg := middleware.ValidateEmail(*req.Email)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
		req.Email = &email
	}

	user, err := h.svc.Update(c.Context(), id, &req)
	if err != nil {
		return respondError(c, err, "Failed to update user")
	}
	user.Password = ""
	return c.JSON(user)
}

// Delete handles DELETE /api/users/:id
func (h *UserHandler) Delete(c fiber.Ctx) error {
	id, errResp := pathID(c, "id")
	if errResp != nil {
		return errResp
	}
	if middleware.UserID(c) != id {
		return middleware.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", "You can only delete your own account")
	}

	if err := h.svc.Delete(c.Context(), id); err != nil {
		return respondError(c, err, "Failed to delete user")
	}
	return c.JSON(fiber.Map{"success": true})
}

// Subscribe handles POST /api/users/sub/:channelId
func (h *UserHandler) Subscribe(c fiber.Ctx) error {
	channelID, errResp := pathID(c, "channelId")
	if errResp != nil {
		return errResp
	}

	if err := h.svc.Subscribe(c.Context(), middleware.UserID(c), channelID); err != nil {
		return respondError(c, err, "Failed to subscribe")
	}
	if Metrics.SubscriptionsTotal != nil {
		Metrics.SubscriptionsTotal.Inc()
	}
	return c.JSON(fiber.Map{"success": true})
}

// Unsubscribe handles POST /api/users/unsub/:channelId
func (h *UserHandler) Unsubscribe(c fiber.Ctx) error {
	channelID, errResp := pathID(c, "channelId")
	if errResp != nil {
		return errResp
	}

	if err := h.svc.Unsubscribe(c.Context(), middleware.UserID(c), channelID); err != nil {
		return respondError(c, err, "Failed to unsubscribe")
	}
	return c.JSON(fiber.Map{"success": true})
}
