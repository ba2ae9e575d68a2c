package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/JairoProDev/mitube-go/internal/middleware"
	"github.com/JairoProDev/mitube-go/internal/model"
	"github.com/JairoProDev/mitube-go/internal/service"
)

type PlaylistHandler struct {
	svc *service.PlaylistService
}

func NewPlaylistHandler(svc *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{svc: svc}
}

// Create handles POST /api/playlists
func (h *PlaylistHandler) Create(c fiber.Ctx) error {
	var req model.CreatePlaylistRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	name, errMsg := middleware.ValidateTitle(req.Name)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.Name = name

	pl, err := h.svc.Create(c.Context(), middleware.UserID(c), &req)
	if err != nil {
		return respondError(c, err, "Failed to create playlist")
	}
	return c.Status(fiber.StatusCreated).JSON(pl)
}

// Get handles GET /api/playlists/:id
func (h *PlaylistHandler) Get(c fiber.Ctx) error {
	id, errResp := pathID(c, "id")
	if errResp != nil {
		return errResp
	}

	pl, err := h.svc.Get(c.Context(), middleware.UserID(c), id)
	if err != nil {
		return respondError(c, err, "Failed to fetch playlist")
	}
	return c.JSON(pl)
}

// ListByOwner handles GET /api/playlists/user/:userId
func (h *PlaylistHandler) ListByOwner(c fiber.Ctx) error {
	userID, errResp := pathID(c, "userId")
	if errResp != nil {
		return errResp
	}

	lists, err := h.svc.ListByOwner(c.Context(), middleware.UserID(c), userID)
	if err != nil {
		return respondError(c, err, "Failed to fetch playlists")
	}
	return c.JSON(lists)
}

// Update handles PUT /api/playlists/:id
func (h *PlaylistHandler) Update(c fiber.Ctx) error {
	id, errResp := pathID(c, "id")
	if errResp != nil {
		return errResp
	}

	var req model.UpdatePlaylistRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if req.Name != nil {
		name, errMsg := middleware.ValidateTitle(*req.Name)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
		req.Name = &name
	}

	pl, err := h.svc.Update(c.Context(), middleware.UserID(c), id, &req)
	if err != nil {
		return respondError(c, err, "Failed to update playlist")
	}
	return c.JSON(pl)
}

// Delete handles DELETE /api/playlists/:id
func (h *PlaylistHandler) Delete(c fiber.Ctx) error {
	id, errResp := pathID(c, "id")
	if errResp != nil {
		return errResp
	}

	if err := h.svc.Delete(c.Context(), middleware.UserID(c), id); err != nil {
		return respondError(c, err, "Failed to delete playlist")
	}
	return c.JSON(fiber.Map{"success": true})
}

// AddVideo handles POST /api/playlists/:id/videos/:videoId
func (h *PlaylistHandler) AddVideo(c fiber.Ctx) error {
	id, errResp := pathID(c, "id")
	if errResp != nil {
		return errResp
	}
	videoID, errResp := pathID(c, "videoId")
	if errResp != nil {
		return errResp
	}

	pl, err := h.svc.AddVideo(c.Context(), middleware.UserID(c), id, videoID)
	if err != nil {
		return respondError(c, err, "Failed to add video to playlist")
	}
	return c.JSON(pl)
}

// RemoveVideo handles DELETE /api/playlists/:id/videos/:videoId
func (h *PlaylistHandler) RemoveVideo(c fiber.Ctx) error {
	id, errResp := pathID(c, "id")
	if errResp != nil {
		return errResp
	}
	videoID, errResp := pathID(c, "videoId")
	if errResp != nil {
		return errResp
	}

	pl, err := h.svc.RemoveVideo(c.Context(), middleware.UserID(c), id, videoID)
	if err != nil {
		return respondError(c, err, "Failed to remove video from playlist")
	}
	return c.JSON(pl)
}
