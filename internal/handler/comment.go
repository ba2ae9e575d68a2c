package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/JairoProDev/mitube-go/internal/middleware"
	"github.com/JairoProDev/mitube-go/internal/model"
	"github.com/JairoProDev/mitube-go/internal/service"
)

type CommentHandler struct {
	svc *service.CommentService
}

func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// Create handles POST /api/comments
func (h *CommentHandler) Create(c fiber.Ctx) error {
	var req model.CreateCommentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	videoID, errMsg := middleware.ValidateID(req.VideoID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.VideoID = videoID

	desc, errMsg := middleware.ValidateDesc(req.Desc)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	if desc == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELDS", "desc is required")
	}
	req.Desc = desc

	comment, err := h.svc.Create(c.Context(), middleware.UserID(c), &req)
	if err != nil {
		return respondError(c, err, "Failed to post comment")
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// List handles GET /api/comments/:videoId
func (h *CommentHandler) List(c fiber.Ctx) error {
	videoID, errResp := pathID(c, "videoId")
	if errResp != nil {
		return errResp
	}

	comments, err := h.svc.List(c.Context(), videoID)
	if err != nil {
		return respondError(c, err, "Failed to fetch comments")
	}
	return c.JSON(comments)
}

// Delete handles DELETE /api/comments/:id
func (h *CommentHandler) Delete(c fiber.Ctx) error {
	id, errResp := pathID(c, "id")
	if errResp != nil {
		return errResp
	}

	if err := h.svc.Delete(c.Context(), middleware.UserID(c), id); err != nil {
		return respondError(c, err, "Failed to delete comment")
	}
	return c.JSON(fiber.Map{"success": true})
}
