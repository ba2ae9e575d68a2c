package handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/JairoProDev/mitube-go/internal/middleware"
	"github.com/JairoProDev/mitube-go/internal/model"
	"github.com/JairoProDev/mitube-go/internal/service"
)

type VideoHandler struct {
	svc   *service.VideoService
	users *service.UserService
}

func NewVideoHandler(svc *service.VideoService, users *service.UserService) *VideoHandler {
	return &VideoHandler{svc: svc, users: users}
}

// Create handles POST /api/videos
func (h *VideoHandler) Create(c fiber.Ctx) error {
	var req model.CreateVideoRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	title, errMsg := middleware.ValidateTitle(req.Title)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.Title = title

	desc, errMsg := middleware.ValidateDesc(req.Desc)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.Desc = desc

	tags, errMsg := middleware.ValidateTags(req.Tags)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.Tags = tags

	video, err := h.svc.Create(c.Context(), middleware.UserID(c), &req)
	if err != nil {
		return respondError(c, err, "Failed to create video")
	}
	return c.Status(fiber.StatusCreated).JSON(video)
}

// videoResponse decorates a video with the authenticated viewer's rating.
type videoResponse struct {
	*model.Video
	LikedByViewer    bool `json:"likedByViewer"`
	DislikedByViewer bool `json:"dislikedByViewer"`
}

// Get handles GET /api/videos/:id
func (h *VideoHandler) Get(c fiber.Ctx) error {
	id, errResp := pathID(c, "id")
	if errResp != nil {
		return errResp
	}

	video, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err, "Failed to fetch video")
	}
	if viewer := middleware.UserID(c); viewer != "" {
		return c.JSON(videoResponse{
			Video:            video,
			LikedByViewer:    video.IsLikedBy(viewer),
			DislikedByViewer: video.IsDislikedBy(viewer),
		})
	}
	return c.JSON(video)
}

// Update handles PUT /api/videos/:id
func (h *VideoHandler) Update(c fiber.Ctx) error {
	id, errResp := pathID(c, "id")
	if errResp != nil {
		return errResp
	}

	var req model.UpdateVideoRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if req.Title != nil {
		title, errMsg := middleware.ValidateTitle(*req.Title)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
		req.Title = &title
	}
	if req.Tags != nil {
		tags, errMsg := middleware.ValidateTags(*req.Tags)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
		req.Tags = &tags
	}

	video, err := h.svc.Update(c.Context(), middleware.UserID(c), id, &req)
	if err != nil {
		return respondError(c, err, "Failed to update video")
	}
	return c.JSON(video)
}

// Delete handles DELETE /api/videos/:id
func (h *VideoHandler) Delete(c fiber.Ctx) error {
	id, errResp := pathID(c, "id")
	if errResp != nil {
		return errResp
	}

	if err := h.svc.Delete(c.Context(), middleware.UserID(c), id); err != nil {
		return respondError(c, err, "Failed to delete video")
	}
	return c.JSON(fiber.Map{"success": true})
}

// AddView handles POST /api/videos/view/:id. The optional body carries watch
// duration and viewer demographics; an empty body counts a bare view.
func (h *VideoHandler) AddView(c fiber.Ctx) error {
	id, errResp := pathID(c, "id")
	if errResp != nil {
		return errResp
	}

	var view model.ViewContext
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&view); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		}
	}

	rec, err := h.svc.AddView(c.Context(), id, &view)
	if err != nil {
		return respondError(c, err, "Failed to record view")
	}
	if Metrics.ViewsTotal != nil {
		Metrics.ViewsTotal.WithLabelValues(string(rec.Kind)).Inc()
	}
	return c.JSON(rec)
}

// Like handles POST /api/videos/like/:id
func (h *VideoHandler) Like(c fiber.Ctx) error {
	id, errResp := pathID(c, "id")
	if errResp != nil {
		return errResp
	}

	video, err := h.svc.Like(c.Context(), middleware.UserID(c), id)
	if err != nil {
		return respondError(c, err, "Failed to like video")
	}
	return c.JSON(video)
}

// Dislike handles POST /api/videos/dislike/:id
func (h *VideoHandler) Dislike(c fiber.Ctx) error {
	id, errResp := pathID(c, "id")
	if errResp != nil {
		return errResp
	}

	video, err := h.svc.Dislike(c.Context(), middleware.UserID(c), id)
	if err != nil {
		return respondError(c, err, "Failed to dislike video")
	}
	return c.JSON(video)
}

// Random handles GET /api/videos/random
func (h *VideoHandler) Random(c fiber.Ctx) error {
	videos, err := h.svc.Random(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to fetch videos")
	}
	return c.JSON(videos)
}

// Trend handles GET /api/videos/trend
func (h *VideoHandler) Trend(c fiber.Ctx) error {
	videos, err := h.svc.Trend(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to fetch videos")
	}
	return c.JSON(videos)
}

// Subscriptions handles GET /api/videos/sub
func (h *VideoHandler) Subscriptions(c fiber.Ctx) error {
	user, err := h.users.GetFull(c.Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err, "Failed to fetch subscriptions feed")
	}

	videos, err := h.svc.Subscriptions(c.Context(), user)
	if err != nil {
		return respondError(c, err, "Failed to fetch subscriptions feed")
	}
	return c.JSON(videos)
}

// Search handles GET /api/videos/search?q=
func (h *VideoHandler) Search(c fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELDS", "q is required")
	}

	videos, err := h.svc.Search(c.Context(), q)
	if err != nil {
		return respondError(c, err, "Search failed")
	}
	return c.JSON(videos)
}

// ByTags handles GET /api/videos/tags?tags=a,b,c
func (h *VideoHandler) ByTags(c fiber.Ctx) error {
	tags, errMsg := middleware.ValidateTags(strings.Split(c.Query("tags"), ","))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	if len(tags) == 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELDS", "tags is required")
	}

	videos, err := h.svc.ByTags(c.Context(), tags)
	if err != nil {
		return respondError(c, err, "Failed to fetch videos")
	}
	return c.JSON(videos)
}
