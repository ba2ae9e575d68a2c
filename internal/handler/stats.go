package handler

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/JairoProDev/mitube-go/internal/middleware"
	"github.com/JairoProDev/mitube-go/internal/model"
	"github.com/JairoProDev/mitube-go/internal/service"
)

type StatsHandler struct {
	svc    *service.StatsService
	videos *service.VideoService
	cache  *service.CacheService
}

func NewStatsHandler(svc *service.StatsService, videos *service.VideoService, cache *service.CacheService) *StatsHandler {
	return &StatsHandler{svc: svc, videos: videos, cache: cache}
}

// Channel handles GET /api/stats/channel/:userId. Channel stats are visible
// to the channel owner only.
func (h *StatsHandler) Channel(c fiber.Ctx) error {
	userID, errResp := pathID(c, "userId")
	if errResp != nil {
		return errResp
	}
	if middleware.UserID(c) != userID {
		return middleware.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", "You can only view your own channel stats")
	}

	rec, err := h.svc.GetChannelStats(c.Context(), userID)
	if err != nil {
		return respondError(c, err, "Failed to fetch channel stats")
	}
	return c.JSON(rec)
}

// Video handles GET /api/stats/video/:videoId. Video stats are visible to
// the video owner only.
func (h *StatsHandler) Video(c fiber.Ctx) error {
	videoID, errResp := pathID(c, "videoId")
	if errResp != nil {
		return errResp
	}

	video, err := h.videos.Get(c.Context(), videoID)
	if err != nil {
		return respondError(c, err, "Failed to fetch video stats")
	}
	if video.UserID != middleware.UserID(c) {
		return middleware.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", "You can only view stats for your own videos")
	}

	rec, err := h.svc.GetVideoStats(c.Context(), videoID)
	if err != nil {
		return respondError(c, err, "Failed to fetch video stats")
	}
	return c.JSON(rec)
}

// Summary handles GET /api/stats/summary. It reports on the authenticated
// user's own channel, cache-aside.
func (h *StatsHandler) Summary(c fiber.Ctx) error {
	userID := middleware.UserID(c)

	if h.cache != nil {
		cached, err := h.cache.Get(c.Context(), service.SummaryKey(userID))
		if err != nil {
			log.Printf("cache: summary get error: %v", err)
		} else if cached != nil {
			var report model.SummaryReport
			if err := json.Unmarshal(cached, &report); err == nil {
				return c.JSON(report)
			}
		}
	}

	report, err := h.svc.GetSummaryReport(c.Context(), userID)
	if err != nil {
		return respondError(c, err, "Failed to build summary report")
	}

	if h.cache != nil {
		if err := h.cache.Set(c.Context(), service.SummaryKey(userID), report, service.SummaryCacheTTL); err != nil {
			log.Printf("cache: summary set error: %v", err)
		}
	}
	return c.JSON(report)
}
