package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/JairoProDev/mitube-go/internal/model"
	"github.com/JairoProDev/mitube-go/internal/repository"
)

const feedLimit = 40

// VideoService wraps the video catalog with cache-aside reads and wires
// view events into the stats aggregator.
type VideoService struct {
	repo  *repository.VideoRepo
	stats *StatsService
	cache *CacheService
}

func NewVideoService(repo *repository.VideoRepo, stats *StatsService, cache *CacheService) *VideoService {
	return &VideoService{repo: repo, stats: stats, cache: cache}
}

// Get returns a video by ID, cache-aside.
func (s *VideoService) Get(ctx context.Context, id string) (*model.Video, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, VideoKey(id))
		if err != nil {
			log.Printf("cache: video get error: %v", err)
		} else if cached != nil {
			var v model.Video
			if err := json.Unmarshal(cached, &v); err == nil {
				return &v, nil
			}
		}
	}

	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, VideoKey(id), v, VideoCacheTTL); err != nil {
			log.Printf("cache: video set error: %v", err)
		}
	}
	return v, nil
}

// Create registers a new video for the owner.
func (s *VideoService) Create(ctx context.Context, userID string, req *model.CreateVideoRequest) (*model.Video, error) {
	return s.repo.Create(ctx, userID, req)
}

// Update mutates a video after checking ownership.
func (s *VideoService) Update(ctx context.Context, userID, id string, req *model.UpdateVideoRequest) (*model.Video, error) {
	if err := s.checkOwner(ctx, userID, id); err != nil {
		return nil, err
	}
	v, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return v, nil
}

// Delete removes a video after checking ownership.
func (s *VideoService) Delete(ctx context.Context, userID, id string) error {
	if err := s.checkOwner(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// AddView bumps the denormalized view counter and feeds the view event into
// the stats aggregator. The aggregator's record is the returned payload.
func (s *VideoService) AddView(ctx context.Context, id string, view *model.ViewContext) (*model.StatsRecord, error) {
	if err := s.repo.AddView(ctx, id); err != nil {
		return nil, err
	}
	rec, err := s.stats.RecordVideoView(ctx, id, view)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return rec, nil
}

// Like records a like from userID.
func (s *VideoService) Like(ctx context.Context, userID, id string) (*model.Video, error) {
	v, err := s.repo.Like(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return v, nil
}

// Dislike records a dislike from userID.
func (s *VideoService) Dislike(ctx context.Context, userID, id string) (*model.Video, error) {
	v, err := s.repo.Dislike(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return v, nil
}

// Random returns a shuffled public feed.
func (s *VideoService) Random(ctx context.Context) ([]model.Video, error) {
	return s.repo.Random(ctx, feedLimit)
}

// Trend returns the most viewed public videos, cache-aside since the
// ranking only shifts meaningfully over minutes.
func (s *VideoService) Trend(ctx context.Context) ([]model.Video, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, TrendKey)
		if err != nil {
			log.Printf("cache: trend get error: %v", err)
		} else if cached != nil {
			var videos []model.Video
			if err := json.Unmarshal(cached, &videos); err == nil {
				return videos, nil
			}
		}
	}

	videos, err := s.repo.Trend(ctx, feedLimit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, TrendKey, videos, TrendCacheTTL); err != nil {
			log.Printf("cache: trend set error: %v", err)
		}
	}
	return videos, nil
}

// Subscriptions returns the newest videos from the channels a user follows.
func (s *VideoService) Subscriptions(ctx context.Context, user *model.User) ([]model.Video, error) {
	return s.repo.BySubscriptions(ctx, user.SubscribedUsers, feedLimit)
}

// Search matches public videos by title.
func (s *VideoService) Search(ctx context.Context, q string) ([]model.Video, error) {
	return s.repo.Search(ctx, q, feedLimit)
}

// ByTags returns public videos sharing any of the given tags.
func (s *VideoService) ByTags(ctx context.Context, tags []string) ([]model.Video, error) {
	return s.repo.ByTags(ctx, tags, feedLimit)
}

func (s *VideoService) checkOwner(ctx context.Context, userID, id string) error {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if v.UserID != userID {
		return model.ErrForbidden
	}
	return nil
}

func (s *VideoService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, VideoKey(id)); err != nil {
		log.Printf("cache: video invalidate error: %v", err)
	}
}
