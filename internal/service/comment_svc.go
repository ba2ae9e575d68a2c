package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/JairoProDev/mitube-go/internal/model"
	"github.com/JairoProDev/mitube-go/internal/repository"
)

const commentPageLimit = 50

// CommentService handles comments on videos. Posting a comment notifies the
// video owner; the notification is best-effort.
type CommentService struct {
	repo          *repository.CommentRepo
	videos        *repository.VideoRepo
	notifications *NotificationService
	logger        zerolog.Logger
}

func NewCommentService(repo *repository.CommentRepo, videos *repository.VideoRepo, notifications *NotificationService, logger zerolog.Logger) *CommentService {
	return &CommentService{repo: repo, videos: videos, notifications: notifications, logger: logger}
}

// Create posts a comment by userID on the requested video.
func (s *CommentService) Create(ctx context.Context, userID string, req *model.CreateCommentRequest) (*model.Comment, error) {
	video, err := s.videos.FindByID(ctx, req.VideoID)
	if err != nil {
		return nil, err
	}

	comment, err := s.repo.Create(ctx, userID, video.ID, req.Desc)
	if err != nil {
		return nil, err
	}

	if s.notifications != nil && video.UserID != userID {
		_, err := s.notifications.Create(ctx, userID, &model.CreateNotificationRequest{
			RecipientID: video.UserID,
			Type:        model.NotifyComment,
			Message:     "new comment on your video",
			VideoID:     &video.ID,
		})
		if err != nil {
			s.logger.Warn().Err(err).Str("videoId", video.ID).Msg("comment notification failed")
		}
	}

	return comment, nil
}

// List returns the most recent comments on a video.
func (s *CommentService) List(ctx context.Context, videoID string) ([]model.Comment, error) {
	return s.repo.FindByVideo(ctx, videoID, commentPageLimit)
}

// Delete removes a comment. The commenter may delete their own comment, and
// the owner of the video may delete any comment on it.
func (s *CommentService) Delete(ctx context.Context, userID, commentID string) error {
	comment, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		video, err := s.videos.FindByID(ctx, comment.VideoID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return err
		}
		if video == nil || video.UserID != userID {
			return model.ErrForbidden
		}
	}
	return s.repo.Delete(ctx, commentID)
}
