package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/JairoProDev/mitube-go/internal/model"
	"github.com/JairoProDev/mitube-go/internal/repository"
)

// UserService handles profiles and the subscribe/unsubscribe flows. A new
// subscription feeds the stats aggregator and emits a notification; both
// follow-ups are best-effort and never fail the subscription itself.
type UserService struct {
	repo          *repository.UserRepo
	stats         *StatsService
	notifications *NotificationService
	logger        zerolog.Logger
}

func NewUserService(repo *repository.UserRepo, stats *StatsService, notifications *NotificationService, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, stats: stats, notifications: notifications, logger: logger}
}

// Get returns the public profile of a user.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.PublicProfile(), nil
}

// GetFull returns the full record, for the authenticated owner only.
func (s *UserService) GetFull(ctx context.Context, id string) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies profile edits for the authenticated owner.
func (s *UserService) Update(ctx context.Context, id string, req *model.UpdateUserRequest) (*model.User, error) {
	return s.repo.Update(ctx, id, req)
}

// Delete removes the authenticated owner's account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Subscribe makes userID follow channelID.
func (s *UserService) Subscribe(ctx context.Context, userID, channelID string) error {
	if userID == channelID {
		return model.ErrForbidden
	}
	if _, err := s.repo.FindByID(ctx, channelID); err != nil {
		return err
	}
	if err := s.repo.Subscribe(ctx, userID, channelID); err != nil {
		return err
	}

	if _, err := s.stats.RecordSubscriptionEvent(ctx, channelID); err != nil {
		s.logger.Warn().Err(err).Str("channelId", channelID).Msg("subscription stats update failed")
	}

	if s.notifications != nil {
		_, err := s.notifications.Create(ctx, userID, &model.CreateNotificationRequest{
			RecipientID: channelID,
			Type:        model.NotifySubscription,
			Message:     "you have a new subscriber",
		})
		if err != nil {
			s.logger.Warn().Err(err).Str("channelId", channelID).Msg("subscription notification failed")
		}
	}

	return nil
}

// Unsubscribe removes the follow relationship. No stats event fires here:
// totals are snapshot-recomputed on the next subscription event.
func (s *UserService) Unsubscribe(ctx context.Context, userID, channelID string) error {
	if _, err := s.repo.FindByID(ctx, channelID); err != nil {
		return err
	}
	return s.repo.Unsubscribe(ctx, userID, channelID)
}
