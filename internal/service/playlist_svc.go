package service

import (
	"context"

	"github.com/JairoProDev/mitube-go/internal/model"
	"github.com/JairoProDev/mitube-go/internal/repository"
)

// PlaylistService handles user playlists. All mutations are owner-only;
// reads of private playlists are owner-only too.
type PlaylistService struct {
	repo   *repository.PlaylistRepo
	videos *repository.VideoRepo
}

func NewPlaylistService(repo *repository.PlaylistRepo, videos *repository.VideoRepo) *PlaylistService {
	return &PlaylistService{repo: repo, videos: videos}
}

func (s *PlaylistService) owned(ctx context.Context, userID, id string) (*model.Playlist, error) {
	pl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pl.UserID != userID {
		return nil, model.ErrForbidden
	}
	return pl, nil
}

func (s *PlaylistService) Create(ctx context.Context, userID string, req *model.CreatePlaylistRequest) (*model.Playlist, error) {
	return s.repo.Create(ctx, userID, req)
}

// Get returns a playlist. Private playlists are visible to the owner only;
// viewerID is empty for anonymous requests.
func (s *PlaylistService) Get(ctx context.Context, viewerID, id string) (*model.Playlist, error) {
	pl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !pl.IsPublic && pl.UserID != viewerID {
		return nil, model.ErrForbidden
	}
	return pl, nil
}

// ListByOwner returns a user's playlists, filtered to public ones unless the
// viewer is the owner.
func (s *PlaylistService) ListByOwner(ctx context.Context, viewerID, userID string) ([]model.Playlist, error) {
	lists, err := s.repo.FindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if viewerID == userID {
		return lists, nil
	}
	public := make([]model.Playlist, 0, len(lists))
	for _, pl := range lists {
		if pl.IsPublic {
			public = append(public, pl)
		}
	}
	return public, nil
}

func (s *PlaylistService) Update(ctx context.Context, userID, id string, req *model.UpdatePlaylistRequest) (*model.Playlist, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, req)
}

func (s *PlaylistService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// AddVideo appends a video to the playlist. Adding a video that is already
// present is a no-op.
func (s *PlaylistService) AddVideo(ctx context.Context, userID, id, videoID string) (*model.Playlist, error) {
	pl, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if pl.Contains(videoID) {
		return pl, nil
	}
	if _, err := s.videos.FindByID(ctx, videoID); err != nil {
		return nil, err
	}
	return s.repo.AddVideo(ctx, id, videoID)
}

func (s *PlaylistService) RemoveVideo(ctx context.Context, userID, id, videoID string) (*model.Playlist, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.repo.RemoveVideo(ctx, id, videoID)
}
