package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JairoProDev/mitube-go/internal/model"
)

type PlaylistRepo struct {
	pool *pgxpool.Pool
}

func NewPlaylistRepo(pool *pgxpool.Pool) *PlaylistRepo {
	return &PlaylistRepo{pool: pool}
}

const playlistColumns = `id, user_id, name, description, videos, is_public, created_at, updated_at`

func scanPlaylist(row pgx.Row) (*model.Playlist, error) {
	var p model.Playlist
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Desc, &p.Videos, &p.IsPublic, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts a new playlist for the given owner.
func (r *PlaylistRepo) Create(ctx context.Context, userID string, req *model.CreatePlaylistRequest) (*model.Playlist, error) {
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	return scanPlaylist(r.pool.QueryRow(ctx, `
		INSERT INTO playlists (user_id, name, description, is_public)
		VALUES ($1, $2, $3, $4)
		RETURNING `+playlistColumns, userID, req.Name, req.Desc, isPublic))
}

// FindByID returns a single playlist.
func (r *PlaylistRepo) FindByID(ctx context.Context, id string) (*model.Playlist, error) {
	return scanPlaylist(r.pool.QueryRow(ctx,
		`SELECT `+playlistColumns+` FROM playlists WHERE id = $1`, id))
}

// FindByOwner returns a user's playlists, newest first.
func (r *PlaylistRepo) FindByOwner(ctx context.Context, userID string) ([]model.Playlist, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+playlistColumns+` FROM playlists
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var playlists []model.Playlist
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, *p)
	}
	return playlists, rows.Err()
}

// Update applies the non-nil fields and returns the updated playlist.
func (r *PlaylistRepo) Update(ctx context.Context, id string, req *model.UpdatePlaylistRequest) (*model.Playlist, error) {
	return scanPlaylist(r.pool.QueryRow(ctx, `
		UPDATE playlists SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			is_public = COALESCE($4, is_public),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+playlistColumns, id, req.Name, req.Desc, req.IsPublic))
}

// Delete removes a playlist.
func (r *PlaylistRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// AddVideo appends a video to the playlist unless it is already present.
func (r *PlaylistRepo) AddVideo(ctx context.Context, id, videoID string) (*model.Playlist, error) {
	return scanPlaylist(r.pool.QueryRow(ctx, `
		UPDATE playlists SET
			videos = CASE WHEN videos @> ARRAY[$2] THEN videos ELSE array_append(videos, $2) END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+playlistColumns, id, videoID))
}

// RemoveVideo drops a video from the playlist.
func (r *PlaylistRepo) RemoveVideo(ctx context.Context, id, videoID string) (*model.Playlist, error) {
	return scanPlaylist(r.pool.QueryRow(ctx, `
		UPDATE playlists SET
			videos = array_remove(videos, $2),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+playlistColumns, id, videoID))
}
