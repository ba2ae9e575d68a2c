package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JairoProDev/mitube-go/internal/model"
)

type VideoRepo struct {
	pool *pgxpool.Pool
}

func NewVideoRepo(pool *pgxpool.Pool) *VideoRepo {
	return &VideoRepo{pool: pool}
}

const videoColumns = `id, user_id, title, description, img_url, video_url, views, duration,
		       status, tags, likes, dislikes, category, language, created_at, updated_at`

func scanVideo(row pgx.Row) (*model.Video, error) {
	var v model.Video
	err := row.Scan(
		&v.ID, &v.UserID, &v.Title, &v.Desc, &v.ImgURL, &v.VideoURL,
		&v.Views, &v.Duration, &v.Status, &v.Tags, &v.Likes, &v.Dislikes,
		&v.Category, &v.Language, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *VideoRepo) collect(ctx context.Context, query string, args ...any) ([]model.Video, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []model.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, *v)
	}
	return videos, rows.Err()
}

// FindByID returns a single video by ID.
func (r *VideoRepo) FindByID(ctx context.Context, id string) (*model.Video, error) {
	return scanVideo(r.pool.QueryRow(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE id = $1`, id))
}

// FindByOwner returns all videos owned by a channel, newest first.
func (r *VideoRepo) FindByOwner(ctx context.Context, userID string) ([]model.Video, error) {
	return r.collect(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// Create inserts a new video for the given owner.
func (r *VideoRepo) Create(ctx context.Context, userID string, req *model.CreateVideoRequest) (*model.Video, error) {
	status := req.Status
	if status == "" {
		status = model.StatusPublic
	}
	language := req.Language
	if language == "" {
		language = "es"
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	return scanVideo(r.pool.QueryRow(ctx, `
		INSERT INTO videos (user_id, title, description, img_url, video_url, duration, status, tags, category, language)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+videoColumns,
		userID, req.Title, req.Desc, req.ImgURL, req.VideoURL,
		req.Duration, status, tags, req.Category, language))
}

// Update applies the non-nil fields and returns the updated video.
func (r *VideoRepo) Update(ctx context.Context, id string, req *model.UpdateVideoRequest) (*model.Video, error) {
	return scanVideo(r.pool.QueryRow(ctx, `
		UPDATE videos SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			img_url = COALESCE($4, img_url),
			status = COALESCE($5, status),
			tags = COALESCE($6, tags),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+videoColumns,
		id, req.Title, req.Desc, req.ImgURL, req.Status, req.Tags))
}

// Delete removes a video.
func (r *VideoRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// AddView bumps the denormalized lifetime view counter atomically. The stats
// aggregator keeps its own counters; this is the catalog-facing number.
func (r *VideoRepo) AddView(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE videos SET views = views + 1, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Like records a like from userID, removing any prior dislike. Both array
// mutations happen in one statement so concurrent ratings cannot leave the
// user in both arrays.
func (r *VideoRepo) Like(ctx context.Context, id, userID string) (*model.Video, error) {
	return scanVideo(r.pool.QueryRow(ctx, `
		UPDATE videos SET
			likes = array_append(array_remove(likes, $2), $2),
			dislikes = array_remove(dislikes, $2),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+videoColumns, id, userID))
}

// Dislike records a dislike from userID, removing any prior like.
func (r *VideoRepo) Dislike(ctx context.Context, id, userID string) (*model.Video, error) {
	return scanVideo(r.pool.QueryRow(ctx, `
		UPDATE videos SET
			dislikes = array_append(array_remove(dislikes, $2), $2),
			likes = array_remove(likes, $2),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+videoColumns, id, userID))
}

// Random returns up to limit public videos in random order.
func (r *VideoRepo) Random(ctx context.Context, limit int) ([]model.Video, error) {
	return r.collect(ctx, `
		SELECT `+videoColumns+` FROM videos
		WHERE status = 'public'
		ORDER BY random() LIMIT $1`, limit)
}

// Trend returns the most viewed public videos.
func (r *VideoRepo) Trend(ctx context.Context, limit int) ([]model.Video, error) {
	return r.collect(ctx, `
		SELECT `+videoColumns+` FROM videos
		WHERE status = 'public'
		ORDER BY views DESC LIMIT $1`, limit)
}

// BySubscriptions returns the newest public videos from the given channels.
func (r *VideoRepo) BySubscriptions(ctx context.Context, channelIDs []string, limit int) ([]model.Video, error) {
	if len(channelIDs) == 0 {
		return nil, nil
	}
	return r.collect(ctx, `
		SELECT `+videoColumns+` FROM videos
		WHERE status = 'public' AND user_id = ANY($1)
		ORDER BY created_at DESC LIMIT $2`, channelIDs, limit)
}

// Search matches public videos by title, case-insensitively.
func (r *VideoRepo) Search(ctx context.Context, q string, limit int) ([]model.Video, error) {
	return r.collect(ctx, `
		SELECT `+videoColumns+` FROM videos
		WHERE status = 'public' AND title ILIKE '%' || $1 || '%'
		ORDER BY views DESC LIMIT $2`, q, limit)
}

// ByTags returns public videos sharing at least one of the given tags.
func (r *VideoRepo) ByTags(ctx context.Context, tags []string, limit int) ([]model.Video, error) {
	return r.collect(ctx, `
		SELECT `+videoColumns+` FROM videos
		WHERE status = 'public' AND tags && $1
		ORDER BY created_at DESC LIMIT $2`, tags, limit)
}
