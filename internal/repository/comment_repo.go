package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JairoProDev/mitube-go/internal/model"
)

type CommentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepo(pool *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{pool: pool}
}

const commentColumns = `id, user_id, video_id, description, created_at, updated_at`

func scanComment(row pgx.Row) (*model.Comment, error) {
	var c model.Comment
	err := row.Scan(&c.ID, &c.UserID, &c.VideoID, &c.Desc, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a new comment.
func (r *CommentRepo) Create(ctx context.Context, userID, videoID, desc string) (*model.Comment, error) {
	return scanComment(r.pool.QueryRow(ctx, `
		INSERT INTO comments (user_id, video_id, description)
		VALUES ($1, $2, $3)
		RETURNING `+commentColumns, userID, videoID, desc))
}

// FindByID returns a single comment.
func (r *CommentRepo) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	return scanComment(r.pool.QueryRow(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
}

// FindByVideo returns a video's comments, newest first.
func (r *CommentRepo) FindByVideo(ctx context.Context, videoID string, limit int) ([]model.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+commentColumns+` FROM comments
		WHERE video_id = $1
		ORDER BY created_at DESC LIMIT $2`, videoID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

// Delete removes a comment.
func (r *CommentRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
