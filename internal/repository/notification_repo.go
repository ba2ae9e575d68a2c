package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JairoProDev/mitube-go/internal/model"
)

type NotificationRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationRepo(pool *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{pool: pool}
}

const notificationColumns = `id, recipient_id, sender_id, type, message, video_id, read, created_at`

func scanNotification(row pgx.Row) (*model.Notification, error) {
	var n model.Notification
	err := row.Scan(&n.ID, &n.RecipientID, &n.SenderID, &n.Type, &n.Message, &n.VideoID, &n.Read, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// Create inserts a new notification.
func (r *NotificationRepo) Create(ctx context.Context, senderID string, req *model.CreateNotificationRequest) (*model.Notification, error) {
	return scanNotification(r.pool.QueryRow(ctx, `
		INSERT INTO notifications (recipient_id, sender_id, type, message, video_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+notificationColumns,
		req.RecipientID, senderID, req.Type, req.Message, req.VideoID))
}

// FindByID returns a single notification.
func (r *NotificationRepo) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	return scanNotification(r.pool.QueryRow(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
}

// FindByRecipient returns a user's latest notifications, capped at limit.
func (r *NotificationRepo) FindByRecipient(ctx context.Context, recipientID string, limit int) ([]model.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+notificationColumns+` FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC LIMIT $2`, recipientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, *n)
	}
	return notifications, rows.Err()
}

// MarkRead flags a single notification as read and returns it.
func (r *NotificationRepo) MarkRead(ctx context.Context, id string) (*model.Notification, error) {
	return scanNotification(r.pool.QueryRow(ctx, `
		UPDATE notifications SET read = true WHERE id = $1
		RETURNING `+notificationColumns, id))
}

// MarkAllRead flags every unread notification for a recipient.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notifications SET read = true
		WHERE recipient_id = $1 AND read = false`, recipientID)
	return err
}

// Delete removes a notification.
func (r *NotificationRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// PruneRead deletes read notifications older than the given interval,
// returning how many were removed. Called by the maintenance worker.
func (r *NotificationRepo) PruneRead(ctx context.Context, olderThanDays int) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM notifications
		WHERE read = true AND created_at < NOW() - make_interval(days => $1)`, olderThanDays)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
