package model

import "time"

// Notification types.
const (
	NotifySubscription = "subscription"
	NotifyComment      = "comment"
	NotifyLike         = "like"
	NotifyUpload       = "upload"
)

// Notification is a stored notification, also relayed over the realtime
// channel when created.
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipientId"`
	SenderID    string    `json:"senderId"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	VideoID     *string   `json:"videoId,omitempty"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateNotificationRequest is the API request body for creating a
// notification on behalf of the authenticated sender.
type CreateNotificationRequest struct {
	RecipientID string  `json:"recipientId"`
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	VideoID     *string `json:"videoId,omitempty"`
}
