package model

import "time"

// Comment is a single comment on a video.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	VideoID   string    `json:"videoId"`
	Desc      string    `json:"desc"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateCommentRequest is the API request body for posting a comment.
type CreateCommentRequest struct {
	VideoID string `json:"videoId"`
	Desc    string `json:"desc"`
}
