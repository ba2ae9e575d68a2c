package model

import "time"

// Video status values.
const (
	StatusPublic   = "public"
	StatusPrivate  = "private"
	StatusUnlisted = "unlisted"
)

// Video represents an uploaded video. Likes and Dislikes are arrays of the
// user IDs that rated the video; Views is the denormalized lifetime counter
// used to seed lazily created stats records.
type Video struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Desc      string    `json:"desc"`
	ImgURL    string    `json:"imgUrl"`
	VideoURL  string    `json:"videoUrl"`
	Views     int64     `json:"views"`
	Duration  float64   `json:"duration"`
	Status    string    `json:"status"`
	Tags      []string  `json:"tags"`
	Likes     []string  `json:"likes"`
	Dislikes  []string  `json:"dislikes"`
	Category  string    `json:"category"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsLikedBy reports whether the given user has liked this video.
func (v *Video) IsLikedBy(userID string) bool {
	for _, id := range v.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// IsDislikedBy reports whether the given user has disliked this video.
func (v *Video) IsDislikedBy(userID string) bool {
	for _, id := range v.Dislikes {
		if id == userID {
			return true
		}
	}
	return false
}

// CreateVideoRequest is the API request body for uploading a video.
type CreateVideoRequest struct {
	Title    string   `json:"title"`
	Desc     string   `json:"desc"`
	ImgURL   string   `json:"imgUrl"`
	VideoURL string   `json:"videoUrl"`
	Duration float64  `json:"duration"`
	Status   string   `json:"status"`
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
	Language string   `json:"language"`
}

// UpdateVideoRequest carries the mutable video fields.
type UpdateVideoRequest struct {
	Title  *string   `json:"title,omitempty"`
	Desc   *string   `json:"desc,omitempty"`
	ImgURL *string   `json:"imgUrl,omitempty"`
	Status *string   `json:"status,omitempty"`
	Tags   *[]string `json:"tags,omitempty"`
}
