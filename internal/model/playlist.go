package model

import "time"

// Playlist is an ordered collection of video IDs owned by a user.
type Playlist struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Desc      string    `json:"desc"`
	Videos    []string  `json:"videos"`
	IsPublic  bool      `json:"isPublic"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Contains reports whether the playlist already includes the video.
func (p *Playlist) Contains(videoID string) bool {
	for _, id := range p.Videos {
		if id == videoID {
			return true
		}
	}
	return false
}

// CreatePlaylistRequest is the API request body for creating a playlist.
type CreatePlaylistRequest struct {
	Name     string `json:"name"`
	Desc     string `json:"desc"`
	IsPublic *bool  `json:"isPublic,omitempty"`
}

// UpdatePlaylistRequest carries the mutable playlist fields.
type UpdatePlaylistRequest struct {
	Name     *string `json:"name,omitempty"`
	Desc     *string `json:"desc,omitempty"`
	IsPublic *bool   `json:"isPublic,omitempty"`
}
