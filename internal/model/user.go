package model

import "time"

// User represents a MiTube user, which doubles as a channel. Subscribers
// holds the IDs of users subscribed to this channel; SubscribedUsers holds
// the channels this user follows. These arrays are the authoritative source
// for subscriber counts — stats snapshots are derived from them.
type User struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email,omitempty"`
	Password        string    `json:"-"`
	Img             string    `json:"img"`
	CoverImg        string    `json:"coverImg"`
	Subscribers     []string  `json:"subscribers"`
	SubscribedUsers []string  `json:"subscribedUsers"`
	Description     string    `json:"description"`
	Role            string    `json:"role"`
	IsVerified      bool      `json:"isVerified"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// PublicProfile strips credentials and private fields for API responses
// about other users.
func (u *User) PublicProfile() *User {
	p := *u
	p.Email = ""
	p.Password = ""
	p.SubscribedUsers = nil
	return &p
}

// SubscriberCount returns the current authoritative subscriber count.
func (u *User) SubscriberCount() int64 {
	return int64(len(u.Subscribers))
}

// SignUpRequest is the API request body for account creation.
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInRequest is the API request body for login.
type SignInRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// AuthResponse is returned after a successful signup or signin.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// UpdateUserRequest carries the mutable profile fields.
type UpdateUserRequest struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Img         *string `json:"img,omitempty"`
	CoverImg    *string `json:"coverImg,omitempty"`
	Description *string `json:"description,omitempty"`
}
