// SPDX-License-Identifier: AGPL-3.0-only
package remote

import "time"

type User struct {
	ID             string   `json:"id"`
	Username       string   `json:"username"`
	Name           string   `json:"name"`
	Email          string   `json:"email,omitempty"`
	Bio            string   `json:"bio,omitempty"`
	AvatarURL      string   `json:"avatar_url,omitempty"`
	ProfilePic     string   `json:"profile_pic,omitempty"`
	FollowersIDs   []string `json:"followers_ids,omitempty"`
	FollowingIDs   []string `json:"following_ids,omitempty"`
	FollowersCount int      `json:"followers_count,omitempty"`
	FollowingCount int      `json:"following_count,omitempty"`
}

// Avatar prefers the uploaded avatar URL over the legacy profile_pic
// field the API still returns for older accounts.
func (u User) Avatar() string {
	if u.AvatarURL != "" {
		return u.AvatarURL
	}
	return u.ProfilePic
}

// DisplayName is what cards show for the user.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return u.Username
	}
	return "Anonymous"
}

type Post struct {
	ID            string    `json:"id"`
	User          User      `json:"user"`
	Content       string    `json:"content"`
	ImageURL      string    `json:"image_url,omitempty"`
	LikesCount    int       `json:"likes_count"`
	Liked         bool      `json:"liked"`
	CommentsCount int       `json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id,omitempty"`
	User      User      `json:"user"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type Conversation struct {
	ID            string    `json:"id"`
	Peer          User      `json:"peer"`
	UnreadCount   int       `json:"unread_count"`
	LastMessageAt time.Time `json:"last_message_at,omitempty"`
}
