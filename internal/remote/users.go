// SPDX-License-Identifier: AGPL-3.0-only
package remote

import (
	"context"
	"net/http"
)

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	err := c.do(ctx, http.MethodGet, "/users", nil, nil, &out)
	return out, err
}

func (c *Client) GetUser(ctx context.Context, userID string) (User, error) {
	var out User
	err := c.do(ctx, http.MethodGet, "/users/"+userID, nil, nil, &out)
	return out, err
}

func (c *Client) Followers(ctx context.Context, userID string) ([]User, error) {
	var out []User
	err := c.do(ctx, http.MethodGet, "/users/"+userID+"/followers", nil, nil, &out)
	return out, err
}

func (c *Client) Following(ctx context.Context, userID string) ([]User, error) {
	var out []User
	err := c.do(ctx, http.MethodGet, "/users/"+userID+"/following", nil, nil, &out)
	return out, err
}

func (c *Client) Follow(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodPost, "/users/"+userID+"/follow", nil, nil, nil)
}

func (c *Client) Unfollow(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodPost, "/users/"+userID+"/unfollow", nil, nil, nil)
}

type profileUpdate struct {
	Username  string  `json:"username,omitempty"`
	Bio       string  `json:"bio"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// UpdateProfile edits the viewer's own profile. avatarURL is the media
// host URL for a freshly uploaded avatar, or nil to keep the current one.
func (c *Client) UpdateProfile(ctx context.Context, username, bio string, avatarURL *string) (User, error) {
	var out User
	err := c.do(ctx, http.MethodPut, "/users/me", nil,
		profileUpdate{Username: username, Bio: bio, AvatarURL: avatarURL}, &out)
	return out, err
}
