// SPDX-License-Identifier: AGPL-3.0-only
package remote

import (
	"context"
	"net/http"
	"net/url"
)

// ListPosts returns the full feed, or only userID's posts when userID is
// non-empty. The API sorts newest first.
func (c *Client) ListPosts(ctx context.Context, userID string) ([]Post, error) {
	q := url.Values{}
	if userID != "" {
		q.Set("user_id", userID)
	}

	var out []Post
	err := c.do(ctx, http.MethodGet, "/posts", q, nil, &out)
	return out, err
}

func (c *Client) GetPost(ctx context.Context, postID string) (Post, error) {
	var out Post
	err := c.do(ctx, http.MethodGet, "/posts/"+postID, nil, nil, &out)
	return out, err
}

type postPayload struct {
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url"`
}

// CreatePost publishes a new post. imageURL is the media host URL or ""
// for a text-only post; the raw file never goes through this client.
func (c *Client) CreatePost(ctx context.Context, content, imageURL string) (Post, error) {
	payload := postPayload{Content: content}
	if imageURL != "" {
		payload.ImageURL = &imageURL
	}

	var out Post
	err := c.do(ctx, http.MethodPost, "/posts", nil, payload, &out)
	return out, err
}

// UpdatePost edits an owned post. A nil imageURL keeps the current
// image, a pointer to "" removes it.
func (c *Client) UpdatePost(ctx context.Context, postID, content string, imageURL *string) (Post, error) {
	var out Post
	err := c.do(ctx, http.MethodPut, "/posts/"+postID, nil,
		postPayload{Content: content, ImageURL: imageURL}, &out)
	return out, err
}

func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.do(ctx, http.MethodDelete, "/posts/"+postID, nil, nil, nil)
}

type likeResult struct {
	PostID string `json:"post_id"`
	Likes  int    `json:"likes"`
}

// LikePost toggles the viewer's like on postID and returns the server's
// resulting like count.
func (c *Client) LikePost(ctx context.Context, postID string) (int, error) {
	var out likeResult
	err := c.do(ctx, http.MethodPost, "/posts/"+postID+"/like", nil, nil, &out)
	return out.Likes, err
}
