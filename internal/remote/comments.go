// SPDX-License-Identifier: AGPL-3.0-only
package remote

import (
	"context"
	"net/http"
)

func (c *Client) ListComments(ctx context.Context, postID string) ([]Comment, error) {
	var out []Comment
	err := c.do(ctx, http.MethodGet, "/posts/"+postID+"/comments", nil, nil, &out)
	return out, err
}

type commentPayload struct {
	Content string `json:"content"`
}

func (c *Client) AddComment(ctx context.Context, postID, content string) (Comment, error) {
	var out Comment
	err := c.do(ctx, http.MethodPost, "/posts/"+postID+"/comments", nil,
		commentPayload{Content: content}, &out)
	return out, err
}

func (c *Client) UpdateComment(ctx context.Context, commentID, content string) error {
	return c.do(ctx, http.MethodPut, "/comments/"+commentID, nil,
		commentPayload{Content: content}, nil)
}

func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.do(ctx, http.MethodDelete, "/comments/"+commentID, nil, nil, nil)
}
