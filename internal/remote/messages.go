// SPDX-License-Identifier: AGPL-3.0-only
package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListConversations returns one page of the viewer's conversations.
func (c *Client) ListConversations(ctx context.Context, limit, offset int) ([]Conversation, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var out []Conversation
	err := c.do(ctx, http.MethodGet, "/messages/conversations", q, nil, &out)
	return out, err
}

// AllConversations pages through the full conversation list. A short
// page ends the walk.
func (c *Client) AllConversations(ctx context.Context) ([]Conversation, error) {
	const pageSize = 20

	var all []Conversation
	for offset := 0; ; offset += pageSize {
		page, err := c.ListConversations(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}
