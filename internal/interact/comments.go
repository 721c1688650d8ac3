// SPDX-License-Identifier: AGPL-3.0-only
package interact

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cssocial/desk/internal/remote"
)

// CommentAPI is the slice of the remote client the comment list needs.
type CommentAPI interface {
	ListComments(ctx context.Context, postID string) ([]remote.Comment, error)
	AddComment(ctx context.Context, postID, content string) (remote.Comment, error)
	UpdateComment(ctx context.Context, commentID, content string) error
	DeleteComment(ctx context.Context, commentID string) error
}

// Comments is the in-memory comment list for one post.
//
// Add appends the server's comment after the call succeeds, filling in
// the viewer identity when the response omits it; there is nothing to
// roll back because nothing was appended before the call. Edit and
// delete are confirm-then-apply: an edit failure would not be silently
// recoverable, so the list only ever shows durably committed state for
// those two.
type Comments struct {
	mu     sync.Mutex
	postID string
	viewer remote.User
	list   []remote.Comment

	api     CommentAPI
	notices *Notices

	onChanged func()
}

func NewComments(api CommentAPI, viewer remote.User, postID string, notices *Notices, onChanged func()) *Comments {
	return &Comments{
		postID:  postID,
		viewer:  viewer,
		api:     api,
		notices: notices,

		onChanged: onChanged,
	}
}

// Load replaces the local list with the server's.
func (c *Comments) Load(ctx context.Context) error {
	list, err := c.api.ListComments(ctx, c.postID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.list = list
	c.mu.Unlock()
	return nil
}

// List returns a snapshot of the current comment list.
func (c *Comments) List() []remote.Comment {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]remote.Comment, len(c.list))
	copy(out, c.list)
	return out
}

// Add submits a new comment. Whitespace-only text is rejected before any
// network call is attempted; the action simply is not submitted.
func (c *Comments) Add(ctx context.Context, live *Liveness, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	created, err := c.api.AddComment(ctx, c.postID, text)
	if err != nil {
		if live.Alive() {
			c.notices.Push(remote.Detail(err, "Failed to add comment"))
		}
		zap.S().Warnw("add comment failed", "post_id", c.postID, "error", err)
		return
	}

	if !live.Alive() {
		return
	}

	// Some API versions return the comment without its author; the
	// viewer wrote it, so fill them in.
	if created.User.ID == "" {
		created.User = c.viewer
	}

	c.mu.Lock()
	c.list = append(c.list, created)
	c.mu.Unlock()

	if c.onChanged != nil {
		c.onChanged()
	}
}

// Edit updates an owned comment, applying the new text locally only
// after the server confirms. Ownership is enforced by the presentation
// layer, which only renders the edit control for the owner.
func (c *Comments) Edit(ctx context.Context, live *Liveness, commentID, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	if err := c.api.UpdateComment(ctx, commentID, text); err != nil {
		if live.Alive() {
			c.notices.Push(remote.Detail(err, "Failed to update comment"))
		}
		zap.S().Warnw("update comment failed", "comment_id", commentID, "error", err)
		return
	}

	if !live.Alive() {
		return
	}

	c.mu.Lock()
	for i := range c.list {
		if c.list[i].ID == commentID {
			c.list[i].Content = text
			break
		}
	}
	c.mu.Unlock()

	if c.onChanged != nil {
		c.onChanged()
	}
}

// Delete removes an owned comment locally only after the server
// confirms; a delete is irreversible, so it is never predicted.
func (c *Comments) Delete(ctx context.Context, live *Liveness, commentID string) {
	if err := c.api.DeleteComment(ctx, commentID); err != nil {
		if live.Alive() {
			c.notices.Push(remote.Detail(err, "Failed to delete comment"))
		}
		zap.S().Warnw("delete comment failed", "comment_id", commentID, "error", err)
		return
	}

	if !live.Alive() {
		return
	}

	c.mu.Lock()
	kept := c.list[:0]
	for _, item := range c.list {
		if item.ID != commentID {
			kept = append(kept, item)
		}
	}
	c.list = kept
	c.mu.Unlock()

	if c.onChanged != nil {
		c.onChanged()
	}
}
