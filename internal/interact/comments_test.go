package interact

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cssocial/desk/internal/remote"
)

type fakeCommentAPI struct {
	mu        sync.Mutex
	addCalls  int
	addErr    error
	added     remote.Comment
	updateErr error
	updated   map[string]string
	deleteErr error
	deleted   []string
	list      []remote.Comment
}

func (f *fakeCommentAPI) ListComments(ctx context.Context, postID string) ([]remote.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list, nil
}

func (f *fakeCommentAPI) AddComment(ctx context.Context, postID, content string) (remote.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	if f.addErr != nil {
		return remote.Comment{}, f.addErr
	}
	if f.added.Content == "" {
		f.added.Content = content
	}
	return f.added, nil
}

func (f *fakeCommentAPI) UpdateComment(ctx context.Context, commentID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.updated == nil {
		f.updated = make(map[string]string)
	}
	f.updated[commentID] = content
	return nil
}

func (f *fakeCommentAPI) DeleteComment(ctx context.Context, commentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, commentID)
	return nil
}

var viewer = remote.User{ID: "u1", Username: "amy"}

func TestCommentsAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("whitespace only is never submitted", func(t *testing.T) {
		api := &fakeCommentAPI{}
		notices := NewNotices()
		c := NewComments(api, viewer, "p1", notices, nil)

		c.Add(ctx, NewLiveness(), "   \n\t ")

		assert.Equal(t, 0, api.addCalls)
		assert.Empty(t, c.List())
		assert.Empty(t, notices.Drain())
	})

	t.Run("success appends server comment", func(t *testing.T) {
		api := &fakeCommentAPI{added: remote.Comment{ID: "c1", User: remote.User{ID: "u1"}, Content: "hi"}}
		c := NewComments(api, viewer, "p1", NewNotices(), nil)

		c.Add(ctx, NewLiveness(), "  hi  ")

		list := c.List()
		require.Len(t, list, 1)
		assert.Equal(t, "c1", list[0].ID)
		assert.Equal(t, "hi", list[0].Content)
	})

	t.Run("missing author is filled with viewer", func(t *testing.T) {
		api := &fakeCommentAPI{added: remote.Comment{ID: "c1", Content: "hi"}}
		c := NewComments(api, viewer, "p1", NewNotices(), nil)

		c.Add(ctx, NewLiveness(), "hi")

		list := c.List()
		require.Len(t, list, 1)
		assert.Equal(t, "u1", list[0].User.ID)
		assert.Equal(t, "amy", list[0].User.Username)
	})

	t.Run("failure appends nothing", func(t *testing.T) {
		api := &fakeCommentAPI{addErr: errors.New("boom")}
		notices := NewNotices()
		c := NewComments(api, viewer, "p1", notices, nil)

		c.Add(ctx, NewLiveness(), "hi")

		assert.Empty(t, c.List())
		assert.Equal(t, []string{"Failed to add comment"}, notices.Drain())
	})
}

func TestCommentsEditDelete(t *testing.T) {
	ctx := context.Background()
	seed := func() []remote.Comment {
		return []remote.Comment{
			{ID: "c1", User: viewer, Content: "one"},
			{ID: "c2", User: viewer, Content: "two"},
		}
	}

	t.Run("edit applies only after confirm", func(t *testing.T) {
		api := &fakeCommentAPI{list: seed()}
		c := NewComments(api, viewer, "p1", NewNotices(), nil)
		require.NoError(t, c.Load(ctx))

		c.Edit(ctx, NewLiveness(), "c1", "changed")

		list := c.List()
		assert.Equal(t, "changed", list[0].Content)
		assert.Equal(t, "changed", api.updated["c1"])
	})

	t.Run("failed edit leaves list untouched", func(t *testing.T) {
		api := &fakeCommentAPI{list: seed(), updateErr: errors.New("boom")}
		notices := NewNotices()
		c := NewComments(api, viewer, "p1", notices, nil)
		require.NoError(t, c.Load(ctx))

		c.Edit(ctx, NewLiveness(), "c1", "changed")

		assert.Equal(t, "one", c.List()[0].Content)
		assert.Equal(t, []string{"Failed to update comment"}, notices.Drain())
	})

	t.Run("delete removes only after confirm", func(t *testing.T) {
		api := &fakeCommentAPI{list: seed()}
		c := NewComments(api, viewer, "p1", NewNotices(), nil)
		require.NoError(t, c.Load(ctx))

		c.Delete(ctx, NewLiveness(), "c1")

		list := c.List()
		require.Len(t, list, 1)
		assert.Equal(t, "c2", list[0].ID)
	})

	t.Run("failed delete keeps the comment", func(t *testing.T) {
		api := &fakeCommentAPI{list: seed(), deleteErr: errors.New("boom")}
		notices := NewNotices()
		c := NewComments(api, viewer, "p1", notices, nil)
		require.NoError(t, c.Load(ctx))

		c.Delete(ctx, NewLiveness(), "c1")

		assert.Len(t, c.List(), 2)
		assert.Equal(t, []string{"Failed to delete comment"}, notices.Drain())
	})
}
