package interact

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cssocial/desk/internal/remote"
)

type fakeLiker struct {
	mu     sync.Mutex
	err    error
	calls  int
	counts []int
	block  chan struct{}
}

func (f *fakeLiker) LikePost(ctx context.Context, postID string) (int, error) {
	f.mu.Lock()
	f.calls++
	err := f.err
	block := f.block
	confirmed := -1
	if len(f.counts) > 0 {
		confirmed = f.counts[0]
		f.counts = f.counts[1:]
	}
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if err != nil {
		return 0, err
	}
	return confirmed, nil
}

func (f *fakeLiker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func seededLikes(t *testing.T, api PostLiker, liked bool, count int) (*Likes, *Notices) {
	t.Helper()
	notices := NewNotices()
	likes := NewLikes(api, notices, nil)
	likes.Seed(remote.Post{ID: "p1", Liked: liked, LikesCount: count})
	return likes, notices
}

func TestLikesToggle(t *testing.T) {
	ctx := context.Background()

	t.Run("optimistic flip on success", func(t *testing.T) {
		api := &fakeLiker{}
		likes, _ := seededLikes(t, api, false, 3)

		likes.Toggle(ctx, NewLiveness(), "p1")

		st, ok := likes.Get("p1")
		require.True(t, ok)
		assert.True(t, st.Liked)
		assert.Equal(t, 4, st.Count)
		assert.Equal(t, 1, api.callCount())
	})

	t.Run("second toggle restores original pair", func(t *testing.T) {
		api := &fakeLiker{}
		likes, _ := seededLikes(t, api, false, 3)
		live := NewLiveness()

		likes.Toggle(ctx, live, "p1")
		likes.Toggle(ctx, live, "p1")

		st, _ := likes.Get("p1")
		assert.False(t, st.Liked)
		assert.Equal(t, 3, st.Count)
	})

	t.Run("failure rolls back exactly", func(t *testing.T) {
		api := &fakeLiker{err: errors.New("boom")}
		likes, notices := seededLikes(t, api, true, 7)

		likes.Toggle(ctx, NewLiveness(), "p1")

		st, _ := likes.Get("p1")
		assert.True(t, st.Liked)
		assert.Equal(t, 7, st.Count)
		assert.Equal(t, []string{"Failed to like post"}, notices.Drain())
	})

	t.Run("failure with api detail surfaces detail", func(t *testing.T) {
		api := &fakeLiker{err: &remote.APIError{StatusCode: 400, Detail: "Post not found"}}
		likes, notices := seededLikes(t, api, false, 0)

		likes.Toggle(ctx, NewLiveness(), "p1")

		assert.Equal(t, []string{"Post not found"}, notices.Drain())
	})

	t.Run("confirmed server count replaces the optimistic one", func(t *testing.T) {
		api := &fakeLiker{counts: []int{10}}
		likes, _ := seededLikes(t, api, false, 3)

		likes.Toggle(ctx, NewLiveness(), "p1")

		st, _ := likes.Get("p1")
		assert.True(t, st.Liked)
		assert.Equal(t, 10, st.Count)
	})

	t.Run("unlike never drops count below zero", func(t *testing.T) {
		api := &fakeLiker{}
		likes, _ := seededLikes(t, api, true, 0)

		likes.Toggle(ctx, NewLiveness(), "p1")

		st, _ := likes.Get("p1")
		assert.False(t, st.Liked)
		assert.Equal(t, 0, st.Count)
	})

	t.Run("concurrent toggle on same post is dropped", func(t *testing.T) {
		api := &fakeLiker{block: make(chan struct{})}
		likes, _ := seededLikes(t, api, false, 1)
		live := NewLiveness()

		done := make(chan struct{})
		go func() {
			likes.Toggle(ctx, live, "p1")
			close(done)
		}()

		// Wait for the first toggle to be in flight.
		require.Eventually(t, func() bool { return api.callCount() == 1 }, time.Second, time.Millisecond)

		likes.Toggle(ctx, live, "p1")
		assert.Equal(t, 1, api.callCount())

		close(api.block)
		<-done
	})

	t.Run("toggles on different posts run independently", func(t *testing.T) {
		api := &fakeLiker{block: make(chan struct{})}
		notices := NewNotices()
		likes := NewLikes(api, notices, nil)
		likes.Seed(remote.Post{ID: "p1", LikesCount: 1})
		likes.Seed(remote.Post{ID: "p2", LikesCount: 1})
		live := NewLiveness()

		done := make(chan struct{})
		go func() {
			likes.Toggle(ctx, live, "p1")
			close(done)
		}()
		require.Eventually(t, func() bool { return api.callCount() == 1 }, time.Second, time.Millisecond)

		go likes.Toggle(ctx, live, "p2")
		require.Eventually(t, func() bool { return api.callCount() == 2 }, time.Second, time.Millisecond)

		close(api.block)
		<-done
	})

	t.Run("dead view drops rollback and notice", func(t *testing.T) {
		api := &fakeLiker{err: errors.New("boom")}
		likes, notices := seededLikes(t, api, false, 3)
		live := NewLiveness()
		live.Close()

		likes.Toggle(ctx, live, "p1")

		// The optimistic flip stays because the view is gone and no one
		// is rendering it; nothing else happens.
		st, _ := likes.Get("p1")
		assert.True(t, st.Liked)
		assert.Empty(t, notices.Drain())
	})

	t.Run("seed does not overwrite pending toggle", func(t *testing.T) {
		api := &fakeLiker{block: make(chan struct{})}
		likes, _ := seededLikes(t, api, false, 3)
		live := NewLiveness()

		done := make(chan struct{})
		go func() {
			likes.Toggle(ctx, live, "p1")
			close(done)
		}()
		require.Eventually(t, func() bool { return api.callCount() == 1 }, time.Second, time.Millisecond)

		likes.Seed(remote.Post{ID: "p1", Liked: false, LikesCount: 3})
		st, _ := likes.Get("p1")
		assert.True(t, st.Liked)
		assert.Equal(t, 4, st.Count)

		close(api.block)
		<-done
	})

	t.Run("onChanged fires after confirmed toggle", func(t *testing.T) {
		api := &fakeLiker{}
		notices := NewNotices()
		changed := 0
		likes := NewLikes(api, notices, func() { changed++ })
		likes.Seed(remote.Post{ID: "p1"})

		likes.Toggle(ctx, NewLiveness(), "p1")
		assert.Equal(t, 1, changed)
	})
}
