package interact

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cssocial/desk/internal/remote"
)

type fakeFollowAPI struct {
	mu          sync.Mutex
	followErr   error
	unfollowErr error
	followed    []string
	unfollowed  []string
}

func (f *fakeFollowAPI) Follow(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.followErr != nil {
		return f.followErr
	}
	f.followed = append(f.followed, userID)
	return nil
}

func (f *fakeFollowAPI) Unfollow(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unfollowErr != nil {
		return f.unfollowErr
	}
	f.unfollowed = append(f.unfollowed, userID)
	return nil
}

func TestFollowsToggle(t *testing.T) {
	ctx := context.Background()
	me := remote.User{ID: "me", FollowingIDs: []string{"u2"}, FollowersIDs: []string{"u2", "u3"}}

	t.Run("follow adds to the set", func(t *testing.T) {
		api := &fakeFollowAPI{}
		f := NewFollows(api, NewNotices(), nil)
		f.Seed(me)

		f.Toggle(ctx, NewLiveness(), "u9")

		assert.True(t, f.IsFollowing("u9"))
		assert.Equal(t, []string{"u9"}, api.followed)
	})

	t.Run("unfollow removes from the set", func(t *testing.T) {
		api := &fakeFollowAPI{}
		f := NewFollows(api, NewNotices(), nil)
		f.Seed(me)

		f.Toggle(ctx, NewLiveness(), "u2")

		assert.False(t, f.IsFollowing("u2"))
		assert.Equal(t, []string{"u2"}, api.unfollowed)
	})

	t.Run("failed follow rolls back", func(t *testing.T) {
		api := &fakeFollowAPI{followErr: errors.New("boom")}
		notices := NewNotices()
		f := NewFollows(api, notices, nil)
		f.Seed(me)

		f.Toggle(ctx, NewLiveness(), "u9")

		assert.False(t, f.IsFollowing("u9"))
		assert.Equal(t, []string{"Failed to update follow state"}, notices.Drain())
	})

	t.Run("failed unfollow rolls back", func(t *testing.T) {
		api := &fakeFollowAPI{unfollowErr: errors.New("boom")}
		f := NewFollows(api, NewNotices(), nil)
		f.Seed(me)

		f.Toggle(ctx, NewLiveness(), "u2")

		assert.True(t, f.IsFollowing("u2"))
	})
}

func TestFollowsRelation(t *testing.T) {
	f := NewFollows(&fakeFollowAPI{}, NewNotices(), nil)
	f.Seed(remote.User{ID: "me", FollowingIDs: []string{"mutual", "out"}, FollowersIDs: []string{"mutual", "in"}})

	assert.Equal(t, RelationFriends, f.RelationTo("mutual"))
	assert.Equal(t, RelationFollowing, f.RelationTo("out"))
	assert.Equal(t, RelationFollower, f.RelationTo("in"))
	assert.Equal(t, RelationNone, f.RelationTo("stranger"))
}
