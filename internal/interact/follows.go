// SPDX-License-Identifier: AGPL-3.0-only
package interact

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/cssocial/desk/internal/remote"
)

// FollowAPI is the slice of the remote client the follow graph needs.
type FollowAPI interface {
	Follow(ctx context.Context, userID string) error
	Unfollow(ctx context.Context, userID string) error
}

// Relation describes the viewer's relationship with another user.
type Relation string

const (
	RelationNone      Relation = "none"
	RelationFollowing Relation = "following"
	RelationFollower  Relation = "follower"
	RelationFriends   Relation = "friends"
)

// Follows tracks who the viewer follows and who follows them. Toggling
// flips the local set before the request and restores it when the
// request fails, with a per-user guard so a double click cannot fire
// two requests for the same account.
type Follows struct {
	mu        sync.Mutex
	following map[string]struct{}
	followers map[string]struct{}

	guard   *KeyedGuard
	api     FollowAPI
	notices *Notices

	onChanged func()
}

func NewFollows(api FollowAPI, notices *Notices, onChanged func()) *Follows {
	return &Follows{
		following: make(map[string]struct{}),
		followers: make(map[string]struct{}),
		guard:     NewKeyedGuard(),
		api:       api,
		notices:   notices,

		onChanged: onChanged,
	}
}

// Seed replaces both sets from the viewer's profile. Users with a
// pending toggle keep their local state.
func (f *Follows) Seed(me remote.User) {
	f.mu.Lock()
	defer f.mu.Unlock()

	following := make(map[string]struct{}, len(me.FollowingIDs))
	for _, id := range me.FollowingIDs {
		following[id] = struct{}{}
	}
	followers := make(map[string]struct{}, len(me.FollowersIDs))
	for _, id := range me.FollowersIDs {
		followers[id] = struct{}{}
	}

	for id := range f.following {
		if f.guard.Held(id) {
			following[id] = struct{}{}
		}
	}
	for id := range following {
		if f.guard.Held(id) {
			if _, ok := f.following[id]; !ok {
				delete(following, id)
			}
		}
	}

	f.following = following
	f.followers = followers
}

func (f *Follows) IsFollowing(userID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.following[userID]
	return ok
}

func (f *Follows) RelationTo(userID string) Relation {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, out := f.following[userID]
	_, in := f.followers[userID]
	switch {
	case out && in:
		return RelationFriends
	case out:
		return RelationFollowing
	case in:
		return RelationFollower
	default:
		return RelationNone
	}
}

// Toggle follows or unfollows userID. The set is flipped up front and
// flipped back if the request fails while the view is still alive.
func (f *Follows) Toggle(ctx context.Context, live *Liveness, userID string) {
	if !f.guard.TryAcquire(userID) {
		return
	}
	defer f.guard.Release(userID)

	f.mu.Lock()
	_, wasFollowing := f.following[userID]
	if wasFollowing {
		delete(f.following, userID)
	} else {
		f.following[userID] = struct{}{}
	}
	f.mu.Unlock()

	var err error
	if wasFollowing {
		err = f.api.Unfollow(ctx, userID)
	} else {
		err = f.api.Follow(ctx, userID)
	}
	if err != nil {
		if live.Alive() {
			f.mu.Lock()
			if wasFollowing {
				f.following[userID] = struct{}{}
			} else {
				delete(f.following, userID)
			}
			f.mu.Unlock()
			f.notices.Push(remote.Detail(err, "Failed to update follow state"))
		}
		zap.S().Warnw("follow toggle failed", "user_id", userID, "was_following", wasFollowing, "error", err)
		return
	}

	if live.Alive() && f.onChanged != nil {
		f.onChanged()
	}
}
