// SPDX-License-Identifier: AGPL-3.0-only
package interact

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/cssocial/desk/internal/remote"
)

// PostLiker is the slice of the remote client the like toggler needs.
type PostLiker interface {
	LikePost(ctx context.Context, postID string) (int, error)
}

// LikeState is the {liked, count} pair a post card renders.
type LikeState struct {
	Liked bool
	Count int
}

// Likes makes the like button feel instantaneous: the visible state is
// flipped before the network call resolves and restored exactly when the
// call fails. A per-post in-flight guard keeps a double click from
// issuing two overlapping toggles for the same post; toggles on
// different posts are independent.
type Likes struct {
	mu      sync.Mutex
	state   map[string]LikeState
	guard   *KeyedGuard
	api     PostLiker
	notices *Notices

	// onChanged lets a parent view refresh derived aggregates after a
	// confirmed toggle.
	onChanged func()
}

func NewLikes(api PostLiker, notices *Notices, onChanged func()) *Likes {
	return &Likes{
		state:     make(map[string]LikeState),
		guard:     NewKeyedGuard(),
		api:       api,
		notices:   notices,
		onChanged: onChanged,
	}
}

// Seed records the server truth for a post, typically right after a feed
// fetch. A pending optimistic toggle for the post is not overwritten.
func (l *Likes) Seed(post remote.Post) {
	if !l.guard.TryAcquire(post.ID) {
		return
	}
	defer l.guard.Release(post.ID)

	l.mu.Lock()
	l.state[post.ID] = LikeState{Liked: post.Liked, Count: post.LikesCount}
	l.mu.Unlock()
}

func (l *Likes) Get(postID string) (LikeState, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, ok := l.state[postID]
	return st, ok
}

// Toggle flips the like optimistically, issues the remote toggle and
// rolls back to the exact prior pair on failure. While a toggle for the
// post is in flight further calls are dropped.
func (l *Likes) Toggle(ctx context.Context, live *Liveness, postID string) {
	if !l.guard.TryAcquire(postID) {
		return
	}
	defer l.guard.Release(postID)

	l.mu.Lock()
	prev, ok := l.state[postID]
	if !ok {
		l.mu.Unlock()
		zap.S().Warnw("like toggle for unknown post", "post_id", postID)
		return
	}

	next := LikeState{Liked: !prev.Liked, Count: prev.Count + 1}
	if !next.Liked {
		next.Count = prev.Count - 1
		if next.Count < 0 {
			next.Count = 0
		}
	}
	l.state[postID] = next
	l.mu.Unlock()

	confirmed, err := l.api.LikePost(ctx, postID)
	if err != nil {
		if live.Alive() {
			l.mu.Lock()
			l.state[postID] = prev
			l.mu.Unlock()
			l.notices.Push(remote.Detail(err, "Failed to like post"))
		}
		zap.S().Warnw("like toggle failed", "post_id", postID, "error", err)
		return
	}

	if !live.Alive() {
		return
	}

	// The server returns the authoritative count with the confirmation;
	// take it over the optimistic guess.
	if confirmed >= 0 {
		l.mu.Lock()
		st := l.state[postID]
		st.Count = confirmed
		l.state[postID] = st
		l.mu.Unlock()
	}

	if l.onChanged != nil {
		l.onChanged()
	}
}
