// SPDX-License-Identifier: AGPL-3.0-only

// Package interact holds the per-viewer interaction state that sits
// between the rendered pages and the remote API: like state, the
// follow graph, comment lists, pins and transient notices. Mutating
// operations take the session explicitly; nothing here reads
// authentication out of ambient state.
package interact

import (
	"context"
	"sync"

	"github.com/cssocial/desk/internal/pins"
	"github.com/cssocial/desk/internal/remote"
)

// SessionAPI is everything a signed-in session needs from the remote
// client. *remote.Client satisfies it.
type SessionAPI interface {
	PostLiker
	CommentAPI
	FollowAPI
	Me(ctx context.Context) (remote.User, error)
}

// Session is the interaction state for one signed-in viewer. It lives
// for as long as the viewer's local login does and is shared across
// their page loads; the embedded Liveness is closed on logout so
// responses from requests still in flight are dropped instead of
// mutating state for a viewer who is gone.
type Session struct {
	Likes   *Likes
	Follows *Follows
	Notices *Notices
	Pins    *pins.Store
	Live    *Liveness

	api SessionAPI

	mu       sync.Mutex
	viewer   remote.User
	comments map[string]*Comments
}

// NewSession builds the interaction state for viewer. onChanged is
// invoked after any remote-confirmed mutation, so the caller can bump
// caches or push a re-render.
func NewSession(api SessionAPI, pinStore *pins.Store, viewer remote.User, onChanged func()) *Session {
	s := &Session{
		Notices:  NewNotices(),
		Pins:     pinStore,
		Live:     NewLiveness(),
		api:      api,
		viewer:   viewer,
		comments: make(map[string]*Comments),
	}
	s.Likes = NewLikes(api, s.Notices, onChanged)
	s.Follows = NewFollows(api, s.Notices, onChanged)
	s.Follows.Seed(viewer)
	return s
}

// Viewer returns a snapshot of the signed-in viewer. The background
// refresher replaces it, so callers read through here instead of
// holding onto a struct across requests.
func (s *Session) Viewer() remote.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewer
}

// CommentsFor returns the comment list for postID, creating it on
// first use. One instance per post keeps edits and the list view
// consistent across page loads within the session.
func (s *Session) CommentsFor(postID string) *Comments {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.comments[postID]; ok {
		return c
	}
	c := NewComments(s.api, s.viewer, postID, s.Notices, nil)
	s.comments[postID] = c
	return c
}

// TogglePin flips the viewer's pin for postID. Pins are local only:
// no request is made and the toggle cannot fail.
func (s *Session) TogglePin(postID string) {
	s.Pins.Toggle(s.Viewer().ID, postID)
}

// IsPinned reports whether the viewer has pinned postID.
func (s *Session) IsPinned(postID string) bool {
	return s.Pins.IsPinned(s.Viewer().ID, postID)
}

// RefreshViewer refetches the viewer's profile and reseeds the follow
// graph from it.
func (s *Session) RefreshViewer(ctx context.Context) error {
	me, err := s.api.Me(ctx)
	if err != nil {
		return err
	}
	if !s.Live.Alive() {
		return nil
	}
	s.mu.Lock()
	s.viewer = me
	s.mu.Unlock()
	s.Follows.Seed(me)
	return nil
}

// Close marks the session dead. In-flight request results observed
// after this point are discarded.
func (s *Session) Close() {
	s.Live.Close()
}
