// SPDX-License-Identifier: AGPL-3.0-only
package pins

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/cssocial/desk/internal/localdb"
)

// Store keeps the per-viewer set of pinned post ids. Pins are local to
// this device: they are never sent to the server and never merged across
// viewers. When the durable store is unavailable the set degrades to an
// in-memory one for the rest of the session; callers never see an error.
type Store struct {
	db *localdb.Store

	mu       sync.Mutex
	degraded bool
	mem      map[string]map[string]struct{}
	memOrder map[string][]string
}

func New(db *localdb.Store) *Store {
	return &Store{
		db:       db,
		degraded: db == nil,
		mem:      make(map[string]map[string]struct{}),
		memOrder: make(map[string][]string),
	}
}

func (s *Store) IsPinned(viewerID, postID string) bool {
	if viewerID == "" || postID == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.degraded {
		pinned, err := s.db.HasPin(context.Background(), viewerID, postID)
		if err == nil {
			return pinned
		}
		s.degrade(err)
	}

	_, ok := s.mem[viewerID][postID]
	return ok
}

// Toggle flips membership of postID in the viewer's pin set. Pinning an
// already pinned post and unpinning an unpinned one are both no-ops on
// the resulting set.
func (s *Store) Toggle(viewerID, postID string) {
	if viewerID == "" || postID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.degraded {
		ctx := context.Background()
		pinned, err := s.db.HasPin(ctx, viewerID, postID)
		if err == nil {
			if pinned {
				err = s.db.DeletePin(ctx, viewerID, postID)
			} else {
				err = s.db.CreatePin(ctx, viewerID, postID)
			}
		}
		if err == nil {
			return
		}
		s.degrade(err)
	}

	set, ok := s.mem[viewerID]
	if !ok {
		set = make(map[string]struct{})
		s.mem[viewerID] = set
	}
	if _, pinned := set[postID]; pinned {
		delete(set, postID)
		order := s.memOrder[viewerID]
		for i, id := range order {
			if id == postID {
				s.memOrder[viewerID] = append(order[:i], order[i+1:]...)
				break
			}
		}
	} else {
		set[postID] = struct{}{}
		s.memOrder[viewerID] = append(s.memOrder[viewerID], postID)
	}
}

// ListFor returns the viewer's pinned post ids in pin order.
func (s *Store) ListFor(viewerID string) []string {
	if viewerID == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.degraded {
		ids, err := s.db.ListPins(context.Background(), viewerID)
		if err == nil {
			return ids
		}
		s.degrade(err)
	}

	order := s.memOrder[viewerID]
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// degrade switches to the in-memory set for the rest of the session.
// Called with the lock held.
func (s *Store) degrade(err error) {
	s.degraded = true
	zap.S().Warnw("pin store unavailable, falling back to in-memory pins", "error", err)
}
