// SPDX-License-Identifier: AGPL-3.0-only
package interact

import "sync"

// KeyedGuard is a per-key in-flight flag: at most one outstanding
// request per entity id, held only for the duration of that request.
// Acquire on a held key fails instead of blocking, so a double click
// drops the duplicate rather than queueing it.
type KeyedGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewKeyedGuard() *KeyedGuard {
	return &KeyedGuard{held: make(map[string]struct{})}
}

func (g *KeyedGuard) TryAcquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.held[key]; ok {
		return false
	}
	g.held[key] = struct{}{}
	return true
}

// Held reports whether key currently has an outstanding request.
func (g *KeyedGuard) Held(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.held[key]
	return ok
}

func (g *KeyedGuard) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, key)
}
