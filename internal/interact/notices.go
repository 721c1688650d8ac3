// SPDX-License-Identifier: AGPL-3.0-only
package interact

import "sync"

// Notices is the non-blocking message queue shown to the viewer on the
// next render, the toast analog. It is bounded: under a flood of
// failures the oldest notices are dropped first.
type Notices struct {
	mu    sync.Mutex
	items []string
	max   int
}

func NewNotices() *Notices {
	return &Notices{max: 16}
}

func (n *Notices) Push(msg string) {
	if msg == "" {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, msg)
	if len(n.items) > n.max {
		n.items = n.items[len(n.items)-n.max:]
	}
}

// Drain returns the pending notices and clears the queue.
func (n *Notices) Drain() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.items
	n.items = nil
	return out
}
