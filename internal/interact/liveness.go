// SPDX-License-Identifier: AGPL-3.0-only
package interact

import "sync/atomic"

// Liveness marks whether the view that issued an asynchronous action
// still exists. Completions check Alive before touching shared state,
// so a late response against a torn-down view is dropped silently.
type Liveness struct {
	closed atomic.Bool
}

func NewLiveness() *Liveness {
	return &Liveness{}
}

func (l *Liveness) Alive() bool {
	return !l.closed.Load()
}

func (l *Liveness) Close() {
	l.closed.Store(true)
}
