// SPDX-License-Identifier: AGPL-3.0-only
package realtime

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cssocial/desk/internal/remote"
)

// ConversationLister is the slice of the remote client the counter
// needs. *remote.Client satisfies it.
type ConversationLister interface {
	AllConversations(ctx context.Context) ([]remote.Conversation, error)
}

// Subscriber is what the counter needs from the notifier.
type Subscriber interface {
	Subscribe(name string, handler func()) int
	Unsubscribe(name string, id int)
}

// UnreadCounter keeps the total number of unread messages across all
// of the viewer's conversations. A 'message:new' event does not carry
// a count, so every event triggers a full refetch and re-sum;
// per-conversation counts below zero are treated as zero.
type UnreadCounter struct {
	api ConversationLister
	sub Subscriber

	mu    sync.Mutex
	total int
	subID int

	timeout time.Duration
}

func NewUnreadCounter(api ConversationLister, sub Subscriber) *UnreadCounter {
	c := &UnreadCounter{api: api, sub: sub, timeout: 30 * time.Second}
	c.subID = sub.Subscribe("message:new", func() {
		go c.refresh()
	})
	return c
}

// Stop detaches the counter from the notifier. The last computed total
// stays readable.
func (c *UnreadCounter) Stop() {
	c.sub.Unsubscribe("message:new", c.subID)
}

// Total returns the last computed unread total. It never goes below
// zero.
func (c *UnreadCounter) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Refresh refetches every conversation and recomputes the total. The
// stored value is left untouched when the fetch fails.
func (c *UnreadCounter) Refresh(ctx context.Context) error {
	convs, err := c.api.AllConversations(ctx)
	if err != nil {
		return err
	}

	total := 0
	for _, conv := range convs {
		if conv.UnreadCount > 0 {
			total += conv.UnreadCount
		}
	}

	c.mu.Lock()
	c.total = total
	c.mu.Unlock()
	return nil
}

func (c *UnreadCounter) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	if err := c.Refresh(ctx); err != nil {
		zap.S().Warnw("unread refresh failed", "error", err)
	}
}
