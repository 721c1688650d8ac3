// SPDX-License-Identifier: AGPL-3.0-only

// Package worker runs the periodic background refresh: server state
// that the UI shows but that no socket event covers (profiles, feed
// caches, unread totals) is refetched on a fixed interval.
package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one named refresh step.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Refresher drives the tasks on a ticker. One refresh runs at a time;
// a tick that lands while a refresh is in progress is skipped.
type Refresher struct {
	Ticker   *time.Ticker
	StopChan chan bool

	mu      sync.Mutex
	tasks   []Task
	running bool
	active  bool

	timeout time.Duration
}

func NewRefresher() *Refresher {
	return &Refresher{
		StopChan: make(chan bool),
		timeout:  2 * time.Minute,
	}
}

// Add registers a task. Tasks run in registration order.
func (r *Refresher) Add(task Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, task)
}

func (r *Refresher) Start(interval time.Duration) {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		zap.S().Info("refresher already active, use Restart to change interval")
		return
	}
	r.active = true
	r.mu.Unlock()

	r.Ticker = time.NewTicker(interval)
	go func() {
		defer func() {
			r.mu.Lock()
			r.active = false
			r.mu.Unlock()
		}()
		for {
			select {
			case <-r.Ticker.C:
				r.RefreshAll()
			case <-r.StopChan:
				r.Ticker.Stop()
				return
			}
		}
	}()
	zap.S().Infow("background refresher started", "interval", interval)
}

func (r *Refresher) Stop() {
	r.mu.Lock()
	if !r.active {
		r.mu.Unlock()
		zap.S().Info("refresher not active")
		return
	}
	r.mu.Unlock()

	r.StopChan <- true
	zap.S().Info("background refresher stopped")
}

func (r *Refresher) Restart(interval time.Duration) {
	r.mu.Lock()
	isActive := r.active
	r.mu.Unlock()

	if isActive {
		r.Stop()
		time.Sleep(100 * time.Millisecond)
	}
	r.Start(interval)
}

func (r *Refresher) IsActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// RefreshAll runs every task once, skipping entirely if a refresh is
// already in progress. Task failures are logged and do not stop the
// remaining tasks.
func (r *Refresher) RefreshAll() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		zap.S().Info("refresh already in progress, skipping")
		return
	}
	r.running = true
	tasks := append([]Task{}, r.tasks...)
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	for _, task := range tasks {
		if err := task.Run(ctx); err != nil {
			zap.S().Warnw("refresh task failed", "task", task.Name, "error", err)
		}
	}
}
