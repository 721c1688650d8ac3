// SPDX-License-Identifier: AGPL-3.0-only

// Package realtime maintains the socket connection to the server and
// fans incoming events out to subscribers by event name.
package realtime

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func backoffWithJitter(attempt int) time.Duration {
	const (
		baseDelay = 2 * time.Second
		maxDelay  = 2 * time.Minute
	)

	delay := baseDelay * (1 << attempt)
	if delay > maxDelay || delay <= 0 {
		delay = maxDelay
	}

	var b [8]byte
	_, _ = rand.Read(b[:])
	jitter := time.Duration(binary.LittleEndian.Uint64(b[:]) % uint64(delay))

	return jitter
}

// event is the envelope every socket frame carries. Payload fields
// beyond the name are ignored; subscribers refetch what they need.
type event struct {
	Event string `json:"event"`
}

// Notifier dials the socket, reads events and calls every handler
// subscribed to the event's name. The connection is redialed with
// backoff when it drops; frames that fail to decode are skipped.
type Notifier struct {
	url   string
	token func() string

	mu        sync.Mutex
	subs      map[string]map[int]func()
	nextSub   int
	conn      *websocket.Conn
	closed    bool
	closeOnce sync.Once
	done      chan struct{}
}

func NewNotifier(socketURL string, token func() string) *Notifier {
	return &Notifier{
		url:   socketURL,
		token: token,
		subs:  make(map[string]map[int]func()),
		done:  make(chan struct{}),
	}
}

// Subscribe registers handler for the named event and returns an id
// for Unsubscribe. Handlers run on the read loop goroutine and should
// hand off anything slow.
func (n *Notifier) Subscribe(name string, handler func()) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextSub++
	if n.subs[name] == nil {
		n.subs[name] = make(map[int]func())
	}
	n.subs[name][n.nextSub] = handler
	return n.nextSub
}

// Unsubscribe removes a handler registered with Subscribe. Unknown ids
// are ignored.
func (n *Notifier) Unsubscribe(name string, id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subs[name], id)
}

// Start runs the dial-read-redial loop until Close is called.
func (n *Notifier) Start() {
	go n.run()
}

func (n *Notifier) run() {
	attempt := 0
	for {
		select {
		case <-n.done:
			return
		default:
		}

		dialer := websocket.Dialer{HandshakeTimeout: 15 * time.Second}
		url := n.url
		if tok := n.token(); tok != "" {
			url = url + "?token=" + tok
		}
		conn, _, err := dialer.Dial(url, nil)
		if err != nil {
			delay := backoffWithJitter(attempt)
			zap.S().Warnw("socket dial failed", "attempt", attempt, "retry_in", delay, "error", err)
			attempt++
			select {
			case <-n.done:
				return
			case <-time.After(delay):
			}
			continue
		}

		attempt = 0
		n.mu.Lock()
		if n.closed {
			n.mu.Unlock()
			conn.Close()
			return
		}
		n.conn = conn
		n.mu.Unlock()
		zap.S().Infow("socket connected", "url", n.url)

		n.readLoop(conn)

		n.mu.Lock()
		n.conn = nil
		n.mu.Unlock()
	}
}

func (n *Notifier) readLoop(conn *websocket.Conn) {
	defer conn.Close()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-n.done:
			default:
				zap.S().Warnw("socket read failed", "error", err)
			}
			return
		}

		var ev event
		if err := json.Unmarshal(msg, &ev); err != nil || ev.Event == "" {
			continue
		}
		n.dispatch(ev.Event)
	}
}

func (n *Notifier) dispatch(name string) {
	n.mu.Lock()
	handlers := make([]func(), 0, len(n.subs[name]))
	for _, h := range n.subs[name] {
		handlers = append(handlers, h)
	}
	n.mu.Unlock()
	for _, h := range handlers {
		h()
	}
}

// Close stops the loop and closes any open connection.
func (n *Notifier) Close() {
	n.closeOnce.Do(func() {
		n.mu.Lock()
		n.closed = true
		conn := n.conn
		n.mu.Unlock()
		close(n.done)
		if conn != nil {
			conn.Close()
		}
	})
}
