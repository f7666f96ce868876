// Package speech queues spoken lines for connected clients. Each session
// keeps a single pending utterance; a newer line replaces an undelivered
// older one so speech never lags behind the conversation.
package speech

import (
	"context"
	"strings"
	"sync"
)

// Queue is a per-session latest-wins utterance buffer.
type Queue struct {
	mu    sync.Mutex
	slots map[string]chan string
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{slots: make(map[string]chan string)}
}

func (q *Queue) slot(sessionKey string) chan string {
	q.mu.Lock()
	defer q.mu.Unlock()
	ch, ok := q.slots[sessionKey]
	if !ok {
		ch = make(chan string, 1)
		q.slots[sessionKey] = ch
	}
	return ch
}

// Publish stores text as the session's pending utterance, replacing any
// undelivered one. Empty text is dropped.
func (q *Queue) Publish(sessionKey, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	ch := q.slot(sessionKey)
	for {
		select {
		case ch <- text:
			return
		default:
			// Slot full: discard the stale utterance and retry.
			select {
			case <-ch:
			default:
			}
		}
	}
}

// Next blocks until the session has an utterance or the context ends.
func (q *Queue) Next(ctx context.Context, sessionKey string) (string, error) {
	ch := q.slot(sessionKey)
	select {
	case text := <-ch:
		return text, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
