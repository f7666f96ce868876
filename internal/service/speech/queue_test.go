package speech

import (
	"context"
	"testing"
	"time"
)

func TestQueueDeliversPublished(t *testing.T) {
	q := NewQueue()
	q.Publish("s1", "hello there")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	got, err := q.Next(ctx, "s1")
	if err != nil {
		t.Fatalf("Next err: %v", err)
	}
	if got != "hello there" {
		t.Fatalf("got %q", got)
	}
}

func TestQueueLatestWins(t *testing.T) {
	q := NewQueue()
	q.Publish("s1", "first")
	q.Publish("s1", "second")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	got, err := q.Next(ctx, "s1")
	if err != nil {
		t.Fatalf("Next err: %v", err)
	}
	if got != "second" {
		t.Fatalf("got %q, want the newer utterance", got)
	}
}

func TestQueueSessionsIsolated(t *testing.T) {
	q := NewQueue()
	q.Publish("s1", "for session one")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := q.Next(ctx, "s2"); err == nil {
		t.Fatal("expected timeout for the other session")
	}
}

func TestQueueNextUnblocksOnCancel(t *testing.T) {
	q := NewQueue()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := q.Next(ctx, "s1")
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected context error")
		}
	case <-time.After(time.Second):
		t.Fatal("Next did not unblock on cancel")
	}
}

func TestQueueDropsEmptyText(t *testing.T) {
	q := NewQueue()
	q.Publish("s1", "   ")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := q.Next(ctx, "s1"); err == nil {
		t.Fatal("blank text must not be queued")
	}
}
