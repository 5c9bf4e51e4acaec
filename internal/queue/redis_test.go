package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisQueue(t *testing.T) (*RedisQueue, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)

	q, err := NewRedisQueue(RedisConfig{
		URL:      "redis://" + s.Addr(),
		Consumer: "test-consumer",
		Block:    50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Failed to create Redis queue: %v", err)
	}
	t.Cleanup(func() { _ = q.Close() })
	return q, s
}

func TestRedisQueue_Defaults(t *testing.T) {
	q, _ := newTestRedisQueue(t)

	if q.config.Stream != "finlytics" {
		t.Errorf("Expected default stream prefix, got %s", q.config.Stream)
	}
	if q.config.Group != "finlytics-group" {
		t.Errorf("Expected default group, got %s", q.config.Group)
	}
	if q.streamName("jobs") != "finlytics:jobs" {
		t.Errorf("Unexpected stream name %s", q.streamName("jobs"))
	}
}

func TestRedisQueue_Publish(t *testing.T) {
	q, s := newTestRedisQueue(t)

	if err := q.Publish(context.Background(), "jobs", []byte("payload")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	entries, err := s.Stream("finlytics:jobs")
	if err != nil {
		t.Fatalf("Stream lookup failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 stream entry, got %d", len(entries))
	}
}

func TestRedisQueue_PublishSubscribe(t *testing.T) {
	q, _ := newTestRedisQueue(t)

	received := make(chan string, 10)
	err := q.Subscribe("jobs", func(ctx context.Context, data []byte) error {
		received <- string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if err := q.Publish(context.Background(), "jobs", []byte("hello")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case got := <-received:
		if got != "hello" {
			t.Errorf("Expected 'hello', got %q", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for message")
	}
}

func TestRedisQueue_SubscribeTwice(t *testing.T) {
	q, _ := newTestRedisQueue(t)

	handler := func(ctx context.Context, data []byte) error { return nil }
	if err := q.Subscribe("jobs", handler); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if err := q.Subscribe("jobs", handler); err == nil {
		t.Error("Expected error on duplicate subscription")
	}
	if err := q.Unsubscribe("jobs"); err != nil {
		t.Errorf("Unsubscribe failed: %v", err)
	}
	if err := q.Unsubscribe("jobs"); err == nil {
		t.Error("Expected error on second unsubscribe")
	}
}

func TestNewRedisQueue_ConnectFailure(t *testing.T) {
	if _, err := NewRedisQueue(RedisConfig{URL: "redis://127.0.0.1:1"}); err == nil {
		t.Error("Expected connection error")
	}
}
