package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// setupTestNATS starts an embedded JetStream-enabled NATS server
func setupTestNATS(t *testing.T) string {
	t.Helper()
	opts := &server.Options{
		Host:      "127.0.0.1",
		Port:      -1, // Random port
		JetStream: true,
		StoreDir:  t.TempDir(),
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		t.Fatalf("Failed to create NATS server: %v", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("NATS server not ready")
	}

	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return ns.ClientURL()
}

func TestNATSQueue_PublishSubscribe(t *testing.T) {
	url := setupTestNATS(t)

	q, err := NewNATSQueue(NATSConfig{URL: url})
	if err != nil {
		t.Fatalf("Failed to create NATS queue: %v", err)
	}
	defer func() { _ = q.Close() }()

	// Published before subscribe: the durable consumer replays it
	if err := q.Publish(context.Background(), "finlytics.jobs", []byte("first")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	received := make(chan string, 10)
	err = q.Subscribe("finlytics.jobs", func(ctx context.Context, data []byte) error {
		received <- string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if err := q.Publish(context.Background(), "finlytics.jobs", []byte("second")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	for _, want := range []string{"first", "second"} {
		select {
		case got := <-received:
			if got != want {
				t.Errorf("Expected %q, got %q", want, got)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("Timeout waiting for %q", want)
		}
	}
}

func TestNATSQueue_Redelivery(t *testing.T) {
	url := setupTestNATS(t)

	q, err := NewNATSQueue(NATSConfig{URL: url})
	if err != nil {
		t.Fatalf("Failed to create NATS queue: %v", err)
	}
	defer func() { _ = q.Close() }()

	var attempts int32
	err = q.Subscribe("finlytics.retry", func(ctx context.Context, data []byte) error {
		if atomic.AddInt32(&attempts, 1) < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	_ = q.Publish(context.Background(), "finlytics.retry", []byte("x"))

	waitFor(t, 5*time.Second, func() bool { return atomic.LoadInt32(&attempts) >= 2 })
}

func TestNATSQueue_SubscribeTwice(t *testing.T) {
	url := setupTestNATS(t)

	q, err := NewNATSQueue(NATSConfig{URL: url})
	if err != nil {
		t.Fatalf("Failed to create NATS queue: %v", err)
	}
	defer func() { _ = q.Close() }()

	handler := func(ctx context.Context, data []byte) error { return nil }
	if err := q.Subscribe("finlytics.dup", handler); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if err := q.Subscribe("finlytics.dup", handler); err == nil {
		t.Error("Expected error on duplicate subscription")
	}
	if err := q.Unsubscribe("finlytics.dup"); err != nil {
		t.Errorf("Unsubscribe failed: %v", err)
	}
	if err := q.Unsubscribe("finlytics.dup"); err == nil {
		t.Error("Expected error on second unsubscribe")
	}
}

func TestNewNATSQueue_InvalidURL(t *testing.T) {
	q, err := NewNATSQueue(NATSConfig{URL: "nats://127.0.0.1:1"})
	if err == nil {
		_ = q.Close()
		t.Fatal("Expected error with unreachable server")
	}
}

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"finlytics.jobs": "finlytics_jobs",
		"a>b*c":          "a_b_c",
		"ok-name_1":      "ok-name_1",
	}
	for in, want := range tests {
		if got := sanitizeName(in); got != want {
			t.Errorf("sanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
