package queue

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/soltixdb/finlytics/internal/config"
)

func TestNewQueue(t *testing.T) {
	cfg := config.DefaultConfig().Queue

	q, err := NewQueue(cfg)
	if err != nil {
		t.Fatalf("NewQueue(memory) failed: %v", err)
	}
	if _, ok := q.(*MemoryQueue); !ok {
		t.Errorf("Expected *MemoryQueue, got %T", q)
	}
	_ = q.Close()

	cfg.Type = ""
	q, err = NewQueue(cfg)
	if err != nil {
		t.Fatalf("NewQueue(empty) failed: %v", err)
	}
	if _, ok := q.(*MemoryQueue); !ok {
		t.Errorf("Empty type should select memory, got %T", q)
	}
	_ = q.Close()
}

func TestNewQueue_NATS(t *testing.T) {
	url := setupTestNATS(t)

	cfg := config.DefaultConfig().Queue
	cfg.Type = "NATS"
	cfg.URL = url

	q, err := NewQueue(cfg)
	if err != nil {
		t.Fatalf("NewQueue(nats) failed: %v", err)
	}
	if _, ok := q.(*NATSQueue); !ok {
		t.Errorf("Expected *NATSQueue, got %T", q)
	}
	_ = q.Close()
}

func TestNewQueue_Redis(t *testing.T) {
	s := miniredis.RunT(t)

	cfg := config.DefaultConfig().Queue
	cfg.Type = "redis"
	cfg.URL = "redis://" + s.Addr()

	q, err := NewQueue(cfg)
	if err != nil {
		t.Fatalf("NewQueue(redis) failed: %v", err)
	}
	if _, ok := q.(*RedisQueue); !ok {
		t.Errorf("Expected *RedisQueue, got %T", q)
	}
	_ = q.Close()
}

func TestNewQueue_Kafka(t *testing.T) {
	cfg := config.DefaultConfig().Queue
	cfg.Type = "kafka"
	cfg.KafkaBrokers = nil
	cfg.URL = "127.0.0.1:1,127.0.0.1:2"

	q, err := NewQueue(cfg)
	if err != nil {
		t.Fatalf("NewQueue(kafka) failed: %v", err)
	}
	kq, ok := q.(*KafkaQueue)
	if !ok {
		t.Fatalf("Expected *KafkaQueue, got %T", q)
	}
	if len(kq.config.Brokers) != 2 {
		t.Errorf("Expected brokers split from URL, got %v", kq.config.Brokers)
	}
	_ = q.Close()
}

func TestNewQueue_Unsupported(t *testing.T) {
	cfg := config.DefaultConfig().Queue
	cfg.Type = "rabbitmq"
	if _, err := NewQueue(cfg); err == nil {
		t.Error("Expected error for unsupported type")
	}
}
