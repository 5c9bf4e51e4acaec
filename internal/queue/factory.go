package queue

import (
	"fmt"
	"strings"

	"github.com/soltixdb/finlytics/internal/config"
)

// NewQueue creates a Queue based on configuration.
// An empty type selects the in-process memory queue.
func NewQueue(cfg config.QueueConfig) (Queue, error) {
	queueType := Type(strings.ToLower(cfg.Type))
	if queueType == "" {
		queueType = TypeMemory
	}

	switch queueType {
	case TypeMemory:
		return NewMemoryQueue(), nil

	case TypeNATS:
		return NewNATSQueue(NATSConfig{
			URL:      cfg.URL,
			Username: cfg.Username,
			Password: cfg.Password,
		})

	case TypeRedis:
		return NewRedisQueue(RedisConfig{
			URL:      cfg.URL,
			Password: cfg.Password,
			DB:       cfg.RedisDB,
			Stream:   cfg.RedisStream,
			Group:    cfg.RedisGroup,
			Consumer: cfg.RedisConsumer,
		})

	case TypeKafka:
		brokers := cfg.KafkaBrokers
		if len(brokers) == 0 && cfg.URL != "" {
			brokers = strings.Split(cfg.URL, ",")
		}
		return NewKafkaQueue(KafkaConfig{
			Brokers: brokers,
			GroupID: cfg.KafkaGroupID,
		})

	default:
		return nil, fmt.Errorf("unsupported queue type: %s (supported: memory, nats, redis, kafka)", queueType)
	}
}
