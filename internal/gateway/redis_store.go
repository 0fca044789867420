package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"manifest-reconciliation/internal/domain"
)

// RedisStateStore keeps workflow state in redis so several terminals of a
// branch can share it. Keys are "<prefix><namespace>:<field>".
type RedisStateStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStateStore connects and pings the server.
func NewRedisStateStore(ctx context.Context, addr, password string, db int, prefix string, ttl time.Duration) (*RedisStateStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStateStore{client: client, prefix: prefix, ttl: ttl}, nil
}

func (s *RedisStateStore) keys(namespace string) []string {
	keys := make([]string, 0, len(domain.PersistedFields))
	for _, field := range domain.PersistedFields {
		keys = append(keys, s.prefix+namespace+":"+field)
	}
	return keys
}

// Load returns the stored state, or nil when nothing was saved.
func (s *RedisStateStore) Load(ctx context.Context, namespace string) (*domain.WorkflowState, error) {
	res, err := s.client.MGet(ctx, s.keys(namespace)...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read state %s: %w", namespace, err)
	}

	values := make(map[string][]byte, len(res))
	for i, v := range res {
		str, ok := v.(string)
		if !ok {
			continue
		}
		values[domain.PersistedFields[i]] = []byte(str)
	}
	return decodeFields(values)
}

// Save writes every field in one MULTI/EXEC pipeline.
func (s *RedisStateStore) Save(ctx context.Context, namespace string, state *domain.WorkflowState) error {
	values, err := encodeFields(state)
	if err != nil {
		return err
	}
	keys := s.keys(namespace)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, field := range domain.PersistedFields {
			pipe.Set(ctx, keys[i], values[field], s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write state %s: %w", namespace, err)
	}
	return nil
}

// Clear deletes every field of namespace.
func (s *RedisStateStore) Clear(ctx context.Context, namespace string) error {
	if err := s.client.Del(ctx, s.keys(namespace)...).Err(); err != nil {
		return fmt.Errorf("failed to clear state %s: %w", namespace, err)
	}
	return nil
}

// Close closes the redis connection.
func (s *RedisStateStore) Close() error {
	return s.client.Close()
}
