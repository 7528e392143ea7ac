package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "interview:transcript:"

// RedisStore persists transcripts in a Redis list per session, so a host can
// survive restarts or run several instances against one interview backlog.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	// ttl expires idle transcripts; zero keeps them forever.
	ttl time.Duration
}

// NewRedisStore creates a store around an already configured client and
// verifies connectivity.
func NewRedisStore(ctx context.Context, client *redis.Client, keyPrefix string, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}

	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}, nil
}

func (s *RedisStore) key(sessionID string) string {
	return s.keyPrefix + sessionID
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, record Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal transcript record for session %s: %w", sessionID, err)
	}

	// Pipeline keeps the push and the TTL refresh atomic.
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, s.key(sessionID), payload)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(sessionID), s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append transcript record for session %s: %w", sessionID, err)
	}

	return nil
}

func (s *RedisStore) History(ctx context.Context, sessionID string) ([]Record, error) {
	serialized, err := s.client.LRange(ctx, s.key(sessionID), 0, -1).Result()
	if errors.Is(err, redis.Nil) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get transcript for session %s: %w", sessionID, err)
	}

	records := make([]Record, 0, len(serialized))
	for _, item := range serialized {
		var record Record
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			return nil, fmt.Errorf("unmarshal transcript record for session %s: %w", sessionID, err)
		}
		records = append(records, record)
	}

	return records, nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear transcript for session %s: %w", sessionID, err)
	}
	return nil
}
