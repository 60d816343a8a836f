package draft

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    redis "github.com/redis/go-redis/v9"
)

// RedisStore persists drafts as JSON values with a session TTL.
type RedisStore struct {
    client *redis.Client
    ttl    time.Duration
}

func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
    opt, err := redis.ParseURL(redisURL)
    if err != nil { return nil, fmt.Errorf("parse redis url: %w", err) }
    c := redis.NewClient(opt)
    ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
    defer cancel()
    if err := c.Ping(ctx).Err(); err != nil { return nil, err }
    if ttl <= 0 { ttl = 24 * time.Hour }
    return &RedisStore{client: c, ttl: ttl}, nil
}

func (s *RedisStore) key(sessionID string) string { return fmt.Sprintf("draft:%s", sessionID) }

func (s *RedisStore) Get(ctx context.Context, sessionID string) (Draft, bool, error) {
    raw, err := s.client.Get(ctx, s.key(sessionID)).Result()
    if err == redis.Nil { return Draft{}, false, nil }
    if err != nil { return Draft{}, false, err }
    var d Draft
    if err := json.Unmarshal([]byte(raw), &d); err != nil {
        // Unreadable session state is no worse than an expired one.
        return Draft{}, false, nil
    }
    return d, true, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, d Draft) error {
    b, err := json.Marshal(d)
    if err != nil { return err }
    return s.client.Set(ctx, s.key(sessionID), b, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
    return s.client.Del(ctx, s.key(sessionID)).Err()
}

func (s *RedisStore) Close() error { return s.client.Close() }

// Ping exposes connectivity for the health summary.
func (s *RedisStore) Ping(ctx context.Context) error {
    return s.client.Ping(ctx).Err()
}
