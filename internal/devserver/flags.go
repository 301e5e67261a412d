package devserver

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// FlagStore holds the per-room new-message bit. A second Set before a Clear
// is absorbed into the same set state.
type FlagStore interface {
	Set(ctx context.Context, roomID string) error
	Get(ctx context.Context, roomID string) (bool, error)
	Clear(ctx context.Context, roomID string) error
}

// MemoryFlags is the default in-process flag store.
type MemoryFlags struct {
	mu    sync.Mutex
	flags map[string]bool
}

func NewMemoryFlags() *MemoryFlags {
	return &MemoryFlags{flags: make(map[string]bool)}
}

func (m *MemoryFlags) Set(_ context.Context, roomID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[roomID] = true
	return nil
}

func (m *MemoryFlags) Get(_ context.Context, roomID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flags[roomID], nil
}

func (m *MemoryFlags) Clear(_ context.Context, roomID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.flags, roomID)
	return nil
}

// RedisFlags keeps the flags in redis so several devserver instances share
// them. Enabled when DEVSERVER_REDIS_URL is set.
type RedisFlags struct {
	client *redis.Client
}

func NewRedisFlags(url string) (*RedisFlags, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisFlags{client: redis.NewClient(opts)}, nil
}

func (r *RedisFlags) key(roomID string) string {
	return "chatrum:newmsg:" + roomID
}

func (r *RedisFlags) Set(ctx context.Context, roomID string) error {
	return r.client.Set(ctx, r.key(roomID), "1", 0).Err()
}

func (r *RedisFlags) Get(ctx context.Context, roomID string) (bool, error) {
	_, err := r.client.Get(ctx, r.key(roomID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisFlags) Clear(ctx context.Context, roomID string) error {
	return r.client.Del(ctx, r.key(roomID)).Err()
}
