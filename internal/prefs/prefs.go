package prefs

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

const themeKey = "prefs:theme"

// DefaultTheme is what a fresh install renders with.
const DefaultTheme = "light"

// Store persists the single string-valued theme preference across sessions.
type Store interface {
	GetTheme(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, theme string) error
}

// RedisStore keeps the preference in redis so it survives process restarts.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) GetTheme(ctx context.Context) (string, error) {
	theme, err := s.client.Get(ctx, themeKey).Result()
	if err == redis.Nil {
		return DefaultTheme, nil
	}
	if err != nil {
		return "", err
	}
	return theme, nil
}

func (s *RedisStore) SetTheme(ctx context.Context, theme string) error {
	return s.client.Set(ctx, themeKey, theme, 0).Err()
}

// MemoryStore backs tests and redis-less development runs.
type MemoryStore struct {
	mu    sync.Mutex
	theme string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{theme: DefaultTheme}
}

func (s *MemoryStore) GetTheme(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme, nil
}

func (s *MemoryStore) SetTheme(ctx context.Context, theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	return nil
}
