package offline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "offline:"

// RedisStore keeps cached assets in redis under version-namespaced keys
// (offline:<version>:<url>), so every version is one prefix scan away from
// enumeration or eviction.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func assetKey(version, url string) string {
	return keyPrefix + version + ":" + url
}

func (s *RedisStore) Put(ctx context.Context, version string, resp CachedResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode cached response: %w", err)
	}
	return s.client.Set(ctx, assetKey(version, resp.URL), data, 0).Err()
}

func (s *RedisStore) Match(ctx context.Context, version, url string) (*CachedResponse, bool, error) {
	data, err := s.client.Get(ctx, assetKey(version, url)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var resp CachedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached response: %w", err)
	}
	return &resp, true, nil
}

func (s *RedisStore) Versions(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var versions []string

	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		// offline:<version>:<url>; versions never contain colons.
		rest := strings.TrimPrefix(iter.Val(), keyPrefix)
		parts := strings.SplitN(rest, ":", 2)
		if len(parts) != 2 {
			continue
		}
		if _, ok := seen[parts[0]]; !ok {
			seen[parts[0]] = struct{}{}
			versions = append(versions, parts[0])
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return versions, nil
}

func (s *RedisStore) DeleteVersion(ctx context.Context, version string) error {
	iter := s.client.Scan(ctx, 0, keyPrefix+version+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *RedisStore) Count(ctx context.Context, version string) (int, error) {
	count := 0
	iter := s.client.Scan(ctx, 0, keyPrefix+version+":*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	return count, nil
}
