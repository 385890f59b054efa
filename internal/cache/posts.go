package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// The two hot reads: a single visible post and the default-size first page
// of the public list. Every write that can change either deletes both.
const (
	postKeyFmt   = "post:%d"
	postsListKey = "posts:first"

	PostTTL = 30 * time.Minute
	ListTTL = 1 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(postKeyFmt, postID)
}

// PostsListKey names the cached default-size first page of the post list.
// Pages for any other limit, offset or sort are never cached under it.
func PostsListKey() string {
	return postsListKey
}

// Aside reads key into dest, falling back to fetch on a miss and storing
// what fetch produced. fetch must write into dest. With no Redis client the
// read degrades to a plain fetch.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := lookupJSON(ctx, key, dest)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	// Storing is best-effort; the caller already has the fresh value.
	_ = storeJSON(ctx, key, dest, ttl)
	return nil
}

func InvalidatePost(ctx context.Context, postID uint) {
	invalidate(ctx, PostKey(postID))
}

func InvalidatePostsList(ctx context.Context) {
	invalidate(ctx, postsListKey)
}

func invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func lookupJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

func storeJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}
