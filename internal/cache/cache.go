package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/logger"
)

// Store is a small key-value store for JSON documents.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Tiered keeps an in-memory L1 in front of an optional Redis L2. With no
// Redis client it behaves as a process-local store.
type Tiered struct {
	l1         sync.Map // key -> *entry
	rdb        *redis.Client
	maxEntries int
	log        *zap.Logger

	mu    sync.Mutex
	count int
}

type entry struct {
	data      []byte
	expiresAt time.Time // zero means no expiry
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// New connects to redisURL when non-empty. An unreachable or invalid Redis
// disables L2 with a warning rather than failing.
func New(ctx context.Context, redisURL string, maxEntries int, log *zap.Logger) *Tiered {
	c := &Tiered{maxEntries: maxEntries, log: logger.OrNop(log)}

	if redisURL == "" {
		c.log.Info("cache: redis disabled, using memory only")
		return c
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		c.log.Warn("cache: invalid redis URL, L2 disabled", zap.Error(err))
		return c
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		c.log.Warn("cache: redis unreachable, L2 disabled", zap.Error(err))
		_ = rdb.Close()
		return c
	}

	c.rdb = rdb
	c.log.Info("cache: redis connected", zap.String("addr", opts.Addr))
	return c
}

// NewMemory returns an L1-only store.
func NewMemory(maxEntries int) *Tiered {
	return &Tiered{maxEntries: maxEntries, log: zap.NewNop()}
}

func (c *Tiered) HasRedis() bool {
	return c.rdb != nil
}

// Direct returns a view of c for records that must be consistent across
// instances. With Redis configured it reads and writes Redis only, so a
// delete on one instance is seen by every other. Without Redis it is c.
func (c *Tiered) Direct() Store {
	if c.rdb == nil {
		return c
	}
	return direct{c}
}

type direct struct {
	c *Tiered
}

func (d direct) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := d.c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s from redis: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return true, nil
}

func (d direct) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := d.c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s to redis: %w", key, err)
	}
	return nil
}

func (d direct) Delete(ctx context.Context, keys ...string) error {
	return d.c.Delete(ctx, keys...)
}

func (c *Tiered) Get(ctx context.Context, key string, dest any) (bool, error) {
	if val, ok := c.l1.Load(key); ok {
		e := val.(*entry)
		if !e.expired(time.Now()) {
			if err := json.Unmarshal(e.data, dest); err != nil {
				return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
			}
			return true, nil
		}
		c.forget(key)
	}

	if c.rdb == nil {
		return false, nil
	}

	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s from redis: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}

	var expiresAt time.Time
	if ttl, err := c.rdb.TTL(ctx, key).Result(); err == nil && ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	c.store(key, &entry{data: data, expiresAt: expiresAt})

	return true, nil
}

func (c *Tiered) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	e := &entry{data: data}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	c.store(key, e)

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
			return fmt.Errorf("failed to write %s to redis: %w", key, err)
		}
	}

	return nil
}

func (c *Tiered) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	for _, key := range keys {
		c.forget(key)
	}

	if c.rdb != nil {
		if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete keys from redis: %w", err)
		}
	}

	return nil
}

func (c *Tiered) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func (c *Tiered) store(key string, e *entry) {
	if _, loaded := c.l1.Swap(key, e); !loaded {
		c.mu.Lock()
		c.count++
		c.mu.Unlock()
	}
	c.evictIfNeeded()
}

func (c *Tiered) forget(key string) {
	if _, loaded := c.l1.LoadAndDelete(key); loaded {
		c.mu.Lock()
		c.count--
		c.mu.Unlock()
	}
}

// evictIfNeeded drops expired entries first, then the entries closest to
// expiry, until L1 is back under maxEntries. Without Redis an entry with no
// expiry is the only copy of its record and is never evicted.
func (c *Tiered) evictIfNeeded() {
	if c.maxEntries <= 0 {
		return
	}

	c.mu.Lock()
	over := c.count > c.maxEntries
	c.mu.Unlock()
	if !over {
		return
	}

	now := time.Now()
	c.l1.Range(func(key, val any) bool {
		if val.(*entry).expired(now) {
			c.forget(key.(string))
		}
		return true
	})

	for {
		c.mu.Lock()
		over = c.count > c.maxEntries
		c.mu.Unlock()
		if !over {
			return
		}

		var oldestKey string
		var oldestAt time.Time
		c.l1.Range(func(key, val any) bool {
			e := val.(*entry)
			at := e.expiresAt
			if at.IsZero() {
				if c.rdb == nil {
					return true
				}
				at = now.Add(100 * 365 * 24 * time.Hour)
			}
			if oldestKey == "" || at.Before(oldestAt) {
				oldestKey = key.(string)
				oldestAt = at
			}
			return true
		})
		if oldestKey == "" {
			return
		}
		c.forget(oldestKey)
	}
}
