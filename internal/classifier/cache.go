package classifier

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/models"

	"github.com/redis/go-redis/v9"
)

// Cache stores classification results by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]models.SkillPrediction, bool)
	Set(ctx context.Context, key string, preds []models.SkillPrediction)
}

type cacheEntry struct {
	preds     []models.SkillPrediction
	timestamp time.Time
}

// MemoryCache provides simple in-memory caching with a TTL
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	ttl     time.Duration
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]models.SkillPrediction, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}
	if time.Since(entry.timestamp) > c.ttl {
		return nil, false
	}
	return clonePreds(entry.preds), true
}

func (c *MemoryCache) Set(ctx context.Context, key string, preds []models.SkillPrediction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &cacheEntry{
		preds:     clonePreds(preds),
		timestamp: time.Now(),
	}
}

// CleanExpired removes expired entries (call periodically)
func (c *MemoryCache) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := time.Now()
	for key, entry := range c.entries {
		if now.Sub(entry.timestamp) > c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// RedisCache keeps results in Redis so several server instances share them.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl, prefix: "skills:"}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]models.SkillPrediction, bool) {
	data, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("⚠️ Redis get failed: %v", err)
		}
		return nil, false
	}
	var preds []models.SkillPrediction
	if err := json.Unmarshal(data, &preds); err != nil {
		log.Printf("⚠️ Dropping unreadable cache entry: %v", err)
		return nil, false
	}
	return preds, true
}

func (c *RedisCache) Set(ctx context.Context, key string, preds []models.SkillPrediction) {
	data, err := json.Marshal(preds)
	if err != nil {
		log.Printf("⚠️ Failed to marshal cache entry: %v", err)
		return
	}
	if err := c.rdb.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		log.Printf("⚠️ Redis set failed: %v", err)
	}
}

// CachedClient memoizes another client by (text, threshold).
type CachedClient struct {
	inner Client
	cache Cache
}

func NewCachedClient(inner Client, cache Cache) *CachedClient {
	return &CachedClient{inner: inner, cache: cache}
}

func (c *CachedClient) Classify(ctx context.Context, text string, threshold float64) ([]models.SkillPrediction, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	key := cacheKey(text, threshold)
	if preds, ok := c.cache.Get(ctx, key); ok {
		return preds, nil
	}

	preds, err := c.inner.Classify(ctx, text, threshold)
	if err != nil {
		return nil, err
	}
	c.cache.Set(ctx, key, preds)
	return preds, nil
}

func cacheKey(text string, threshold float64) string {
	hash := md5.Sum([]byte(fmt.Sprintf("%.4f|%s", threshold, text)))
	return fmt.Sprintf("%x", hash)
}

func clonePreds(preds []models.SkillPrediction) []models.SkillPrediction {
	out := make([]models.SkillPrediction, len(preds))
	copy(out, preds)
	return out
}
