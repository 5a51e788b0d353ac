// internal/cache/report_cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mytimarket/shop-reports/internal/config"
	"github.com/mytimarket/shop-reports/internal/domain"
)

const (
	reportKeyPrefix  = "report:bundle"
	scanBatchSize    = 100
	defaultReportTTL = 5 * time.Minute
)

// ReportCache keys finished report bundles by the digest of the input batch,
// so re-submitting the same export is a cache hit instead of a recompute.
type ReportCache interface {
	Get(ctx context.Context, digest string) (*domain.ReportBundle, bool, error)
	Set(ctx context.Context, digest string, bundle *domain.ReportBundle) error
	InvalidateAll(ctx context.Context) error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReportCache struct{}

func NewReportCache(cfg config.CacheConfig) (ReportCache, error) {
	if !cfg.Enabled {
		return &noopReportCache{}, nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.ReportTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultReportTTL
	}

	return &redisReportCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopReportCache() ReportCache {
	return &noopReportCache{}
}

func (c *redisReportCache) Get(ctx context.Context, digest string) (*domain.ReportBundle, bool, error) {
	payload, err := c.client.Get(ctx, reportKey(digest)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var bundle domain.ReportBundle
	if err := json.Unmarshal(payload, &bundle); err != nil {
		return nil, false, fmt.Errorf("decode report bundle cache: %w", err)
	}

	return &bundle, true, nil
}

func (c *redisReportCache) Set(ctx context.Context, digest string, bundle *domain.ReportBundle) error {
	payload, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("encode report bundle cache: %w", err)
	}

	if err := c.client.Set(ctx, reportKey(digest), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisReportCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, reportKeyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return nil
}

func (n *noopReportCache) Get(ctx context.Context, digest string) (*domain.ReportBundle, bool, error) {
	return nil, false, nil
}

func (n *noopReportCache) Set(ctx context.Context, digest string, bundle *domain.ReportBundle) error {
	return nil
}

func (n *noopReportCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}

	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

func reportKey(digest string) string {
	return fmt.Sprintf("%s:%s", reportKeyPrefix, digest)
}
