package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Builder-Lawyers/publisher/pkg/env"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

func NewConfig() *Config {
	return &Config{
		Addr:     env.GetEnv("REDIS_ADDR", "localhost:6379"),
		Password: env.GetEnv("REDIS_PASSWORD", ""),
		DB:       env.GetInt("REDIS_DB", 0),
	}
}

func NewClient(ctx context.Context, cfg *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

func publishedKey(siteID string) string {
	return "site:" + siteID + ":published"
}

func domainKey(hostname string) string {
	return "domain:" + hostname
}

// PointerStore keeps the currently published version of every site.
// Pointers never expire; they are only ever overwritten.
type PointerStore struct {
	redis *redis.Client
}

func NewPointerStore(client *redis.Client) *PointerStore {
	return &PointerStore{redis: client}
}

func (p *PointerStore) GetPublished(ctx context.Context, siteID string) (string, bool, error) {
	val, err := p.redis.Get(ctx, publishedKey(siteID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get pointer for site %s: %w", siteID, err)
	}
	return val, true, nil
}

func (p *PointerStore) SetPublished(ctx context.Context, siteID, versionID string) error {
	if err := p.redis.Set(ctx, publishedKey(siteID), versionID, 0).Err(); err != nil {
		slog.Error("redis SET failed", "key", publishedKey(siteID), "err", err)
		return fmt.Errorf("failed to set pointer for site %s: %w", siteID, err)
	}
	return nil
}

// DomainCache maps hostnames to site ids for a bounded time.
type DomainCache struct {
	redis *redis.Client
}

func NewDomainCache(client *redis.Client) *DomainCache {
	return &DomainCache{redis: client}
}

func (d *DomainCache) GetSiteID(ctx context.Context, hostname string) (string, bool, error) {
	val, err := d.redis.Get(ctx, domainKey(hostname)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get domain %s: %w", hostname, err)
	}
	return val, true, nil
}

func (d *DomainCache) SetSiteID(ctx context.Context, hostname, siteID string, ttl time.Duration) error {
	if err := d.redis.Set(ctx, domainKey(hostname), siteID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache domain %s: %w", hostname, err)
	}
	return nil
}

// Delete drops a cached mapping, e.g. after a domain is detached.
func (d *DomainCache) Delete(ctx context.Context, hostname string) error {
	if err := d.redis.Del(ctx, domainKey(hostname)).Err(); err != nil {
		return fmt.Errorf("failed to delete domain %s: %w", hostname, err)
	}
	return nil
}
