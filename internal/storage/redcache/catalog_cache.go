package redcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Mcbuzzerr/RetroGamesAPI/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	catalogKeyPrefix = "catalog:"
	catalogEntryTTL  = 12 * time.Hour
)

type lookup interface {
	GetEntry(ctx context.Context, id string) (domain.CatalogEntry, error)
}

// CatalogCache is a read-through redis cache in front of the catalog store.
// Cache trouble is never fatal: misses and redis errors fall back to the
// source, and failed writes are only logged.
type CatalogCache struct {
	client *redis.Client
	source lookup
	logger *zap.Logger
}

func NewCatalogCache(client *redis.Client, source lookup, logger *zap.Logger) *CatalogCache {
	return &CatalogCache{
		client: client,
		source: source,
		logger: logger,
	}
}

func (c *CatalogCache) GetEntry(ctx context.Context, id string) (domain.CatalogEntry, error) {
	key := catalogKeyPrefix + id

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var entry domain.CatalogEntry
		if err := json.Unmarshal(payload, &entry); err == nil {
			return entry, nil
		}
		c.logger.Warn("dropping undecodable catalog cache entry", zap.String("key", key))
		_ = c.client.Del(ctx, key).Err()
	} else if err != redis.Nil {
		c.logger.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	}

	entry, err := c.source.GetEntry(ctx, id)
	if err != nil {
		return domain.CatalogEntry{}, err
	}

	if payload, err := json.Marshal(entry); err == nil {
		if err := c.client.Set(ctx, key, payload, catalogEntryTTL).Err(); err != nil {
			c.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return entry, nil
}
