package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appinv "github.com/stockyard/backend/internal/application/inventory"
)

const summaryTTL = 60 * time.Second

// SummaryCache keeps location stock summaries in Redis so dashboard
// polling does not hammer the batch table. Misses and Redis failures
// fall through to the database.
type SummaryCache struct {
	client *redis.Client
	logger *zap.Logger
}

func NewSummaryCache(client *redis.Client, logger *zap.Logger) *SummaryCache {
	return &SummaryCache{client: client, logger: logger}
}

func summaryKey(locationID uuid.UUID) string {
	return "stockyard:summary:" + locationID.String()
}

func (c *SummaryCache) Get(ctx context.Context, locationID uuid.UUID) ([]*appinv.StockSummaryView, bool) {
	payload, err := c.client.Get(ctx, summaryKey(locationID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("summary cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var views []*appinv.StockSummaryView
	if err := json.Unmarshal(payload, &views); err != nil {
		c.logger.Warn("summary cache payload corrupt", zap.Error(err))
		return nil, false
	}
	return views, true
}

func (c *SummaryCache) Set(ctx context.Context, locationID uuid.UUID, views []*appinv.StockSummaryView) {
	payload, err := json.Marshal(views)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, summaryKey(locationID), payload, summaryTTL).Err(); err != nil {
		c.logger.Warn("summary cache write failed", zap.Error(err))
	}
}

func (c *SummaryCache) Invalidate(ctx context.Context, locationIDs ...uuid.UUID) {
	keys := make([]string, 0, len(locationIDs))
	for _, id := range locationIDs {
		if id != uuid.Nil {
			keys = append(keys, summaryKey(id))
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("summary cache invalidation failed", zap.Error(err))
	}
}
