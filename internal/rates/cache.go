package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrCacheMiss indicates no quote batch is cached (or it expired).
var ErrCacheMiss = errors.New("no cached quote batch")

const cacheKey = "rates:last_batch"

// Batch is one successful provider fetch.
type Batch struct {
	Source    string                     `json:"source"`
	Quotes    map[string]decimal.Decimal `json:"quotes"`
	FetchedAt time.Time                  `json:"fetched_at"`
}

// Summary is the operator-facing view of the last refresh.
type Summary struct {
	Source     string    `json:"source"`
	QuoteCount int       `json:"quote_count"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// Cache keeps the most recent quote batch in redis so on-demand refreshes
// inside the TTL skip the provider call. Cache failures are reported to the
// caller only so they can be logged; they never abort a refresh.
type Cache struct {
	redis  redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

func NewCache(redis redis.Cmdable, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{redis: redis, ttl: ttl, logger: logger}
}

func (c *Cache) Store(ctx context.Context, batch Batch) {
	if c == nil || c.redis == nil {
		return
	}
	data, err := json.Marshal(batch)
	if err != nil {
		c.logger.Warn("marshal quote batch failed", zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, cacheKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache quote batch failed", zap.Error(err))
	}
}

func (c *Cache) Lookup(ctx context.Context) (*Batch, error) {
	if c == nil || c.redis == nil {
		return nil, ErrCacheMiss
	}
	val, err := c.redis.Get(ctx, cacheKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("cache lookup: %w", err)
	}
	var batch Batch
	if err := json.Unmarshal([]byte(val), &batch); err != nil {
		return nil, fmt.Errorf("decode cached batch: %w", err)
	}
	return &batch, nil
}

// LastRefresh returns the summary of the most recent cached batch.
func (c *Cache) LastRefresh(ctx context.Context) (*Summary, error) {
	batch, err := c.Lookup(ctx)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Source:     batch.Source,
		QuoteCount: len(batch.Quotes),
		FetchedAt:  batch.FetchedAt,
	}, nil
}
