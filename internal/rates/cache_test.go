package rates

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCacheWithoutRedisAlwaysMisses(t *testing.T) {
	cache := NewCache(nil, 0, zap.NewNop())

	_, err := cache.Lookup(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)

	_, err = cache.LastRefresh(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)

	// Store must be a no-op, not a panic.
	cache.Store(context.Background(), Batch{Source: "ZAR"})
}
