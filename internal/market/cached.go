package market

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/hotstock/backend/internal/contracts"
	"github.com/wonny/hotstock/backend/pkg/cache"
	"github.com/wonny/hotstock/backend/pkg/logger"
)

// CachedGateway decorates a MarketDataGateway with a TTL cache on the
// ranking feeds. Keys carry the list identity, fetch count and trade date;
// entries are invalidated purely by TTL expiry. History calls pass through:
// the cache sits in front of the discovery stage only.
type CachedGateway struct {
	inner  contracts.MarketDataGateway
	store  cache.Store
	ttl    time.Duration
	logger *logger.Logger
	now    func() time.Time
}

// NewCachedGateway wraps a gateway with ranking-feed caching
func NewCachedGateway(inner contracts.MarketDataGateway, store cache.Store, ttl time.Duration, log *logger.Logger) *CachedGateway {
	return &CachedGateway{
		inner:  inner,
		store:  store,
		ttl:    ttl,
		logger: log.WithField("module", "market_cache"),
		now:    time.Now,
	}
}

// Ranking returns the cached feed when fresh, fetching and caching otherwise
func (g *CachedGateway) Ranking(ctx context.Context, list contracts.RankingList, limit int) ([]contracts.StockInfo, error) {
	key := fmt.Sprintf("ranking:%s:%d:%s", list, limit, g.now().Format("2006-01-02"))

	var cached []contracts.StockInfo
	found, err := g.store.Get(ctx, key, &cached)
	if err != nil {
		// Cache trouble is never fatal for discovery
		g.logger.WithError(err).WithField("key", key).Warn("Cache read failed")
	}
	if found {
		g.logger.WithField("key", key).Debug("Ranking cache hit")
		return cached, nil
	}

	stocks, err := g.inner.Ranking(ctx, list, limit)
	if err != nil {
		return nil, err
	}

	if err := g.store.Set(ctx, key, stocks, g.ttl); err != nil {
		g.logger.WithError(err).WithField("key", key).Warn("Cache write failed")
	}

	return stocks, nil
}

// History passes through to the underlying gateway
func (g *CachedGateway) History(ctx context.Context, symbol string, days int) ([]contracts.Bar, error) {
	return g.inner.History(ctx, symbol, days)
}
