package finder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/hotstock/backend/internal/contracts"
	"github.com/wonny/hotstock/backend/pkg/config"
	"github.com/wonny/hotstock/backend/pkg/logger"
)

type stubGateway struct {
	feeds map[contracts.RankingList][]contracts.StockInfo
	errs  map[contracts.RankingList]error
}

func (s *stubGateway) Ranking(ctx context.Context, list contracts.RankingList, limit int) ([]contracts.StockInfo, error) {
	if err := s.errs[list]; err != nil {
		return nil, err
	}
	return s.feeds[list], nil
}

func (s *stubGateway) History(ctx context.Context, symbol string, days int) ([]contracts.Bar, error) {
	return nil, errors.New("not used")
}

func testConfig() config.HotStockConfig {
	return config.HotStockConfig{
		FetchCount: 30,
		Filter: config.FilterConfig{
			MinPrice:     3.0,
			MaxPrice:     300.0,
			MinMarketCap: 5e9,
			MinListDays:  90,
		},
	}
}

func goodStock(symbol, name string) contracts.StockInfo {
	return contracts.StockInfo{
		Symbol:      symbol,
		Name:        name,
		Price:       25.0,
		MarketCap:   8e9,
		ListingDate: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newTestFinder(gw contracts.MarketDataGateway) *Finder {
	f := NewFinder(gw, testConfig(), logger.NewNop())
	f.now = func() time.Time { return time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC) }
	return f
}

func TestFindMergesWithProvenance(t *testing.T) {
	gw := &stubGateway{feeds: map[contracts.RankingList][]contracts.StockInfo{
		contracts.RankingGainers:      {goodStock("600001", "甲"), goodStock("600002", "乙")},
		contracts.RankingTurnover:     {goodStock("600002", "乙"), goodStock("600003", "丙")},
		contracts.RankingTurnoverRate: {goodStock("600001", "甲")},
	}}

	candidates, stats, err := newTestFinder(gw).Find(context.Background())
	require.NoError(t, err)

	require.Len(t, candidates, 3)
	assert.Equal(t, 3, stats.Merged)
	assert.Equal(t, 3, stats.Eligible)
	assert.Equal(t, 2, stats.GainersCount)
	assert.Equal(t, 2, stats.TurnoverCount)
	assert.Equal(t, 1, stats.TurnoverRateCount)

	// First-appearance order is preserved
	assert.Equal(t, "600001", candidates[0].Stock.Symbol)
	assert.Equal(t, "600002", candidates[1].Stock.Symbol)
	assert.Equal(t, "600003", candidates[2].Stock.Symbol)

	// Provenance is the union of every feed the symbol appeared on
	assert.Equal(t, []string{"gainers", "turnover_rate"}, candidates[0].SourceTags())
	assert.Equal(t, []string{"gainers", "turnover"}, candidates[1].SourceTags())
	assert.Equal(t, []string{"turnover"}, candidates[2].SourceTags())
}

func TestFindFilters(t *testing.T) {
	cheap := goodStock("600010", "低价")
	cheap.Price = 2.5
	pricey := goodStock("600011", "高价")
	pricey.Price = 500
	small := goodStock("600012", "小盘")
	small.MarketCap = 4e9
	fresh := goodStock("600013", "新股")
	fresh.ListingDate = time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	st := goodStock("600014", "*ST海润")

	gw := &stubGateway{feeds: map[contracts.RankingList][]contracts.StockInfo{
		contracts.RankingGainers: {cheap, pricey, small, fresh, st, goodStock("600015", "合格")},
	}}

	candidates, stats, err := newTestFinder(gw).Find(context.Background())
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, "600015", candidates[0].Stock.Symbol)
	assert.Equal(t, 1, stats.FilteredBy["price_too_low"])
	assert.Equal(t, 1, stats.FilteredBy["price_too_high"])
	assert.Equal(t, 1, stats.FilteredBy["market_cap_too_small"])
	assert.Equal(t, 1, stats.FilteredBy["newly_listed"])
	assert.Equal(t, 1, stats.FilteredBy["st_stock"])
}

func TestFindUnknownListingDatePasses(t *testing.T) {
	unknown := goodStock("600020", "未知上市日")
	unknown.ListingDate = time.Time{}

	gw := &stubGateway{feeds: map[contracts.RankingList][]contracts.StockInfo{
		contracts.RankingGainers: {unknown},
	}}

	candidates, _, err := newTestFinder(gw).Find(context.Background())
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestFindToleratesPartialFeedFailure(t *testing.T) {
	gw := &stubGateway{
		feeds: map[contracts.RankingList][]contracts.StockInfo{
			contracts.RankingTurnover: {goodStock("600030", "存活")},
		},
		errs: map[contracts.RankingList]error{
			contracts.RankingGainers:      errors.New("timeout"),
			contracts.RankingTurnoverRate: errors.New("timeout"),
		},
	}

	candidates, stats, err := newTestFinder(gw).Find(context.Background())
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
	assert.Equal(t, 0, stats.GainersCount)
	assert.Equal(t, 1, stats.TurnoverCount)
}

func TestFindAllFeedsFailing(t *testing.T) {
	boom := errors.New("upstream down")
	gw := &stubGateway{errs: map[contracts.RankingList]error{
		contracts.RankingGainers:      boom,
		contracts.RankingTurnover:     boom,
		contracts.RankingTurnoverRate: boom,
	}}

	_, _, err := newTestFinder(gw).Find(context.Background())
	assert.Error(t, err)
}

func TestIsSpecialTreatment(t *testing.T) {
	for _, name := range []string{"ST中基", "*ST海润", "S*ST东泰", "SST前锋"} {
		assert.True(t, isSpecialTreatment(name), name)
	}
	assert.False(t, isSpecialTreatment("贵州茅台"))
	assert.False(t, isSpecialTreatment("宁德时代"))
}
