package finder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/hotstock/backend/internal/contracts"
	"github.com/wonny/hotstock/backend/pkg/config"
	"github.com/wonny/hotstock/backend/pkg/logger"
)

// Finder discovers hot stock candidates by merging ranking feeds
// and applying eligibility filters.
// ⭐ SSOT: 후보 발굴과 필터링은 여기서만
type Finder struct {
	gateway contracts.MarketDataGateway
	config  config.HotStockConfig
	logger  *logger.Logger
	now     func() time.Time
}

// NewFinder creates a new candidate finder
func NewFinder(gateway contracts.MarketDataGateway, cfg config.HotStockConfig, log *logger.Logger) *Finder {
	return &Finder{
		gateway: gateway,
		config:  cfg,
		logger:  log,
		now:     time.Now,
	}
}

// Find fetches the three ranking feeds, merges them first-wins by symbol
// and filters out ineligible stocks. A single feed failing is tolerated;
// all feeds failing is an error.
func (f *Finder) Find(ctx context.Context) ([]contracts.Candidate, contracts.FunnelStats, error) {
	stats := contracts.FunnelStats{
		FilteredBy: make(map[string]int),
		DroppedBy:  make(map[string]int),
	}

	merged := make([]contracts.Candidate, 0, 3*f.config.FetchCount)
	index := make(map[string]int) // symbol -> position in merged
	failedFeeds := 0

	for _, list := range contracts.AllRankingLists() {
		stocks, err := f.gateway.Ranking(ctx, list, f.config.FetchCount)
		if err != nil {
			failedFeeds++
			f.logger.WithError(err).WithField("list", string(list)).Warn("Ranking feed unavailable")
			continue
		}

		switch list {
		case contracts.RankingGainers:
			stats.GainersCount = len(stocks)
		case contracts.RankingTurnover:
			stats.TurnoverCount = len(stocks)
		case contracts.RankingTurnoverRate:
			stats.TurnoverRateCount = len(stocks)
		}

		for _, stock := range stocks {
			if stock.Symbol == "" {
				continue
			}
			if pos, seen := index[stock.Symbol]; seen {
				// First occurrence wins; later feeds only add provenance
				merged[pos].AddSource(list)
				continue
			}
			index[stock.Symbol] = len(merged)
			merged = append(merged, contracts.NewCandidate(stock, list))
		}
	}

	if failedFeeds == len(contracts.AllRankingLists()) {
		return nil, stats, fmt.Errorf("all %d ranking feeds failed", failedFeeds)
	}

	stats.Merged = len(merged)

	eligible := make([]contracts.Candidate, 0, len(merged))
	today := f.now()
	for _, cand := range merged {
		reason := f.checkEligibility(cand.Stock, today)
		if reason == "" {
			eligible = append(eligible, cand)
		} else {
			stats.FilteredBy[reason]++
			f.logger.WithFields(map[string]interface{}{
				"symbol": cand.Stock.Symbol,
				"name":   cand.Stock.Name,
				"filter": reason,
			}).Debug("Candidate filtered out")
		}
	}

	stats.Eligible = len(eligible)

	f.logger.WithFields(map[string]interface{}{
		"gainers":       stats.GainersCount,
		"turnover":      stats.TurnoverCount,
		"turnover_rate": stats.TurnoverRateCount,
		"merged":        stats.Merged,
		"eligible":      stats.Eligible,
		"filters":       stats.FilteredBy,
	}).Info("Candidate discovery completed")

	return eligible, stats, nil
}

// checkEligibility returns the name of the first failing filter, or ""
// when the stock passes all of them. Filters are independent: each one
// looks only at the stock snapshot.
func (f *Finder) checkEligibility(stock contracts.StockInfo, today time.Time) string {
	if isSpecialTreatment(stock.Name) {
		return "st_stock"
	}
	if stock.Price < f.config.Filter.MinPrice {
		return "price_too_low"
	}
	if stock.Price > f.config.Filter.MaxPrice {
		return "price_too_high"
	}
	if stock.MarketCap < f.config.Filter.MinMarketCap {
		return "market_cap_too_small"
	}
	// Unknown listing dates (ListDays == 0) pass the age filter
	if days := stock.ListDays(today); days > 0 && days < f.config.Filter.MinListDays {
		return "newly_listed"
	}
	return ""
}

// isSpecialTreatment detects ST / *ST / S*ST / SST designations.
// Exchange ST markers are always uppercase, so a plain substring
// check covers every variant without tripping on lowercase names.
func isSpecialTreatment(name string) bool {
	return strings.Contains(name, "ST")
}
