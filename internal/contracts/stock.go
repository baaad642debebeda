package contracts

import (
	"context"
	"time"
)

// StockInfo is an immutable market snapshot of a single equity,
// fetched once per analysis cycle.
type StockInfo struct {
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`         // 最新价 (元)
	PctChange    float64   `json:"pct_change"`    // 涨跌幅 (%)
	Volume       float64   `json:"volume"`        // 成交量 (手)
	Amount       float64   `json:"amount"`        // 成交额 (元)
	TurnoverRate float64   `json:"turnover_rate"` // 换手率 (%)
	MarketCap    float64   `json:"market_cap"`    // 总市值 (元)
	ListingDate  time.Time `json:"listing_date"`
}

// ListDays returns the number of calendar days since listing.
// Zero when the listing date is unknown.
func (s StockInfo) ListDays(today time.Time) int {
	if s.ListingDate.IsZero() {
		return 0
	}
	days := int(today.Sub(s.ListingDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Bar is a single daily price bar
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// RankingList identifies a market ranking feed
type RankingList string

const (
	RankingGainers      RankingList = "gainers"       // 涨幅榜
	RankingTurnover     RankingList = "turnover"      // 成交额榜
	RankingTurnoverRate RankingList = "turnover_rate" // 换手率榜
)

// AllRankingLists returns the feeds the discovery stage merges, in a fixed order
func AllRankingLists() []RankingList {
	return []RankingList{RankingGainers, RankingTurnover, RankingTurnoverRate}
}

// MarketDataGateway supplies ranked symbol lists and per-symbol history.
// Implementations may fail or rate-limit; callers treat failures per feed.
type MarketDataGateway interface {
	// Ranking returns the top entries of one ranking feed.
	Ranking(ctx context.Context, list RankingList, limit int) ([]StockInfo, error)

	// History returns up to days calendar days of daily bars,
	// oldest first.
	History(ctx context.Context, symbol string, days int) ([]Bar, error)
}
