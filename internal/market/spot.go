package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/wonny/hotstock/backend/internal/contracts"
)

// Quote API sort fields per ranking list
// f3=涨跌幅, f6=成交额, f8=换手率
var sortFields = map[contracts.RankingList]string{
	contracts.RankingGainers:      "f3",
	contracts.RankingTurnover:     "f6",
	contracts.RankingTurnoverRate: "f8",
}

// clistResponse is the envelope of the clist quote API
type clistResponse struct {
	Data struct {
		Total int                      `json:"total"`
		Diff  []map[string]interface{} `json:"diff"`
	} `json:"data"`
}

// Ranking fetches the top entries of one ranking feed, sorted descending
// by the feed's sort field. Falls back to the HTML source when the JSON
// API fails and a fallback URL is configured.
// ⭐ SSOT: 榜单数据获取只在这个函数
func (c *Client) Ranking(ctx context.Context, list contracts.RankingList, limit int) ([]contracts.StockInfo, error) {
	stocks, err := c.rankingFromAPI(ctx, list, limit)
	if err == nil {
		return stocks, nil
	}

	if c.fallbackURL == "" {
		return nil, err
	}

	c.logger.WithError(err).WithField("list", list).
		Warn("Ranking API failed, trying HTML fallback")
	return c.rankingFromHTML(ctx, list, limit)
}

func (c *Client) rankingFromAPI(ctx context.Context, list contracts.RankingList, limit int) ([]contracts.StockInfo, error) {
	fid, ok := sortFields[list]
	if !ok {
		return nil, fmt.Errorf("unknown ranking list: %s", list)
	}

	// fs selector covers SH/SZ main boards, 科创板 and 创业板
	apiURL := fmt.Sprintf(
		"%s/api/qt/clist/get?pn=1&pz=%d&po=1&np=1&fltt=2&invt=2&fid=%s"+
			"&fs=m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23"+
			"&fields=f2,f3,f5,f6,f8,f12,f14,f20,f26",
		c.baseURL, limit, fid,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var apiResp clistResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(apiResp.Data.Diff) == 0 {
		return nil, fmt.Errorf("ranking %s returned no rows", list)
	}

	stocks := make([]contracts.StockInfo, 0, len(apiResp.Data.Diff))
	for _, row := range apiResp.Data.Diff {
		info := rowToStockInfo(row)
		if info.Symbol == "" {
			continue
		}
		stocks = append(stocks, info)
	}

	c.logger.WithFields(map[string]interface{}{
		"list":   list,
		"count":  len(stocks),
		"source": "quote_api",
	}).Debug("Fetched ranking list")

	return stocks, nil
}

// rowToStockInfo maps a clist row to a StockInfo snapshot.
// Field codes: f2=最新价 f3=涨跌幅 f5=成交量 f6=成交额 f8=换手率
// f12=代码 f14=名称 f20=总市值 f26=上市日期
func rowToStockInfo(row map[string]interface{}) contracts.StockInfo {
	return contracts.StockInfo{
		Symbol:       asString(row["f12"]),
		Name:         asString(row["f14"]),
		Price:        asFloat(row["f2"]),
		PctChange:    asFloat(row["f3"]),
		Volume:       asFloat(row["f5"]),
		Amount:       asFloat(row["f6"]),
		TurnoverRate: asFloat(row["f8"]),
		MarketCap:    asFloat(row["f20"]),
		ListingDate:  parseListingDate(row["f26"]),
	}
}

// parseListingDate parses the yyyymmdd listing date field.
// Returns the zero time when the field is missing or malformed.
func parseListingDate(v interface{}) time.Time {
	var raw string
	switch t := v.(type) {
	case float64:
		raw = strconv.FormatInt(int64(t), 10)
	case string:
		raw = t
	default:
		return time.Time{}
	}

	if len(raw) != 8 {
		return time.Time{}
	}
	parsed, err := time.Parse("20060102", raw)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
